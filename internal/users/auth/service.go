// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/sec"
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// token issuance logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	sessionRegistry SessionRegistry
	resetTokenStore ResetTokenStore
	tokenCodec      *sec.TokenCodec
	sessionTTL      time.Duration
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	sessionRegistry SessionRegistry,
	resetTokenStore ResetTokenStore,
	tokenCodec *sec.TokenCodec,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		userRepository:  userRepo,
		sessionRegistry: sessionRegistry,
		resetTokenStore: resetTokenStore,
		tokenCodec:      tokenCodec,
		sessionTTL:      sessionTTL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with the default USER role, handling
password hashing and identity conflict checks.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsDisabled:   false,
	}

	// Persist the user; the repository assigns the ID and is the atomic
	// authority on uniqueness (the checks above are a fast path that avoids
	// hashing on an obvious duplicate, but cannot exclude a racing insert).
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Email or username
	Password   string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a bearer token.

Description: Resolves the identifier to an account, performs constant-time
password comparison, and establishes a revocable server-side session.

The disabled check runs AFTER the credential check: a wrong password against
a disabled account still answers 401, so an attacker cannot probe which
accounts exist but are suspended.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Signed token plus the user profile
  - error: Unauthorized, Forbidden (disabled), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Flexible login: look up by email or username
	user, err := service.userRepository.FindByEmail(context, input.Identifier)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Identifier)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Verify password hash using bcrypt's constant-time comparison
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Moderation gate, only after the caller proved they hold the credentials
	if user.IsDisabled {
		return nil, apperr.Forbidden("Account disabled")
	}

	token, err := service.Issue(context, user)
	if err != nil {
		return nil, err
	}

	return &LoginSession{Token: token, User: user}, nil
}

/*
Issue establishes a fresh session for the user and encodes its bearer token.

Description: One session per issuance — the registry mints the jti, and the
codec embeds it so the token can be revoked server-side later.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - string: Signed bearer token
  - error: Registry or signing failures
*/
func (service *Service) Issue(context context.Context, user *User) (string, error) {
	sessionID, err := service.sessionRegistry.Create(context, user.ID, service.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	token, err := service.tokenCodec.Encode(user.ID, user.Username, user.Role, sessionID, service.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

/*
Authenticate verifies a raw bearer token against the codec and the registry.

Description: This is the [middleware.Verifier] implementation. A token passes
only if the signature and expiry verify AND its session is still live. Both
failure classes map to 401; only the session case names itself "expired" so
logged-out clients know to re-authenticate rather than retry.

Parameters:
  - context: context.Context
  - token: string (raw compact token, no scheme prefix)

Returns:
  - *sec.AuthClaims: The acting identity
  - error: apperr.Unauthorized on any verification failure
*/
func (service *Service) Authenticate(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokenCodec.Decode(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	live, err := service.sessionRegistry.IsLive(context, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_check_failed: %w", err)
	}
	if !live {
		return nil, apperr.Unauthorized("Session expired")
	}

	return claims, nil
}

/*
Logout revokes the session behind the given jti.

Description: Idempotent — logging out an already-dead session succeeds, so a
client retrying a flaky logout never sees an error.

Parameters:
  - context: context.Context
  - sessionID: string (jti from the authenticated token)

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := service.sessionRegistry.Revoke(context, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
Me returns the current account's client-safe profile.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *PublicUser: Profile projection
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Me(context context.Context, userID int64) (*PublicUser, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	profile := user.Public()
	return &profile, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure single-use token bound to the account.

NOTE: An unknown email returns success with an empty token to prevent
user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (empty if the email is unknown)
  - error: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenStore.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates storage,
revokes every session the account holds, and consumes the token so it
cannot be replayed.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: NotFound (bad token) or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	userID, err := service.resetTokenStore.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// A reset implies the old credential may be in the wrong hands: log out
	// every session the account holds, not just the one asking.
	if err := service.sessionRegistry.RevokeAllForUser(context, userID); err != nil {
		return fmt.Errorf("auth_service_reset_revoke_sessions_failed: %w", err)
	}

	// Single use: consume the token on success.
	_ = service.resetTokenStore.Delete(context, token)

	return nil
}
