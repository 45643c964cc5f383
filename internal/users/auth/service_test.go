// Copyright (c) 2026 NovelHub. All rights reserved.

package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/users/auth"
)

// newTestService wires an auth service over file-backed storage in a temp dir.
func newTestService(t *testing.T) (*auth.Service, *auth.FileUserRepository) {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	codec, err := sec.NewTokenCodec("unit-test-signing-secret")
	require.NoError(t, err)

	userRepo := auth.NewFileUserRepository(store)
	service := auth.NewService(
		userRepo,
		auth.NewFileSessionRegistry(store),
		auth.NewMemoryResetTokenStore(),
		codec,
		time.Hour,
	)
	return service, userRepo
}

func register(t *testing.T, service *auth.Service, username, email string) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

/*
TestService_Register verifies enrollment assigns an id, hashes the password,
and defaults to the USER role.
*/
func TestService_Register(t *testing.T) {
	service, _ := newTestService(t)

	user := register(t, service, "reader", "reader@example.com")

	assert.Positive(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsDisabled)

	// Never store the plain-text password
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))
}

/*
TestService_Register_Conflicts verifies identity uniqueness, case-insensitively.
*/
func TestService_Register_Conflicts(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")

	tests := []struct {
		name     string
		username string
		email    string
		message  string
	}{
		{"duplicate_email", "other", "reader@example.com", "Email is already registered"},
		{"duplicate_email_case", "other", "READER@EXAMPLE.COM", "Email is already registered"},
		{"duplicate_username", "reader", "other@example.com", "Username is already taken"},
		{"duplicate_username_case", "Reader", "other@example.com", "Username is already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: tt.username,
				Email:    tt.email,
				Password: "irrelevant",
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

/*
TestService_Register_ConcurrentDuplicates verifies that uniqueness holds
under racing registrations: the repository decides conflicts inside the
collection's exclusive write cycle, so exactly one of N simultaneous
attempts with the same identity can land.
*/
func TestService_Register_ConcurrentDuplicates(t *testing.T) {
	service, userRepo := newTestService(t)

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: "racer",
				Email:    "racer@example.com",
				Password: "correct-horse",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	}
	assert.Equal(t, 1, succeeded)

	// Exactly one account carries the contested identity.
	users, err := userRepo.List(context.Background())
	require.NoError(t, err)

	matching := 0
	for _, user := range users {
		if strings.EqualFold(user.Email, "racer@example.com") {
			matching++
		}
	}
	assert.Equal(t, 1, matching)
}

/*
TestService_Login verifies authentication by email and by username.
*/
func TestService_Login(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")

	for _, identifier := range []string{"reader@example.com", "reader"} {
		session, err := service.Login(context.Background(), auth.LoginInput{
			Identifier: identifier,
			Password:   "correct-horse",
		})
		require.NoError(t, err, "identifier %q", identifier)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "reader", session.User.Username)
	}
}

/*
TestService_Login_InvalidCredentials verifies the anti-enumeration behavior:
unknown accounts and wrong passwords answer with the same generic 401.
*/
func TestService_Login_InvalidCredentials(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown_identifier", "ghost@example.com", "correct-horse"},
		{"wrong_password", "reader@example.com", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{
				Identifier: tt.identifier,
				Password:   tt.password,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Invalid credentials", ae.Message)
		})
	}
}

/*
TestService_Login_DisabledAccount verifies the moderation gate runs only
after the credential check, so a disabled account is not discoverable with a
wrong password.
*/
func TestService_Login_DisabledAccount(t *testing.T) {
	service, userRepo := newTestService(t)
	user := register(t, service, "banned", "banned@example.com")
	require.NoError(t, userRepo.SetDisabled(context.Background(), user.ID, true))

	// Correct password: the caller proved identity, so name the real reason.
	_, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "banned@example.com",
		Password:   "correct-horse",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.Equal(t, "Account disabled", ae.Message)

	// Wrong password: same generic 401 as any other failed login.
	_, err = service.Login(context.Background(), auth.LoginInput{
		Identifier: "banned@example.com",
		Password:   "wrong-password",
	})
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestService_AuthenticateLifecycle walks the full session lifecycle:
login, verify, logout, verify again.
*/
func TestService_AuthenticateLifecycle(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "reader", "reader@example.com")

	ctx := context.Background()
	session, err := service.Login(ctx, auth.LoginInput{
		Identifier: "reader",
		Password:   "correct-horse",
	})
	require.NoError(t, err)

	// Live session verifies and yields the acting identity.
	claims, err := service.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	require.NotEmpty(t, claims.ID)

	// Logout revokes the session; the (still unexpired) token is now dead.
	require.NoError(t, service.Logout(ctx, claims.ID))

	_, err = service.Authenticate(ctx, session.Token)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "Session expired", ae.Message)

	// Logout is idempotent: revoking a dead session still succeeds.
	assert.NoError(t, service.Logout(ctx, claims.ID))
	assert.NoError(t, service.Logout(ctx, "never-existed"))
}

/*
TestService_Authenticate_BadToken verifies that garbage and forged tokens
answer with the generic invalid-token message, not "Session expired".
*/
func TestService_Authenticate_BadToken(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Authenticate(context.Background(), "not-a-token")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "Invalid or expired token", ae.Message)
}

/*
TestService_IndependentSessions verifies that revoking one session leaves a
second session for the same user live.
*/
func TestService_IndependentSessions(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")

	ctx := context.Background()
	login := func() (*auth.LoginSession, *sec.AuthClaims) {
		session, err := service.Login(ctx, auth.LoginInput{Identifier: "reader", Password: "correct-horse"})
		require.NoError(t, err)
		claims, err := service.Authenticate(ctx, session.Token)
		require.NoError(t, err)
		return session, claims
	}

	first, firstClaims := login()
	second, _ := login()
	assert.NotEqual(t, first.Token, second.Token)

	require.NoError(t, service.Logout(ctx, firstClaims.ID))

	_, err := service.Authenticate(ctx, first.Token)
	assert.Error(t, err)

	_, err = service.Authenticate(ctx, second.Token)
	assert.NoError(t, err)
}

/*
TestService_Me returns the client-safe profile without the password hash.
*/
func TestService_Me(t *testing.T) {
	service, _ := newTestService(t)
	user := register(t, service, "reader", "reader@example.com")

	profile, err := service.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "reader", profile.Username)

	_, err = service.Me(context.Background(), 9999)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_PasswordReset walks the forgot-password flow end to end and
verifies the token is single use.
*/
func TestService_PasswordReset(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")

	ctx := context.Background()

	// Unknown email: succeed with an empty token (no enumeration).
	token, err := service.RequestPasswordReset(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = service.RequestPasswordReset(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, service.ResetPassword(ctx, token, "new-password"))

	// Old password no longer works, new one does.
	_, err = service.Login(ctx, auth.LoginInput{Identifier: "reader", Password: "correct-horse"})
	assert.Error(t, err)
	_, err = service.Login(ctx, auth.LoginInput{Identifier: "reader", Password: "new-password"})
	assert.NoError(t, err)

	// The token was consumed.
	err = service.ResetPassword(ctx, token, "another-password")
	assert.Error(t, err)
}

/*
TestService_ResetPassword_RevokesSessions verifies that completing a reset
logs out every session the account holds, so whoever held the old password
loses access immediately.
*/
func TestService_ResetPassword_RevokesSessions(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service, "reader", "reader@example.com")
	other := register(t, service, "bystander", "bystander@example.com")

	ctx := context.Background()
	login := func(identifier, password string) string {
		session, err := service.Login(ctx, auth.LoginInput{Identifier: identifier, Password: password})
		require.NoError(t, err)
		return session.Token
	}

	first := login("reader", "correct-horse")
	second := login("reader", "correct-horse")
	bystander := login("bystander", "correct-horse")

	token, err := service.RequestPasswordReset(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NoError(t, service.ResetPassword(ctx, token, "new-password"))

	// Every pre-reset session of the account is dead.
	for _, stale := range []string{first, second} {
		_, err := service.Authenticate(ctx, stale)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Session expired", ae.Message)
	}

	// Other accounts are untouched.
	claims, err := service.Authenticate(ctx, bystander)
	require.NoError(t, err)
	assert.Equal(t, other.ID, claims.UserID)

	// The account itself can log back in with the new password.
	fresh := login("reader", "new-password")
	_, err = service.Authenticate(ctx, fresh)
	assert.NoError(t, err)
}
