// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/novelhub/backend/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Accounts are never physically deleted; moderation works through the
// IsDisabled flag.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username (case-insensitive).

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account and assigns its ID.

		Parameters:
		  - context: context.Context
		  - user: *User (ID is set by the repository)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		List returns every registered account, ordered by ID.

		Parameters:
		  - context: context.Context

		Returns:
		  - []User: All accounts
		  - error: Retrieval failures
	*/
	List(context context.Context) ([]User, error)

	/*
		SetDisabled flips the moderation flag on an account.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - disabled: bool

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	SetDisabled(context context.Context, id int64, disabled bool) error

	/*
		SetRole replaces the account's authorization role.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - role: sec.Role (already validated by the caller)

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	SetRole(context context.Context, id int64, role sec.Role) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - newHash: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdatePassword(context context.Context, id int64, newHash string) error

	/*
		Usernames resolves a set of user IDs to their usernames.

		Used by content listings to attach author names without exposing
		full account records.

		Parameters:
		  - context: context.Context
		  - ids: []int64

		Returns:
		  - map[int64]string: ID → username for every ID that resolved
		  - error: Retrieval failures
	*/
	Usernames(context context.Context, ids []int64) (map[int64]string, error)
}

// # Session Data Access

// SessionRegistry is the server-side source of truth for token liveness.
//
// A bearer token is only accepted while its session is live; revoking the
// session invalidates the token regardless of its embedded expiry.
type SessionRegistry interface {

	/*
		Create registers a new session and returns its identifier (jti).

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - ttl: time.Duration

		Returns:
		  - string: Crypto-random session identifier
		  - error: Persistence failures
	*/
	Create(context context.Context, userID int64, ttl time.Duration) (string, error)

	/*
		IsLive reports whether the session exists, is not revoked, and has
		not expired.

		Parameters:
		  - context: context.Context
		  - jti: string

		Returns:
		  - bool: Liveness verdict (false for unknown sessions — never an error)
		  - error: Backend failures only
	*/
	IsLive(context context.Context, jti string) (bool, error)

	/*
		Revoke permanently invalidates a session.

		Idempotent: revoking an unknown or already-revoked session is a no-op.

		Parameters:
		  - context: context.Context
		  - jti: string

		Returns:
		  - error: Backend failures only
	*/
	Revoke(context context.Context, jti string) error

	/*
		RevokeAllForUser invalidates every session belonging to the account.

		Runs after a password reset: a stolen credential must not keep any
		previously issued token alive. Idempotent.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Backend failures only
	*/
	RevokeAllForUser(context context.Context, userID int64) error
}

// # Volatile Data Access

// ResetTokenStore defines the contract for storing volatile password reset tokens.
type ResetTokenStore interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: int64
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID int64, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - int64: UserID
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, token string) (int64, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
