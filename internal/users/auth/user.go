// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
authentication, token issuance, and session revocation.

# Architecture

This layer is the "Truth" of the system. Entities defined here encapsulate all
business rules related to user identity; storage backends (flat-file or
PostgreSQL+Redis) implement the repository contracts in store.go.
*/
package auth

import (
	"time"

	"github.com/novelhub/backend/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the NovelHub platform.
//
// PasswordHash is part of the persisted record (the flat-file store writes
// entities as-is), so API responses must always go through [User.Public].
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         sec.Role  `json:"role"`
	IsDisabled   bool      `json:"isDisabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the client-safe projection of a [User].
type PublicUser struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       sec.Role  `json:"role"`
	IsDisabled bool      `json:"isDisabled"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public strips credential material from the user for API responses.
func (user *User) Public() PublicUser {
	return PublicUser{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsDisabled: user.IsDisabled,
		CreatedAt:  user.CreatedAt,
	}
}

// Session is the server-side record behind an issued bearer token.
//
// The JTI is embedded in the token; revoking the session is what invalidates
// the token before its embedded expiry passes.
type Session struct {
	JTI       string    `json:"jti"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

// Live reports whether the session is usable at the given instant:
// present, not revoked, and expiring strictly in the future.
func (session *Session) Live(at time.Time) bool {
	return !session.IsRevoked && session.ExpiresAt.After(at)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldIdentifier = "identifier"
	FieldToken      = "token"
	FieldRole       = "role"
	FieldUser       = "user"
	FieldMessage    = "message"
)
