// Copyright (c) 2026 NovelHub. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// signing and verification, access rules) from the domain logic. It acts as
// an Infrastructure service injected into the Application layer.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a bearer token.
//
// # Why custom claims?
//
// By embedding the user id, username, and role directly inside the token,
// the authentication middleware can reconstruct the acting identity without
// a user lookup on every request. The session id (jti) links the token back
// to its server-side session record, which is the only way to revoke the
// token before its embedded expiry passes.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenCodec handles stateless encoding and verification of bearer tokens
// signed with HMAC-SHA-256 (HS256).
//
// The codec has no knowledge of sessions: it only guarantees that a token it
// accepts was signed with the configured secret and has not expired. Session
// liveness is checked separately by the session registry.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a TokenCodec signing with the given secret.
//
// The secret is immutable process-wide configuration; it is passed in
// explicitly rather than read from an ambient global.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Encode creates a signed token for the given identity and session id.
//
// # Claims
//
// id, username, role (custom) plus jti, iat, exp (registered). All are
// required on issuance and all are checked on verification.
func (codec *TokenCodec) Encode(userID int64, username string, role Role, sessionID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     string(role.Normalize()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode checks the shape, signature, and expiry of a token string.
//
// # Rejections
//
//   - malformed compact serialization (anything but three segments)
//   - a declared algorithm other than HS256 (no algorithm-confusion acceptance)
//   - signature mismatch (constant-time comparison inside the library)
//   - missing or passed expiry
//   - missing session id (jti)
func (codec *TokenCodec) Decode(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("sec: token missing session id")
	}

	return claims, nil
}
