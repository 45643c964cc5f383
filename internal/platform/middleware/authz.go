// Copyright (c) 2026 NovelHub. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/ctxutil"
	"github.com/novelhub/backend/internal/platform/respond"
	"github.com/novelhub/backend/internal/platform/sec"
)

// Verifier answers "who is making this request" for a raw bearer token.
//
// # Why an interface?
//
// The implementation (auth service) checks both the token's signature/expiry
// and the session registry's liveness record. Defining the contract here
// decouples the middleware from that service and lets tests inject fakes.
type Verifier interface {
	// Authenticate verifies the token string and returns the embedded
	// identity. It fails if the signature, expiry, or shape is invalid, or
	// if the token's session is revoked or expired.
	Authenticate(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization
// header.
//
// # Per-Request State Machine
//
//   - no credential   → anonymous; [RequireAuth] later rejects with 401 on
//     protected routes.
//   - malformed scheme or empty token → anonymous, with the failure recorded
//     in the context so protected routes answer 401 instead of a generic
//     "authentication required".
//   - verification failure (bad signature, expired token, dead session) →
//     same as malformed. Cryptographic and session failures are deliberately
//     indistinguishable to the caller.
//   - success → [*sec.AuthClaims] injected into the request context.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) || parts[1] == "" {
				ctx := ctxutil.WithAuthError(request.Context(), apperr.Unauthorized("Invalid token format"))
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 3. Token & Session Verification ───────────────────────────────
			claims, err := verifier.Authenticate(request.Context(), parts[1])
			if err != nil {
				ctx := ctxutil.WithAuthError(request.Context(), err)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// The response reuses the credential failure recorded by [Authenticate] when
// one exists, so an expired session answers "Session expired" rather than
// "Authentication required" — both as 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, authFailure(request))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose authenticated identity does not hold the
// required role. It implies [RequireAuth].
//
// # Semantics
//
// Role comparison is case-insensitive equality — there is no role hierarchy;
// an endpoint guarded for ADMIN is open to admins only.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, authFailure(request))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.Role(claims.Role).Is(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// authFailure returns the credential failure recorded for this request, or a
// generic 401 when the request carried no credential at all.
func authFailure(request *http.Request) error {
	if err := ctxutil.GetAuthError(request.Context()); err != nil {
		return err
	}
	return apperr.Unauthorized("Authentication required")
}
