// Copyright (c) 2026 NovelHub. All rights reserved.

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/ctxutil"
	"github.com/novelhub/backend/internal/platform/middleware"
	"github.com/novelhub/backend/internal/platform/sec"
)

// fakeVerifier accepts exactly one token and fails every other one with the
// configured error.
type fakeVerifier struct {
	validToken string
	claims     *sec.AuthClaims
	failWith   error
}

func (v *fakeVerifier) Authenticate(_ context.Context, token string) (*sec.AuthClaims, error) {
	if token == v.validToken {
		return v.claims, nil
	}
	return nil, v.failWith
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{
		validToken: "good-token",
		claims:     &sec.AuthClaims{UserID: 42, Username: "reader", Role: "USER"},
		failWith:   apperr.Unauthorized("Session expired"),
	}
}

// captureClaims records what the downstream handler observed.
func captureClaims(claims **sec.AuthClaims) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		*claims = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}
}

/*
TestAuthenticate verifies the per-request state machine: anonymous, malformed,
rejected, and verified credentials.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantClaims bool
	}{
		{"no_header_is_anonymous", "", false},
		{"wrong_scheme_is_anonymous", "Basic dXNlcjpwYXNz", false},
		{"empty_token_is_anonymous", "Bearer ", false},
		{"bad_token_is_anonymous", "Bearer forged-token", false},
		{"valid_token_authenticates", "Bearer good-token", true},
		{"scheme_is_case_insensitive", "bearer good-token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.AuthClaims
			handler := middleware.Authenticate(newVerifier())(captureClaims(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			// Authenticate never blocks by itself
			assert.Equal(t, http.StatusOK, recorder.Code)

			if tt.wantClaims {
				require.NotNil(t, seen)
				assert.Equal(t, int64(42), seen.UserID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

/*
TestRequireAuth verifies that protected routes surface the recorded credential
failure, falling back to a generic 401 for bare anonymous requests.
*/
func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		authHeader  string
		wantStatus  int
		wantMessage string
	}{
		{"anonymous_generic_401", "", http.StatusUnauthorized, "Authentication required"},
		{"malformed_names_the_failure", "Token abc", http.StatusUnauthorized, "Invalid token format"},
		{"dead_session_names_the_failure", "Bearer forged-token", http.StatusUnauthorized, "Session expired"},
		{"valid_passes", "Bearer good-token", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(newVerifier())(middleware.RequireAuth(next))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantMessage != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantMessage)
			}
		})
	}
}

/*
TestRequireRole verifies flat, case-insensitive role gating.
*/
func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		role       string
		authed     bool
		wantStatus int
	}{
		{"anonymous_401", "", false, http.StatusUnauthorized},
		{"user_forbidden", "USER", true, http.StatusForbidden},
		{"admin_allowed", "ADMIN", true, http.StatusOK},
		{"lowercase_admin_allowed", "admin", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newVerifier()
			verifier.claims = &sec.AuthClaims{UserID: 42, Username: "reader", Role: tt.role}

			handler := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleAdmin)(next))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authed {
				request.Header.Set("Authorization", "Bearer good-token")
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
