// Copyright (c) 2026 NovelHub. All rights reserved.

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/sec"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func newCodec(t *testing.T) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(testSecret)
	require.NoError(t, err)
	return codec
}

/*
TestTokenCodec_RoundTrip verifies that an issued token decodes back to the
same identity and session id.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.Encode(42, "reader", sec.RoleUser, "session-jti", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "session-jti", claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

/*
TestTokenCodec_EmptySecret verifies that the codec refuses to start without a
signing secret.
*/
func TestTokenCodec_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenCodec("")
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsTamperedToken verifies that signature verification
catches payload modification.
*/
func TestTokenCodec_RejectsTamperedToken(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.Encode(42, "reader", sec.RoleUser, "session-jti", time.Hour)
	require.NoError(t, err)

	// Flip a character inside the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Decode(tampered)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsWrongSecret verifies that tokens signed with a different
key never verify.
*/
func TestTokenCodec_RejectsWrongSecret(t *testing.T) {
	codec := newCodec(t)

	other, err := sec.NewTokenCodec("a-completely-different-secret-value")
	require.NoError(t, err)

	token, err := other.Encode(42, "reader", sec.RoleUser, "session-jti", time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsExpiredToken verifies expiry enforcement.
*/
func TestTokenCodec_RejectsExpiredToken(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.Encode(42, "reader", sec.RoleUser, "session-jti", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsUnsignedToken verifies that the "none" algorithm is
never accepted, regardless of what the attacker-controlled header declares.
*/
func TestTokenCodec_RejectsUnsignedToken(t *testing.T) {
	codec := newCodec(t)

	claims := &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "session-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   42,
		Username: "reader",
		Role:     "ADMIN",
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsMissingExpiry verifies that a token without an exp claim
is refused even if correctly signed.
*/
func TestTokenCodec_RejectsMissingExpiry(t *testing.T) {
	codec := newCodec(t)

	claims := &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "session-jti"},
		UserID:           42,
	}
	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := signed.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsMissingSessionID verifies that tokens lacking a jti are
refused: without it the session cannot be revoked.
*/
func TestTokenCodec_RejectsMissingSessionID(t *testing.T) {
	codec := newCodec(t)

	claims := &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 42,
	}
	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := signed.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.Error(t, err)
}

/*
TestTokenCodec_RejectsGarbage covers malformed compact serializations.
*/
func TestTokenCodec_RejectsGarbage(t *testing.T) {
	codec := newCodec(t)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(input)
		assert.Error(t, err, "input %q", input)
	}
}
