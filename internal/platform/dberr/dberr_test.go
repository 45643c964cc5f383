// Copyright (c) 2026 NovelHub. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/dberr"
)

/*
TestUniqueConstraint verifies classification of unique-violation errors and
extraction of the violated constraint's name.
*/
func TestUniqueConstraint(t *testing.T) {
	violation := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "account_email_lower_uq",
	}

	assert.Equal(t, "account_email_lower_uq", dberr.UniqueConstraint(violation))

	// The violation is still recognized through wrapping.
	wrapped := fmt.Errorf("insert: %w", violation)
	assert.Equal(t, "account_email_lower_uq", dberr.UniqueConstraint(wrapped))

	assert.Empty(t, dberr.UniqueConstraint(errors.New("plain error")))
	assert.Empty(t, dberr.UniqueConstraint(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
}

/*
TestWrap verifies the database-to-application error mapping.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	notFound := apperr.As(dberr.Wrap(pgx.ErrNoRows, "select"))
	require.NotNil(t, notFound)
	assert.Equal(t, "NOT_FOUND", notFound.Code)

	conflict := apperr.As(dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "insert"))
	require.NotNil(t, conflict)
	assert.Equal(t, "CONFLICT", conflict.Code)

	internal := apperr.As(dberr.Wrap(errors.New("boom"), "query"))
	require.NotNil(t, internal)
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
}
