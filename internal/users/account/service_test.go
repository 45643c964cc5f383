// Copyright (c) 2026 NovelHub. All rights reserved.

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/users/account"
	"github.com/novelhub/backend/internal/users/auth"
)

func newTestService(t *testing.T) (*account.Service, *auth.FileUserRepository) {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	userRepo := auth.NewFileUserRepository(store)
	return account.NewService(userRepo), userRepo
}

func seedUser(t *testing.T, userRepo *auth.FileUserRepository, username string) *auth.User {
	t.Helper()
	user := &auth.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         sec.RoleUser,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return user
}

/*
TestService_ListUsers verifies the listing strips credential material.
*/
func TestService_ListUsers(t *testing.T) {
	service, userRepo := newTestService(t)
	seedUser(t, userRepo, "alice")
	seedUser(t, userRepo, "bob")

	profiles, err := service.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[0].Username)
	assert.Equal(t, "bob", profiles[1].Username)
}

/*
TestService_SetDisabled flips the moderation flag both ways.
*/
func TestService_SetDisabled(t *testing.T) {
	service, userRepo := newTestService(t)
	user := seedUser(t, userRepo, "alice")

	ctx := context.Background()

	profile, err := service.SetDisabled(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, profile.IsDisabled)

	profile, err = service.SetDisabled(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, profile.IsDisabled)

	_, err = service.SetDisabled(ctx, 9999, true)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_ChangeRole verifies promotion, demotion, normalization, and the
closed role set.
*/
func TestService_ChangeRole(t *testing.T) {
	service, userRepo := newTestService(t)
	user := seedUser(t, userRepo, "alice")

	ctx := context.Background()

	profile, err := service.ChangeRole(ctx, user.ID, sec.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, profile.Role)

	// Lowercase input is accepted and stored canonically.
	profile, err = service.ChangeRole(ctx, user.ID, sec.Role("user"))
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, profile.Role)

	// Unknown roles are rejected before touching storage.
	_, err = service.ChangeRole(ctx, user.ID, sec.Role("MODERATOR"))
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, auth.FieldRole, ae.Details[0].Field)

	_, err = service.ChangeRole(ctx, 9999, sec.RoleAdmin)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
