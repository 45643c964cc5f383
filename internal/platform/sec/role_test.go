// Copyright (c) 2026 NovelHub. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novelhub/backend/internal/platform/sec"
)

/*
TestRole_Is verifies case-insensitive role comparison.
*/
func TestRole_Is(t *testing.T) {
	assert.True(t, sec.Role("admin").Is(sec.RoleAdmin))
	assert.True(t, sec.Role("ADMIN").Is(sec.RoleAdmin))
	assert.True(t, sec.Role("Admin").Is(sec.RoleAdmin))
	assert.False(t, sec.Role("USER").Is(sec.RoleAdmin))
	assert.False(t, sec.Role("").Is(sec.RoleAdmin))
}

/*
TestRole_Valid verifies that only the known roles validate.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.Role("USER").Valid())
	assert.True(t, sec.Role("admin").Valid())
	assert.False(t, sec.Role("MODERATOR").Valid())
	assert.False(t, sec.Role("").Valid())
}

/*
TestAccessRules covers the pure ownership and draft-visibility predicates.
*/
func TestAccessRules(t *testing.T) {
	owner := &sec.AuthClaims{UserID: 10, Role: "USER"}
	stranger := &sec.AuthClaims{UserID: 11, Role: "USER"}
	admin := &sec.AuthClaims{UserID: 99, Role: "ADMIN"}

	t.Run("is_admin", func(t *testing.T) {
		assert.False(t, sec.IsAdmin(nil))
		assert.False(t, sec.IsAdmin(owner))
		assert.True(t, sec.IsAdmin(admin))
	})

	t.Run("owner_or_admin", func(t *testing.T) {
		assert.False(t, sec.OwnerOrAdmin(nil, 10))
		assert.True(t, sec.OwnerOrAdmin(owner, 10))
		assert.False(t, sec.OwnerOrAdmin(stranger, 10))
		assert.True(t, sec.OwnerOrAdmin(admin, 10))
	})

	t.Run("draft_visible", func(t *testing.T) {
		assert.False(t, sec.DraftVisible(nil, 10))
		assert.True(t, sec.DraftVisible(owner, 10))
		assert.False(t, sec.DraftVisible(stranger, 10))
		assert.True(t, sec.DraftVisible(admin, 10))
	})
}
