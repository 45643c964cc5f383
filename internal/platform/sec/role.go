// Copyright (c) 2026 NovelHub. All rights reserved.

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access: user administration, content override
	RoleAdmin Role = "ADMIN"

	// Default role for standard registered users
	RoleUser Role = "USER"
)

// Is reports whether the role equals target, ignoring case.
//
// Role values are persisted uppercase, but tokens minted by older deployments
// may carry lowercase values, so comparisons are always case-insensitive.
func (r Role) Is(target Role) bool {
	return strings.EqualFold(string(r), string(target))
}

// Valid reports whether the role is one of the known role values.
func (r Role) Valid() bool {
	return r.Is(RoleAdmin) || r.Is(RoleUser)
}

// Normalize returns the canonical uppercase form of the role.
func (r Role) Normalize() Role {
	return Role(strings.ToUpper(string(r)))
}

// # Access Rules

// These are pure functions over an already-established identity and resource
// state. They never touch storage.

// IsAdmin reports whether the claims belong to an administrator.
// A nil claims value (anonymous request) is never an admin.
func IsAdmin(claims *AuthClaims) bool {
	return claims != nil && Role(claims.Role).Is(RoleAdmin)
}

// OwnerOrAdmin reports whether the claims identify the owner of a resource
// or an administrator. Used to gate mutations on protected resources.
func OwnerOrAdmin(claims *AuthClaims, ownerID int64) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == ownerID || IsAdmin(claims)
}

// DraftVisible reports whether the claims may read a draft resource owned by
// ownerID. Owners always can; administrators get the same override they have
// for mutations.
func DraftVisible(claims *AuthClaims, ownerID int64) bool {
	return OwnerOrAdmin(claims, ownerID)
}
