// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package account provides administrative user management.

It implements the moderation surface reserved for administrators: listing
accounts, disabling/enabling them, and changing roles. The actual storage is
shared with the auth domain — this package only adds the administrative
use cases on top of it.
*/
package account

import (
	"context"
	"fmt"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/users/auth"
)

// Directory is the slice of the user storage the admin surface needs.
//
// [auth.UserRepository] satisfies it; declaring the narrower contract here
// keeps this package decoupled from the rest of the identity storage.
type Directory interface {
	List(context context.Context) ([]auth.User, error)
	FindByID(context context.Context, id int64) (*auth.User, error)
	SetDisabled(context context.Context, id int64, disabled bool) error
	SetRole(context context.Context, id int64, role sec.Role) error
}

// Service implements administrative account management use cases.
type Service struct {
	directory Directory
}

// NewService constructs a new account [Service].
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

/*
ListUsers returns every registered account as a client-safe projection.

Parameters:
  - context: context.Context

Returns:
  - []auth.PublicUser: All accounts, credential material stripped
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context) ([]auth.PublicUser, error) {
	users, err := service.directory.List(context)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}

	profiles := make([]auth.PublicUser, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Public())
	}
	return profiles, nil
}

/*
SetDisabled flips the moderation flag on an account.

Description: Disabling blocks future logins; already-issued sessions keep
working until they expire or are revoked. Accounts are never deleted.

Parameters:
  - context: context.Context
  - id: int64
  - disabled: bool

Returns:
  - *auth.PublicUser: The updated profile
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) SetDisabled(context context.Context, id int64, disabled bool) (*auth.PublicUser, error) {
	if err := service.directory.SetDisabled(context, id, disabled); err != nil {
		return nil, err
	}

	return service.profile(context, id)
}

/*
ChangeRole replaces an account's authorization role.

Parameters:
  - context: context.Context
  - id: int64
  - role: sec.Role (must be USER or ADMIN)

Returns:
  - *auth.PublicUser: The updated profile
  - error: Validation, apperr.NotFound, or persistence failures
*/
func (service *Service) ChangeRole(context context.Context, id int64, role sec.Role) (*auth.PublicUser, error) {
	if !role.Valid() {
		return nil, apperr.ValidationError("Invalid role", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: "Must be one of: USER, ADMIN",
		})
	}

	if err := service.directory.SetRole(context, id, role); err != nil {
		return nil, err
	}

	return service.profile(context, id)
}

// profile fetches the freshly-updated account and projects it.
func (service *Service) profile(context context.Context, id int64) (*auth.PublicUser, error) {
	user, err := service.directory.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	projection := user.Public()
	return &projection, nil
}
