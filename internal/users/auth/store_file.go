// Copyright (c) 2026 NovelHub. All rights reserved.

// Flat-file implementations of the identity storage contracts.
//
// # Architecture
//
// Records live in the "users" and "sessions" collections of the shared
// [jsonstore.Store]. Every mutation is a read-modify-write cycle under the
// collection's exclusive lock; ID assignment happens inside that cycle so
// concurrent inserts can never mint duplicate IDs.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/pkg/uuid"
)

// # User Repository

// FileUserRepository implements [UserRepository] on the flat-file store.
type FileUserRepository struct {
	store *jsonstore.Store
}

// NewFileUserRepository creates a flat-file implementation of the UserRepository.
func NewFileUserRepository(store *jsonstore.Store) *FileUserRepository {
	return &FileUserRepository{store: store}
}

/*
Create persists a new user record into the users collection.

Description: Assigns the next sequential ID and enforces case-insensitive
email/username uniqueness inside the store's exclusive read-modify-write
cycle, so concurrent registrations with the same identity cannot both land.

Parameters:
  - context: context.Context
  - user: *User (ID is assigned here)

Returns:
  - error: apperr.Conflict on a duplicate identity,
    jsonstore.ErrUnavailable on lock timeout, or write failures
*/
func (repository *FileUserRepository) Create(context context.Context, user *User) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionUsers, func(records []User) ([]User, error) {
		// Uniqueness must be decided on the snapshot held under the lock; a
		// check against a separate read races with concurrent registrations.
		for _, record := range records {
			if strings.EqualFold(record.Email, user.Email) {
				return nil, apperr.Conflict("Email is already registered")
			}
			if strings.EqualFold(record.Username, user.Username) {
				return nil, apperr.Conflict("Username is already taken")
			}
		}

		now := time.Now().UTC()
		user.ID = jsonstore.NextID(records, func(record User) int64 { return record.ID })
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		user.UpdatedAt = now

		return append(records, *user), nil
	})
}

/*
FindByID retrieves a user record by its ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or read failures
*/
func (repository *FileUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	user, found, err := jsonstore.FindByID(repository.store, constants.CollectionUsers, id,
		func(record User) int64 { return record.ID })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

/*
FindByEmail retrieves a user record by email, ignoring case.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or read failures
*/
func (repository *FileUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	user, found, err := jsonstore.FindOne(repository.store, constants.CollectionUsers, func(record User) bool {
		return strings.EqualFold(record.Email, email)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

/*
FindByUsername retrieves a user record by username, ignoring case.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or read failures
*/
func (repository *FileUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	user, found, err := jsonstore.FindOne(repository.store, constants.CollectionUsers, func(record User) bool {
		return strings.EqualFold(record.Username, username)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

/*
List returns every registered account in insertion (ID) order.

Parameters:
  - context: context.Context

Returns:
  - []User: All accounts
  - error: Read failures
*/
func (repository *FileUserRepository) List(context context.Context) ([]User, error) {
	return jsonstore.ReadAll[User](repository.store, constants.CollectionUsers)
}

/*
SetDisabled flips the moderation flag on an account.

Parameters:
  - context: context.Context
  - id: int64
  - disabled: bool

Returns:
  - error: apperr.NotFound or write failures
*/
func (repository *FileUserRepository) SetDisabled(context context.Context, id int64, disabled bool) error {
	return repository.update(context, id, func(user *User) {
		user.IsDisabled = disabled
	})
}

/*
SetRole replaces the account's authorization role.

Parameters:
  - context: context.Context
  - id: int64
  - role: sec.Role

Returns:
  - error: apperr.NotFound or write failures
*/
func (repository *FileUserRepository) SetRole(context context.Context, id int64, role sec.Role) error {
	return repository.update(context, id, func(user *User) {
		user.Role = role.Normalize()
	})
}

/*
UpdatePassword replaces only the account's password hash.

Parameters:
  - context: context.Context
  - id: int64
  - newHash: string

Returns:
  - error: apperr.NotFound or write failures
*/
func (repository *FileUserRepository) UpdatePassword(context context.Context, id int64, newHash string) error {
	return repository.update(context, id, func(user *User) {
		user.PasswordHash = newHash
	})
}

/*
Usernames resolves a set of user IDs to usernames.

Parameters:
  - context: context.Context
  - ids: []int64

Returns:
  - map[int64]string: ID → username for every ID that resolved
  - error: Read failures
*/
func (repository *FileUserRepository) Usernames(context context.Context, ids []int64) (map[int64]string, error) {
	users, err := jsonstore.ReadAll[User](repository.store, constants.CollectionUsers)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	names := make(map[int64]string, len(ids))
	for _, user := range users {
		if wanted[user.ID] {
			names[user.ID] = user.Username
		}
	}
	return names, nil
}

// update applies fn to the matching record inside the exclusive cycle.
func (repository *FileUserRepository) update(context context.Context, id int64, fn func(*User)) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionUsers, func(records []User) ([]User, error) {
		for i := range records {
			if records[i].ID == id {
				fn(&records[i])
				records[i].UpdatedAt = time.Now().UTC()
				return records, nil
			}
		}
		return nil, apperr.NotFound("User")
	})
}

// # Session Registry

// FileSessionRegistry implements [SessionRegistry] on the flat-file store.
type FileSessionRegistry struct {
	store *jsonstore.Store
}

// NewFileSessionRegistry creates a flat-file implementation of the SessionRegistry.
func NewFileSessionRegistry(store *jsonstore.Store) *FileSessionRegistry {
	return &FileSessionRegistry{store: store}
}

/*
Create registers a new session record and returns its identifier.

Parameters:
  - context: context.Context
  - userID: int64
  - ttl: time.Duration

Returns:
  - string: Crypto-random jti
  - error: Write failures
*/
func (registry *FileSessionRegistry) Create(context context.Context, userID int64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	session := Session{
		JTI:       uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		IsRevoked: false,
		CreatedAt: now,
	}

	if err := jsonstore.Append(context, registry.store, constants.CollectionSessions, session); err != nil {
		return "", err
	}
	return session.JTI, nil
}

/*
IsLive reports whether the session exists, is not revoked, and has not expired.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - bool: Liveness verdict (false for unknown sessions)
  - error: Read failures only
*/
func (registry *FileSessionRegistry) IsLive(context context.Context, jti string) (bool, error) {
	session, found, err := jsonstore.FindOne(registry.store, constants.CollectionSessions, func(record Session) bool {
		return record.JTI == jti
	})
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return session.Live(time.Now().UTC()), nil
}

/*
Revoke permanently invalidates a session. Idempotent.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - error: Write failures only
*/
func (registry *FileSessionRegistry) Revoke(context context.Context, jti string) error {
	return jsonstore.Mutate(context, registry.store, constants.CollectionSessions, func(records []Session) ([]Session, error) {
		for i := range records {
			if records[i].JTI == jti {
				records[i].IsRevoked = true
				break
			}
		}
		// Unknown jti: nothing to revoke, still a success.
		return records, nil
	})
}

/*
RevokeAllForUser invalidates every session belonging to the user. Idempotent.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Write failures only
*/
func (registry *FileSessionRegistry) RevokeAllForUser(context context.Context, userID int64) error {
	return jsonstore.Mutate(context, registry.store, constants.CollectionSessions, func(records []Session) ([]Session, error) {
		for i := range records {
			if records[i].UserID == userID {
				records[i].IsRevoked = true
			}
		}
		return records, nil
	})
}
