// Copyright (c) 2026 NovelHub. All rights reserved.

// PostgreSQL implementations of the identity storage contracts.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// the domain-defined interfaces using the [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/dberr"
	"github.com/novelhub/backend/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a PostgreSQL implementation of the UserRepository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: The BIGSERIAL primary key assigned by the database is written
back onto the entity, mirroring the flat-file repository's behavior. The
functional unique indexes on LOWER(email) and LOWER(username) enforce
identity uniqueness atomically; their violations surface as apperr.Conflict
with the same messages the flat-file repository produces.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on a duplicate identity, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (username, email, passwordhash, role, isdisabled, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsDisabled,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		switch dberr.UniqueConstraint(err) {
		case "account_email_lower_uq":
			return apperr.Conflict("Email is already registered")
		case "account_username_lower_uq":
			return apperr.Conflict("Username is already taken")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

const userColumns = "id, username, email, passwordhash, role, isdisabled, createdat, updatedat"

// scanUser hydrates a single account row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsDisabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
	}
	return user, nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"
	return scanUser(repository.pool.QueryRow(context, query, id))
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE LOWER(email) = LOWER($1)"
	return scanUser(repository.pool.QueryRow(context, query, email))
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE LOWER(username) = LOWER($1)"
	return scanUser(repository.pool.QueryRow(context, query, username))
}

/*
List returns every registered account ordered by ID.

Parameters:
  - context: context.Context

Returns:
  - []User: All accounts
  - error: Query failures
*/
func (repository *PostgresUserRepository) List(context context.Context) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users.account ORDER BY id"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

/*
SetDisabled flips the moderation flag on an account.

Parameters:
  - context: context.Context
  - id: int64
  - disabled: bool

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) SetDisabled(context context.Context, id int64, disabled bool) error {
	const query = "UPDATE users.account SET isdisabled = $2, updatedat = $3 WHERE id = $1"
	return repository.exec(context, query, id, disabled, time.Now().UTC())
}

/*
SetRole replaces the account's authorization role.

Parameters:
  - context: context.Context
  - id: int64
  - role: sec.Role

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) SetRole(context context.Context, id int64, role sec.Role) error {
	const query = "UPDATE users.account SET role = $2, updatedat = $3 WHERE id = $1"
	return repository.exec(context, query, id, role.Normalize(), time.Now().UTC())
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - id: int64
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id int64, newHash string) error {
	const query = "UPDATE users.account SET passwordhash = $2, updatedat = $3 WHERE id = $1"
	return repository.exec(context, query, id, newHash, time.Now().UTC())
}

/*
Usernames resolves a set of user IDs to usernames in one round trip.

Parameters:
  - context: context.Context
  - ids: []int64

Returns:
  - map[int64]string: ID → username
  - error: Query failures
*/
func (repository *PostgresUserRepository) Usernames(context context.Context, ids []int64) (map[int64]string, error) {
	const query = "SELECT id, username FROM users.account WHERE id = ANY($1)"

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_usernames_failed: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, dberr.Wrap(err, "usernames")
		}
		names[id] = username
	}

	return names, rows.Err()
}

// exec runs a single-row UPDATE and maps a zero-row result to NotFound.
func (repository *PostgresUserRepository) exec(context context.Context, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_exec_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Durable Session Store

// PostgresSessionStore persists session records in the users.session table.
//
// It is the durable half of [CachedSessionRegistry]: Redis answers liveness
// queries, while this table survives cache flushes and feeds audits.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionStore creates a PostgreSQL-backed session store.
func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

/*
Insert persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (store *PostgresSessionStore) Insert(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (jti, userid, expiresat, isrevoked, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := store.pool.Exec(context, query,
		session.JTI,
		session.UserID,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_store_insert_failed: %w", err)
	}

	return nil
}

/*
MarkRevoked flags the session row as revoked. Idempotent.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - error: Execution errors
*/
func (store *PostgresSessionStore) MarkRevoked(context context.Context, jti string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE jti = $1"
	_, err := store.pool.Exec(context, query, jti)
	if err != nil {
		return fmt.Errorf("postgres_session_store_revoke_failed: %w", err)
	}
	return nil
}

/*
ActiveJTIs returns the identifiers of the user's unrevoked session rows.

Description: Feeds [CachedSessionRegistry.RevokeAllForUser], which needs the
jtis to delete the matching Redis liveness keys.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - []string: Unrevoked session identifiers (possibly empty)
  - error: Query failures
*/
func (store *PostgresSessionStore) ActiveJTIs(context context.Context, userID int64) ([]string, error) {
	const query = "SELECT jti FROM users.session WHERE userid = $1 AND isrevoked = FALSE"

	rows, err := store.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_store_active_jtis_failed: %w", err)
	}
	defer rows.Close()

	var jtis []string
	for rows.Next() {
		var jti string
		if err := rows.Scan(&jti); err != nil {
			return nil, fmt.Errorf("postgres_session_store_active_jtis_scan_failed: %w", err)
		}
		jtis = append(jtis, jti)
	}

	return jtis, rows.Err()
}

/*
MarkAllRevoked flags every session row belonging to the user. Idempotent.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution errors
*/
func (store *PostgresSessionStore) MarkAllRevoked(context context.Context, userID int64) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1"
	_, err := store.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_store_revoke_all_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes sessions whose expiry has passed.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (store *PostgresSessionStore) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	_, err := store.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_store_delete_expired_failed: %w", err)
	}
	return nil
}
