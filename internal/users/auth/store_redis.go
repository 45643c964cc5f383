// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/pkg/uuid"
)

// # Cached Session Registry

// CachedSessionRegistry implements [SessionRegistry] with a Redis liveness
// cache in front of a durable PostgreSQL session table.
//
// # Strategy
//
//   - Create: insert the durable row, then SET a Redis key whose TTL matches
//     the session lifetime.
//   - IsLive: EXISTS on the Redis key. Expiry is handled by Redis itself;
//     a missing key means the session is expired or revoked.
//   - Revoke: DEL the Redis key (immediate effect), then flip the durable row.
type CachedSessionRegistry struct {
	cache   *redis.Client
	durable *PostgresSessionStore
}

// NewCachedSessionRegistry creates a Redis+PostgreSQL session registry.
func NewCachedSessionRegistry(cache *redis.Client, durable *PostgresSessionStore) *CachedSessionRegistry {
	return &CachedSessionRegistry{cache: cache, durable: durable}
}

/*
Create registers a new session in both stores and returns its identifier.

Parameters:
  - context: context.Context
  - userID: int64
  - ttl: time.Duration

Returns:
  - string: Crypto-random jti
  - error: Persistence failures (either store)
*/
func (registry *CachedSessionRegistry) Create(context context.Context, userID int64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	session := &Session{
		JTI:       uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		IsRevoked: false,
		CreatedAt: now,
	}

	if err := registry.durable.Insert(context, session); err != nil {
		return "", err
	}

	key := constants.RedisPrefixSession + session.JTI
	if err := registry.cache.Set(context, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return "", fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return session.JTI, nil
}

/*
IsLive reports whether the session's cache key still exists.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - bool: Liveness verdict
  - error: Cache connectivity failures only
*/
func (registry *CachedSessionRegistry) IsLive(context context.Context, jti string) (bool, error) {
	key := constants.RedisPrefixSession + jti

	count, err := registry.cache.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_exists_failed: %w", err)
	}

	return count > 0, nil
}

/*
Revoke invalidates the session in both stores. Idempotent.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - error: Backend failures only
*/
func (registry *CachedSessionRegistry) Revoke(context context.Context, jti string) error {
	key := constants.RedisPrefixSession + jti

	// Cache first: the moment the key is gone the token stops working.
	if err := registry.cache.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_del_failed: %w", err)
	}

	return registry.durable.MarkRevoked(context, jti)
}

/*
RevokeAllForUser invalidates every session the user holds, in both stores.

Description: The durable table is the authority on which sessions exist; its
unrevoked jtis name the Redis keys to delete. Idempotent.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Backend failures from either store
*/
func (registry *CachedSessionRegistry) RevokeAllForUser(context context.Context, userID int64) error {
	jtis, err := registry.durable.ActiveJTIs(context, userID)
	if err != nil {
		return err
	}

	if len(jtis) > 0 {
		keys := make([]string, len(jtis))
		for i, jti := range jtis {
			keys[i] = constants.RedisPrefixSession + jti
		}
		if err := registry.cache.Del(context, keys...).Err(); err != nil {
			return fmt.Errorf("redis_session_del_all_failed: %w", err)
		}
	}

	return registry.durable.MarkAllRevoked(context, userID)
}

// # Reset Token Store

// RedisResetTokenStore implements [ResetTokenStore] using Redis.
type RedisResetTokenStore struct {
	client *redis.Client
}

// NewRedisResetTokenStore creates a Redis-backed ResetTokenStore.
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: int64
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisResetTokenStore) Set(context context.Context, token string, userID int64, ttl time.Duration) error {
	key := constants.RedisPrefixResetToken + token

	if err := store.client.Set(context, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - int64: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisResetTokenStore) Get(context context.Context, token string) (int64, error) {
	key := constants.RedisPrefixResetToken + token

	value, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.NotFound("Reset token")
		}
		return 0, fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis_reset_token_corrupt_value: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (store *RedisResetTokenStore) Delete(context context.Context, token string) error {
	key := constants.RedisPrefixResetToken + token

	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
