// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/novelhub/backend/internal/platform/apperr"
)

// MemoryResetTokenStore implements [ResetTokenStore] with an in-process map.
//
// Used by the flat-file driver, where no Redis instance is available. Tokens
// are volatile by design: a process restart invalidates outstanding resets.
type MemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryResetToken
}

type memoryResetToken struct {
	userID    int64
	expiresAt time.Time
}

// NewMemoryResetTokenStore creates an in-memory ResetTokenStore.
func NewMemoryResetTokenStore() *MemoryResetTokenStore {
	return &MemoryResetTokenStore{tokens: make(map[string]memoryResetToken)}
}

// Set stores a reset token for a limited duration.
func (store *MemoryResetTokenStore) Set(_ context.Context, token string, userID int64, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.tokens[token] = memoryResetToken{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the userID behind a token, expiring lazily on access.
func (store *MemoryResetTokenStore) Get(_ context.Context, token string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, found := store.tokens[token]
	if !found {
		return 0, apperr.NotFound("Reset token")
	}
	if time.Now().After(entry.expiresAt) {
		delete(store.tokens, token)
		return 0, apperr.NotFound("Reset token")
	}

	return entry.userID, nil
}

// Delete removes a token after successful use.
func (store *MemoryResetTokenStore) Delete(_ context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.tokens, token)
	return nil
}
