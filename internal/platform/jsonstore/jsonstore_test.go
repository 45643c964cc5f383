// Copyright (c) 2026 NovelHub. All rights reserved.

package jsonstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/platform/jsonstore"
)

// record is a minimal entity used to exercise the generic store operations.
type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func recordID(r record) int64 { return r.ID }

/*
TestStore_AppendAndReadAll verifies basic persistence and ordering.
*/
func TestStore_AppendAndReadAll(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, jsonstore.Append(ctx, store, "records", record{ID: 1, Name: "first"}))
	require.NoError(t, jsonstore.Append(ctx, store, "records", record{ID: 2, Name: "second"}))

	records, err := jsonstore.ReadAll[record](store, "records")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Insertion order is preserved
	assert.Equal(t, "first", records[0].Name)
	assert.Equal(t, "second", records[1].Name)
}

/*
TestStore_MissingCollectionReadsEmpty verifies that an absent collection file
behaves like an empty sequence rather than an error.
*/
func TestStore_MissingCollectionReadsEmpty(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	records, err := jsonstore.ReadAll[record](store, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, records)
}

/*
TestStore_FindByID verifies predicate-based and id-based lookups.
*/
func TestStore_FindByID(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, jsonstore.Append(ctx, store, "records", record{ID: 7, Name: "seven"}))

	found, ok, err := jsonstore.FindByID(store, "records", 7, recordID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "seven", found.Name)

	_, ok, err = jsonstore.FindByID(store, "records", 99, recordID)
	require.NoError(t, err)
	assert.False(t, ok)
}

/*
TestStore_Upsert verifies replace-or-append semantics.
*/
func TestStore_Upsert(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	// 1. No match yet: appends
	require.NoError(t, jsonstore.Upsert(ctx, store, "records", record{ID: 1, Name: "original"}, func(r record) bool {
		return r.ID == 1
	}))

	// 2. Match: replaces in place, no duplicate
	require.NoError(t, jsonstore.Upsert(ctx, store, "records", record{ID: 1, Name: "replaced"}, func(r record) bool {
		return r.ID == 1
	}))

	records, err := jsonstore.ReadAll[record](store, "records")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "replaced", records[0].Name)
}

/*
TestStore_ConcurrentInsertsAssignDistinctIDs verifies that computing NextID
inside the Mutate callback yields unique ids under contention.
*/
func TestStore_ConcurrentInsertsAssignDistinctIDs(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := jsonstore.Mutate(ctx, store, "records", func(records []record) ([]record, error) {
				id := jsonstore.NextID(records, recordID)
				return append(records, record{ID: id}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := jsonstore.ReadAll[record](store, "records")
	require.NoError(t, err)
	require.Len(t, records, writers)

	seen := make(map[int64]bool, writers)
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}

/*
TestStore_BoundedLockWait verifies that a writer blocked past the configured
wait fails with ErrUnavailable instead of queueing forever.
*/
func TestStore_BoundedLockWait(t *testing.T) {
	store, err := jsonstore.New(t.TempDir(), jsonstore.WithLockWait(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()

	holding := make(chan struct{})
	releaseHold := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Occupy the collection lock until told to release.
		_ = jsonstore.Mutate(ctx, store, "records", func(records []record) ([]record, error) {
			close(holding)
			<-releaseHold
			return records, nil
		})
	}()
	<-holding

	// The second writer must give up within the bounded wait.
	err = jsonstore.Append(ctx, store, "records", record{ID: 1})
	assert.ErrorIs(t, err, jsonstore.ErrUnavailable)

	close(releaseHold)
	// Wait for the holder's write to finish before TempDir cleanup runs.
	<-done
}

/*
TestStore_LocksArePerCollection verifies that contention on one collection
never blocks writers on another.
*/
func TestStore_LocksArePerCollection(t *testing.T) {
	store, err := jsonstore.New(t.TempDir(), jsonstore.WithLockWait(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()

	holding := make(chan struct{})
	releaseHold := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = jsonstore.Mutate(ctx, store, "busy", func(records []record) ([]record, error) {
			close(holding)
			<-releaseHold
			return records, nil
		})
	}()
	<-holding
	// Release the holder and wait for its write to finish before TempDir
	// cleanup runs.
	defer func() {
		close(releaseHold)
		<-done
	}()

	// A different collection proceeds immediately.
	assert.NoError(t, jsonstore.Append(ctx, store, "idle", record{ID: 1}))
}

/*
TestStore_ReplaceAllSurvivesReopen verifies durability: a second Store over
the same directory observes the previously written contents.
*/
func TestStore_ReplaceAllSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := jsonstore.New(dir)
	require.NoError(t, err)
	require.NoError(t, jsonstore.ReplaceAll(ctx, first, "records", []record{{ID: 1, Name: "durable"}}))

	second, err := jsonstore.New(dir)
	require.NoError(t, err)

	records, err := jsonstore.ReadAll[record](second, "records")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "durable", records[0].Name)
}

/*
TestStore_Ensure verifies that Ensure creates an empty collection exactly once
and never truncates existing data.
*/
func TestStore_Ensure(t *testing.T) {
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Ensure(ctx, "records"))
	require.NoError(t, jsonstore.Append(ctx, store, "records", record{ID: 1}))

	// Second Ensure is a no-op
	require.NoError(t, store.Ensure(ctx, "records"))

	records, err := jsonstore.ReadAll[record](store, "records")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

/*
TestStore_NextID covers the empty and populated cases.
*/
func TestStore_NextID(t *testing.T) {
	assert.Equal(t, int64(1), jsonstore.NextID([]record{}, recordID))
	assert.Equal(t, int64(8), jsonstore.NextID([]record{{ID: 3}, {ID: 7}, {ID: 2}}, recordID))
}
