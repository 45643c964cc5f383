// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package jsonstore implements the flat-file record store backing the default
deployment mode.

Each collection is a single JSON file under the data directory holding an
ordered sequence of records. The store guarantees:

  - Atomic whole-collection replace: writes go to a temp file which is then
    renamed over the collection file, so a reader never observes a partially
    written collection.
  - Mutual exclusion between writers: every mutation acquires an exclusive
    per-collection lock for the full read-modify-write cycle. Operations on
    different collections never contend.
  - Bounded lock waits: a writer that cannot acquire the lock within the
    configured wait fails with [ErrUnavailable]. Callers must treat this as a
    transient, retryable condition — never as "record absent".

Readers do not take the exclusive lock; the rename-based replace is what
keeps concurrent reads consistent.
*/
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrUnavailable is returned when a collection's exclusive lock cannot be
// acquired within the bounded wait. It maps to HTTP 503 at the API boundary.
var ErrUnavailable = errors.New("jsonstore: collection lock unavailable")

// DefaultLockWait is the bounded wait for acquiring a collection lock.
const DefaultLockWait = 5 * time.Second

// Store manages a directory of JSON collection files.
//
// # Concurrency
//
// Store is safe for concurrent use. Each collection carries its own
// exclusive lock, implemented as a capacity-one channel so that acquisition
// can race against a deadline.
type Store struct {
	dir      string
	lockWait time.Duration

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLockWait overrides the bounded wait for collection locks.
// Tests use very short waits to provoke [ErrUnavailable] deterministically.
func WithLockWait(wait time.Duration) Option {
	return func(s *Store) { s.lockWait = wait }
}

// New opens (creating if needed) a store rooted at dir.
func New(dir string, options ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create data dir: %w", err)
	}

	store := &Store{
		dir:      dir,
		lockWait: DefaultLockWait,
		locks:    make(map[string]chan struct{}),
	}

	for _, option := range options {
		option(store)
	}

	return store, nil
}

// Ping verifies the data directory is still present and writable.
// Used by the readiness probe.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("jsonstore: data dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("jsonstore: data path %s is not a directory", s.dir)
	}
	return nil
}

// Ensure creates an empty collection file if it does not exist yet.
func (s *Store) Ensure(ctx context.Context, collection string) error {
	if _, err := os.Stat(s.path(collection)); err == nil {
		return nil
	}
	return ReplaceAll(ctx, s, collection, []json.RawMessage{})
}

// path returns the collection's backing file path.
func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// lock returns the capacity-one semaphore channel for a collection.
func (s *Store) lock(collection string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	semaphore, found := s.locks[collection]
	if !found {
		semaphore = make(chan struct{}, 1)
		s.locks[collection] = semaphore
	}
	return semaphore
}

// acquire takes the collection's exclusive lock, waiting at most lockWait.
// It returns a release function, or [ErrUnavailable] on timeout or context
// cancellation.
func (s *Store) acquire(ctx context.Context, collection string) (func(), error) {
	semaphore := s.lock(collection)

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case semaphore <- struct{}{}:
		return func() { <-semaphore }, nil
	case <-timer.C:
		return nil, fmt.Errorf("jsonstore: %s: %w", collection, ErrUnavailable)
	case <-ctx.Done():
		return nil, fmt.Errorf("jsonstore: %s: %w (%v)", collection, ErrUnavailable, ctx.Err())
	}
}

// # Read Operations

// ReadAll returns the full ordered contents of a collection.
// A missing collection file reads as an empty sequence.
func ReadAll[T any](s *Store, collection string) ([]T, error) {
	return readFile[T](s.path(collection))
}

// FindOne returns the first record matching the predicate.
func FindOne[T any](s *Store, collection string, predicate func(T) bool) (T, bool, error) {
	var zero T

	records, err := ReadAll[T](s, collection)
	if err != nil {
		return zero, false, err
	}

	for _, record := range records {
		if predicate(record) {
			return record, true, nil
		}
	}
	return zero, false, nil
}

// FindByID returns the record whose id (as extracted by idOf) equals id.
func FindByID[T any](s *Store, collection string, id int64, idOf func(T) int64) (T, bool, error) {
	return FindOne(s, collection, func(record T) bool {
		return idOf(record) == id
	})
}

// # Mutating Operations

// ReplaceAll atomically overwrites the collection's full contents.
func ReplaceAll[T any](ctx context.Context, s *Store, collection string, records []T) error {
	release, err := s.acquire(ctx, collection)
	if err != nil {
		return err
	}
	defer release()

	return writeFile(s.path(collection), records)
}

// Mutate runs a read-modify-write cycle under the collection's exclusive
// lock: the current records are read, passed to mutate, and the returned
// slice atomically replaces the collection.
//
// The cycle always runs to completion once the lock is held; a failure
// during the write phase leaves the previous file contents intact.
func Mutate[T any](ctx context.Context, s *Store, collection string, mutate func(records []T) ([]T, error)) error {
	release, err := s.acquire(ctx, collection)
	if err != nil {
		return err
	}
	defer release()

	records, err := readFile[T](s.path(collection))
	if err != nil {
		return err
	}

	updated, err := mutate(records)
	if err != nil {
		return err
	}

	return writeFile(s.path(collection), updated)
}

// Append adds one record to the end of the collection.
func Append[T any](ctx context.Context, s *Store, collection string, record T) error {
	return Mutate(ctx, s, collection, func(records []T) ([]T, error) {
		return append(records, record), nil
	})
}

// Upsert replaces the first record matching the predicate, or appends the
// record if no match exists.
func Upsert[T any](ctx context.Context, s *Store, collection string, record T, match func(T) bool) error {
	return Mutate(ctx, s, collection, func(records []T) ([]T, error) {
		for i, existing := range records {
			if match(existing) {
				records[i] = record
				return records, nil
			}
		}
		return append(records, record), nil
	})
}

// # Identity Helpers

// NextID returns 1 plus the maximum id in records, or 1 for an empty slice.
//
// To guarantee distinct ids under concurrent inserts, call NextID on the
// snapshot passed to a [Mutate] callback — never on a separate read.
func NextID[T any](records []T, idOf func(T) int64) int64 {
	var max int64
	for _, record := range records {
		if id := idOf(record); id > max {
			max = id
		}
	}
	return max + 1
}

// # File I/O

// readFile decodes the collection file into a typed slice.
func readFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("jsonstore: decode %s: %w", path, err)
	}
	return records, nil
}

// writeFile encodes records to a temp file and renames it over the
// collection file. Rename on the same filesystem is atomic, which is what
// keeps lock-free readers consistent.
func writeFile[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("jsonstore: create temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("jsonstore: encode %s: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("jsonstore: sync %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("jsonstore: close %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("jsonstore: rename %s: %w", path, err)
	}

	return nil
}
