// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredSessionDeleter removes durable session rows whose expiry has passed.
//
// [PostgresSessionStore.DeleteExpired] is the production implementation.
type ExpiredSessionDeleter interface {
	DeleteExpired(context context.Context) error
}

/*
SweepExpiredSessions periodically purges expired durable session rows.

Description: Redis expires its liveness keys on its own, but the durable
session table keeps its rows until something deletes them. This loop runs
one DeleteExpired per interval until ctx is cancelled; a failed sweep is
logged and retried on the next tick.

Parameters:
  - ctx: context.Context (cancellation stops the loop)
  - deleter: ExpiredSessionDeleter
  - interval: time.Duration
  - log: *slog.Logger
*/
func SweepExpiredSessions(ctx context.Context, deleter ExpiredSessionDeleter, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := deleter.DeleteExpired(ctx); err != nil {
				log.Error("session_sweep_failed", slog.Any("error", err))
			}
		}
	}
}
