// Copyright (c) 2026 NovelHub. All rights reserved.

// Package seed bootstraps a fresh flat-file deployment with a default
// administrator and sample content.
package seed

import (
	"context"
	"log/slog"

	"github.com/novelhub/backend/internal/core/chapter"
	"github.com/novelhub/backend/internal/core/novel"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/users/auth"
)

// Default administrator credentials for a fresh deployment.
//
// The password is published in the deployment guide; operators are expected
// to change it immediately after first login.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@novelhub.local"
	AdminPassword = "Admin12345!"
)

// EnsureDefaults prepares all collections and, when the user collection is
// empty, creates the default administrator plus one sample novel with two
// published chapters.
//
// Safe to call on every startup: a non-empty user collection makes it a
// no-op beyond ensuring the collection files exist.
func EnsureDefaults(ctx context.Context, store *jsonstore.Store, logger *slog.Logger) error {
	collections := []string{
		constants.CollectionUsers,
		constants.CollectionSessions,
		constants.CollectionNovels,
		constants.CollectionChapters,
		constants.CollectionBookmarks,
	}
	for _, collection := range collections {
		if err := store.Ensure(ctx, collection); err != nil {
			return err
		}
	}

	users, err := jsonstore.ReadAll[auth.User](store, constants.CollectionUsers)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	// # Default Administrator

	passwordHash, err := sec.HashPassword(AdminPassword)
	if err != nil {
		return err
	}

	admin := &auth.User{
		Username:     AdminUsername,
		Email:        AdminEmail,
		PasswordHash: passwordHash,
		Role:         sec.RoleAdmin,
	}

	userRepo := auth.NewFileUserRepository(store)
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	// # Sample Content

	novelRepo := novel.NewFileNovelRepository(store)
	sample := &novel.Novel{
		Title:       "The Clockwork Meridian",
		Description: "A cartographer discovers that the world's maps rewrite themselves at midnight.",
		Tags:        []string{"fantasy", "mystery"},
		AuthorID:    admin.ID,
	}
	if err := novelRepo.Create(ctx, sample); err != nil {
		return err
	}

	chapterRepo := chapter.NewFileChapterRepository(store)
	chapters := []chapter.Chapter{
		{
			NovelID: sample.ID,
			Title:   "The Midnight Redraw",
			Content: "The first time Ines saw a coastline move, she blamed the candlelight.",
			IsDraft: false,
		},
		{
			NovelID: sample.ID,
			Title:   "Terra Incognita",
			Content: "Every blank region on the map was an invitation, and something was accepting them.",
			IsDraft: false,
		},
	}
	for i := range chapters {
		if err := chapterRepo.Create(ctx, &chapters[i]); err != nil {
			return err
		}
	}

	logger.Info("seeded_default_data",
		slog.Int64("admin_id", admin.ID),
		slog.Int64("sample_novel_id", sample.ID),
	)

	return nil
}
