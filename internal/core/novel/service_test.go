// Copyright (c) 2026 NovelHub. All rights reserved.

package novel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelhub/backend/internal/core/novel"
	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/pkg/pagination"
)

// stubDirectory resolves author ids from a fixed map.
type stubDirectory map[int64]string

func (d stubDirectory) Usernames(_ context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if name, ok := d[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func newTestService(t *testing.T) *novel.Service {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return novel.NewService(
		novel.NewFileNovelRepository(store),
		novel.NewFileBookmarkRepository(store),
		stubDirectory{10: "author", 99: "admin"},
		logger,
	)
}

func createNovel(t *testing.T, service *novel.Service, authorID int64, title string) *novel.Novel {
	t.Helper()
	created, err := service.Create(context.Background(), authorID, novel.CreateInput{
		Title: title,
		Tags:  []string{"fantasy"},
	})
	require.NoError(t, err)
	return created
}

/*
TestService_Create verifies id and slug assignment plus validation.
*/
func TestService_Create(t *testing.T) {
	service := newTestService(t)

	created := createNovel(t, service, 10, "The Clockwork Meridian")
	assert.Positive(t, created.ID)
	assert.Equal(t, "the-clockwork-meridian", created.Slug)
	assert.Equal(t, int64(10), created.AuthorID)

	// Identical titles must still get distinct slugs
	second := createNovel(t, service, 10, "The Clockwork Meridian")
	assert.NotEqual(t, created.Slug, second.Slug)

	// Missing title is rejected
	_, err := service.Create(context.Background(), 10, novel.CreateInput{})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestService_Get attaches the author name and maps unknown ids to NotFound.
*/
func TestService_Get(t *testing.T) {
	service := newTestService(t)
	created := createNovel(t, service, 10, "First")

	view, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", view.Title)
	assert.Equal(t, "author", view.AuthorName)

	_, err = service.Get(context.Background(), 9999)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_List covers title filtering, author filtering, and pagination.
*/
func TestService_List(t *testing.T) {
	service := newTestService(t)
	createNovel(t, service, 10, "Clockwork Meridian")
	createNovel(t, service, 10, "Clockwork Nocturne")
	createNovel(t, service, 99, "Paper Tigers")

	ctx := context.Background()
	all := pagination.Params{Page: 1, Limit: 20}

	t.Run("unfiltered", func(t *testing.T) {
		views, meta, err := service.List(ctx, novel.Filter{}, all)
		require.NoError(t, err)
		assert.Len(t, views, 3)
		assert.Equal(t, 3, meta.Total)
	})

	t.Run("title_query_case_insensitive", func(t *testing.T) {
		views, meta, err := service.List(ctx, novel.Filter{Query: "clockwork"}, all)
		require.NoError(t, err)
		assert.Len(t, views, 2)
		assert.Equal(t, 2, meta.Total)
	})

	t.Run("author_filter", func(t *testing.T) {
		views, _, err := service.List(ctx, novel.Filter{AuthorID: 99}, all)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Paper Tigers", views[0].Title)
		assert.Equal(t, "admin", views[0].AuthorName)
	})

	t.Run("pagination", func(t *testing.T) {
		views, meta, err := service.List(ctx, novel.Filter{}, pagination.Params{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, 3, meta.Total)
		assert.Equal(t, 2, meta.TotalPages)
	})

	t.Run("page_past_end", func(t *testing.T) {
		views, _, err := service.List(ctx, novel.Filter{}, pagination.Params{Page: 5, Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

/*
TestService_Update enforces owner-or-admin and keeps the slug stable.
*/
func TestService_Update(t *testing.T) {
	service := newTestService(t)
	created := createNovel(t, service, 10, "Original Title")

	ctx := context.Background()
	owner := &sec.AuthClaims{UserID: 10, Role: "USER"}
	stranger := &sec.AuthClaims{UserID: 11, Role: "USER"}
	admin := &sec.AuthClaims{UserID: 99, Role: "ADMIN"}

	newTitle := "Renamed Title"

	t.Run("stranger_forbidden", func(t *testing.T) {
		_, err := service.Update(ctx, stranger, created.ID, novel.UpdateInput{Title: &newTitle})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	})

	t.Run("anonymous_forbidden", func(t *testing.T) {
		_, err := service.Update(ctx, nil, created.ID, novel.UpdateInput{Title: &newTitle})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	})

	t.Run("owner_updates", func(t *testing.T) {
		updated, err := service.Update(ctx, owner, created.ID, novel.UpdateInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)

		// Retitling never breaks existing links
		assert.Equal(t, created.Slug, updated.Slug)
	})

	t.Run("admin_overrides", func(t *testing.T) {
		description := "An administrator was here."
		updated, err := service.Update(ctx, admin, created.ID, novel.UpdateInput{Description: &description})
		require.NoError(t, err)
		assert.Equal(t, description, updated.Description)
	})

	t.Run("unknown_novel", func(t *testing.T) {
		_, err := service.Update(ctx, admin, 9999, novel.UpdateInput{Title: &newTitle})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

/*
TestService_Bookmarks toggles a bookmark on and off and lists the result.
*/
func TestService_Bookmarks(t *testing.T) {
	service := newTestService(t)
	first := createNovel(t, service, 10, "First")
	second := createNovel(t, service, 10, "Second")

	ctx := context.Background()
	const userID = int64(42)

	// Unknown novels cannot be bookmarked
	_, err := service.ToggleBookmark(ctx, userID, 9999)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)

	// First toggle adds
	bookmarked, err := service.ToggleBookmark(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	bookmarked, err = service.ToggleBookmark(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	views, err := service.ListBookmarks(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	// Second toggle removes
	bookmarked, err = service.ToggleBookmark(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	views, err = service.ListBookmarks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second.ID, views[0].ID)

	// Another user's bookmarks are independent
	views, err = service.ListBookmarks(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, views)
}
