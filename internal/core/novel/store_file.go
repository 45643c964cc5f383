// Copyright (c) 2026 NovelHub. All rights reserved.

package novel

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/pkg/slug"
)

// # Novel Repository

// FileNovelRepository implements [NovelRepository] on the flat-file store.
type FileNovelRepository struct {
	store *jsonstore.Store
}

// NewFileNovelRepository creates a flat-file implementation of the NovelRepository.
func NewFileNovelRepository(store *jsonstore.Store) *FileNovelRepository {
	return &FileNovelRepository{store: store}
}

/*
List returns all novels matching the filter, ordered by ID.

Parameters:
  - context: context.Context
  - filter: Filter

Returns:
  - []Novel: Matching records
  - error: Read failures
*/
func (repository *FileNovelRepository) List(context context.Context, filter Filter) ([]Novel, error) {
	novels, err := jsonstore.ReadAll[Novel](repository.store, constants.CollectionNovels)
	if err != nil {
		return nil, err
	}

	matched := make([]Novel, 0, len(novels))
	for _, novel := range novels {
		if filter.AuthorID != 0 && novel.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(novel.Title), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, novel)
	}

	return matched, nil
}

/*
FindByID returns the novel with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Novel: Hydrated entity
  - error: apperr.NotFound or read failures
*/
func (repository *FileNovelRepository) FindByID(context context.Context, id int64) (*Novel, error) {
	novel, found, err := jsonstore.FindByID(repository.store, constants.CollectionNovels, id,
		func(record Novel) int64 { return record.ID })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("Novel")
	}
	return &novel, nil
}

/*
Create persists a new novel, assigning its ID and deduplicated slug inside
the store's exclusive read-modify-write cycle.

Parameters:
  - context: context.Context
  - novel: *Novel (Slug is derived from the title)

Returns:
  - error: Write failures
*/
func (repository *FileNovelRepository) Create(context context.Context, novel *Novel) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionNovels, func(records []Novel) ([]Novel, error) {
		now := time.Now().UTC()
		novel.ID = jsonstore.NextID(records, func(record Novel) int64 { return record.ID })
		novel.Slug = uniqueSlug(records, slug.From(novel.Title), novel.ID)
		novel.CreatedAt = now
		novel.UpdatedAt = now
		if novel.Tags == nil {
			novel.Tags = []string{}
		}

		return append(records, *novel), nil
	})
}

/*
Update persists changes to a novel's mutable fields.

Parameters:
  - context: context.Context
  - novel: *Novel

Returns:
  - error: apperr.NotFound or write failures
*/
func (repository *FileNovelRepository) Update(context context.Context, novel *Novel) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionNovels, func(records []Novel) ([]Novel, error) {
		for i := range records {
			if records[i].ID == novel.ID {
				novel.UpdatedAt = time.Now().UTC()
				records[i] = *novel
				return records, nil
			}
		}
		return nil, apperr.NotFound("Novel")
	})
}

/*
AuthorOf resolves a novel ID to its author's user ID.

Parameters:
  - context: context.Context
  - novelID: int64

Returns:
  - int64: Author user ID
  - error: apperr.NotFound or read failures
*/
func (repository *FileNovelRepository) AuthorOf(context context.Context, novelID int64) (int64, error) {
	novel, err := repository.FindByID(context, novelID)
	if err != nil {
		return 0, err
	}
	return novel.AuthorID, nil
}

// uniqueSlug suffixes the candidate with the new ID when another novel
// already claims it.
func uniqueSlug(records []Novel, candidate string, id int64) string {
	for _, record := range records {
		if record.Slug == candidate {
			return candidate + "-" + strconv.FormatInt(id, 10)
		}
	}
	return candidate
}

// # Bookmark Repository

// FileBookmarkRepository implements [BookmarkRepository] on the flat-file store.
type FileBookmarkRepository struct {
	store *jsonstore.Store
}

// NewFileBookmarkRepository creates a flat-file implementation of the BookmarkRepository.
func NewFileBookmarkRepository(store *jsonstore.Store) *FileBookmarkRepository {
	return &FileBookmarkRepository{store: store}
}

/*
Toggle flips the bookmark state for a user+novel pair.

Description: The whole toggle is one read-modify-write cycle, so two
concurrent toggles resolve to a consistent final state.

Parameters:
  - context: context.Context
  - userID: int64
  - novelID: int64

Returns:
  - bool: True if the novel is now bookmarked
  - error: Write failures
*/
func (repository *FileBookmarkRepository) Toggle(context context.Context, userID, novelID int64) (bool, error) {
	var bookmarked bool

	err := jsonstore.Mutate(context, repository.store, constants.CollectionBookmarks, func(records []Bookmark) ([]Bookmark, error) {
		for i, record := range records {
			if record.UserID == userID && record.NovelID == novelID {
				bookmarked = false
				return append(records[:i], records[i+1:]...), nil
			}
		}

		bookmarked = true
		return append(records, Bookmark{
			ID:        jsonstore.NextID(records, func(record Bookmark) int64 { return record.ID }),
			UserID:    userID,
			NovelID:   novelID,
			CreatedAt: time.Now().UTC(),
		}), nil
	})

	return bookmarked, err
}

/*
ListByUser returns the user's bookmarks, newest first.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - []Bookmark: The user's bookmarks
  - error: Read failures
*/
func (repository *FileBookmarkRepository) ListByUser(context context.Context, userID int64) ([]Bookmark, error) {
	bookmarks, err := jsonstore.ReadAll[Bookmark](repository.store, constants.CollectionBookmarks)
	if err != nil {
		return nil, err
	}

	mine := make([]Bookmark, 0)
	for _, bookmark := range bookmarks {
		if bookmark.UserID == userID {
			mine = append(mine, bookmark)
		}
	}

	sort.Slice(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	return mine, nil
}
