// Copyright (c) 2026 NovelHub. All rights reserved.

package chapter

import (
	"context"
	"sort"
	"time"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/jsonstore"
)

// FileChapterRepository implements [ChapterRepository] on the flat-file store.
type FileChapterRepository struct {
	store *jsonstore.Store
}

// NewFileChapterRepository creates a flat-file implementation of the ChapterRepository.
func NewFileChapterRepository(store *jsonstore.Store) *FileChapterRepository {
	return &FileChapterRepository{store: store}
}

/*
ListByNovel returns the novel's chapters ordered by reading order.

Parameters:
  - context: context.Context
  - novelID: int64

Returns:
  - []Chapter: All chapters of the novel, drafts included
  - error: Read failures
*/
func (repository *FileChapterRepository) ListByNovel(context context.Context, novelID int64) ([]Chapter, error) {
	chapters, err := jsonstore.ReadAll[Chapter](repository.store, constants.CollectionChapters)
	if err != nil {
		return nil, err
	}

	matched := make([]Chapter, 0)
	for _, chapter := range chapters {
		if chapter.NovelID == novelID {
			matched = append(matched, chapter)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Order < matched[j].Order
	})

	return matched, nil
}

/*
FindByID returns the chapter with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Chapter: Hydrated entity
  - error: apperr.NotFound or read failures
*/
func (repository *FileChapterRepository) FindByID(context context.Context, id int64) (*Chapter, error) {
	chapter, found, err := jsonstore.FindByID(repository.store, constants.CollectionChapters, id,
		func(record Chapter) int64 { return record.ID })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("Chapter")
	}
	return &chapter, nil
}

/*
Create persists a new chapter.

Description: Both the global ID and the per-novel reading order are computed
inside the store's exclusive read-modify-write cycle, so concurrent inserts
can neither mint duplicate IDs nor duplicate order positions.

Parameters:
  - context: context.Context
  - chapter: *Chapter (ID and Order are assigned here)

Returns:
  - error: Write failures
*/
func (repository *FileChapterRepository) Create(context context.Context, chapter *Chapter) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionChapters, func(records []Chapter) ([]Chapter, error) {
		now := time.Now().UTC()
		chapter.ID = jsonstore.NextID(records, func(record Chapter) int64 { return record.ID })

		maxOrder := 0
		for _, record := range records {
			if record.NovelID == chapter.NovelID && record.Order > maxOrder {
				maxOrder = record.Order
			}
		}
		chapter.Order = maxOrder + 1
		chapter.CreatedAt = now
		chapter.UpdatedAt = now

		return append(records, *chapter), nil
	})
}

/*
Update persists changes to a chapter's mutable fields.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: apperr.NotFound or write failures
*/
func (repository *FileChapterRepository) Update(context context.Context, chapter *Chapter) error {
	return jsonstore.Mutate(context, repository.store, constants.CollectionChapters, func(records []Chapter) ([]Chapter, error) {
		for i := range records {
			if records[i].ID == chapter.ID {
				chapter.UpdatedAt = time.Now().UTC()
				records[i] = *chapter
				return records, nil
			}
		}
		return nil, apperr.NotFound("Chapter")
	})
}
