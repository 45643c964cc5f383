// Copyright (c) 2026 NovelHub. All rights reserved.

package chapter

import "context"

// # Storage Contracts

// ChapterRepository defines the data access contract for chapters.
type ChapterRepository interface {

	/*
		ListByNovel returns the novel's chapters ordered by their reading order.

		Parameters:
		  - context: context.Context
		  - novelID: int64

		Returns:
		  - []Chapter: All chapters of the novel, drafts included
		  - error: Retrieval failures
	*/
	ListByNovel(context context.Context, novelID int64) ([]Chapter, error)

	/*
		FindByID returns the chapter with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Chapter: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Chapter, error)

	/*
		Create persists a new chapter, assigning its ID and per-novel reading
		order atomically.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter (ID and Order are assigned here)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, chapter *Chapter) error

	/*
		Update persists changes to a chapter's mutable fields.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, chapter *Chapter) error
}

// NovelCatalog is the slice of the novel domain the chapter domain needs:
// resolving a novel to its author for ownership and draft decisions.
type NovelCatalog interface {
	AuthorOf(context context.Context, novelID int64) (int64, error)
}
