// Copyright (c) 2026 NovelHub. All rights reserved.

package novel

import "context"

// # Storage Contracts

// NovelRepository defines the data access contract for novels.
type NovelRepository interface {

	/*
		List returns all novels matching the filter, ordered by ID.

		Parameters:
		  - context: context.Context
		  - filter: Filter

		Returns:
		  - []Novel: Matching records
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter) ([]Novel, error)

	/*
		FindByID returns the novel with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Novel: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Novel, error)

	/*
		Create persists a new novel and assigns its ID and final slug.

		Parameters:
		  - context: context.Context
		  - novel: *Novel (ID and Slug are finalized here)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, novel *Novel) error

	/*
		Update persists changes to a novel's mutable fields.

		Parameters:
		  - context: context.Context
		  - novel: *Novel

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, novel *Novel) error

	/*
		AuthorOf resolves a novel ID to its author's user ID.

		Used by the chapter domain for ownership checks without loading the
		full entity.

		Parameters:
		  - context: context.Context
		  - novelID: int64

		Returns:
		  - int64: Author user ID
		  - error: apperr.NotFound or retrieval failures
	*/
	AuthorOf(context context.Context, novelID int64) (int64, error)
}

// BookmarkRepository defines the data access contract for bookmarks.
type BookmarkRepository interface {

	/*
		Toggle flips the bookmark state for a user+novel pair.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - novelID: int64

		Returns:
		  - bool: True if the novel is now bookmarked, false if removed
		  - error: Persistence failures
	*/
	Toggle(context context.Context, userID, novelID int64) (bool, error)

	/*
		ListByUser returns the user's bookmarks, newest first.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - []Bookmark: The user's bookmarks
		  - error: Retrieval failures
	*/
	ListByUser(context context.Context, userID int64) ([]Bookmark, error)
}

// AuthorDirectory resolves author IDs to display names.
//
// Satisfied by the user repository; declared here so the content domain
// never depends on identity storage directly.
type AuthorDirectory interface {
	Usernames(context context.Context, ids []int64) (map[int64]string, error)
}
