// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package novel implements the novel catalogue and bookmark domain.

Novels are the top-level publishing unit: every novel belongs to an author
(a registered user) and owns an ordered set of chapters managed by the
chapter domain.
*/
package novel

import "time"

// # Domain Entities

// Novel represents a published or in-progress work.
type Novel struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	Tags        []string  `json:"tags"`
	AuthorID    int64     `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// View is a [Novel] enriched with display-only fields for API responses.
type View struct {
	Novel
	AuthorName string `json:"authorName,omitempty"`
}

// Bookmark links a user to a novel they follow.
//
// The (UserID, NovelID) pair is unique; toggling an existing bookmark
// removes it.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	NovelID   int64     `json:"novelId"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCoverURL    = "coverUrl"
	FieldTags        = "tags"
)

// Filter narrows a novel listing.
type Filter struct {
	// Query matches title substrings, case-insensitive. Empty matches all.
	Query string
	// AuthorID restricts to one author's novels. Zero matches all.
	AuthorID int64
}
