// Copyright (c) 2026 NovelHub. All rights reserved.

/*
Package chapter implements the chapter domain: the serialized content of a
novel, including draft visibility rules.

# Draft Visibility

A draft chapter exists only for its author (and administrators). Every read
path — listing, direct fetch — filters drafts for other identities, and a
hidden draft answers exactly like a missing chapter so its existence never
leaks.
*/
package chapter

import "time"

// # Domain Entities

// Chapter is one installment of a novel.
type Chapter struct {
	ID        int64     `json:"id"`
	NovelID   int64     `json:"novelId"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	IsDraft   bool      `json:"isDraft"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the listing projection of a [Chapter]: everything but the body.
type Summary struct {
	ID        int64     `json:"id"`
	NovelID   int64     `json:"novelId"`
	Title     string    `json:"title"`
	IsDraft   bool      `json:"isDraft"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summarize strips the content body for list responses.
func (chapter *Chapter) Summarize() Summary {
	return Summary{
		ID:        chapter.ID,
		NovelID:   chapter.NovelID,
		Title:     chapter.Title,
		IsDraft:   chapter.IsDraft,
		Order:     chapter.Order,
		CreatedAt: chapter.CreatedAt,
		UpdatedAt: chapter.UpdatedAt,
	}
}

// # Field Identifiers

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldIsDraft = "isDraft"
)
