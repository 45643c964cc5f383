// Copyright (c) 2026 NovelHub. All rights reserved.

package novel

import (
	"context"
	"log/slog"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/platform/validate"
	"github.com/novelhub/backend/pkg/pagination"
)

// # Service Layer

// Service orchestrates the business logic for novels and bookmarks.
type Service struct {
	novelRepo    NovelRepository
	bookmarkRepo BookmarkRepository
	authors      AuthorDirectory
	logger       *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(novelRepo NovelRepository, bookmarkRepo BookmarkRepository, authors AuthorDirectory, logger *slog.Logger) *Service {
	return &Service{
		novelRepo:    novelRepo,
		bookmarkRepo: bookmarkRepo,
		authors:      authors,
		logger:       logger,
	}
}

// # Catalogue Operations

/*
List returns one page of the novel catalogue with author names attached.

Parameters:
  - context: context.Context
  - filter: Filter (title query, author restriction)
  - params: pagination.Params

Returns:
  - []View: The requested page
  - pagination.Meta: Page metadata over the filtered total
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]View, pagination.Meta, error) {
	novels, err := service.novelRepo.List(context, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	total := len(novels)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit
	if end > total {
		end = total
	}
	page := novels[offset:end]

	views, err := service.attachAuthors(context, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return views, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get returns a single novel with its author name attached.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *View: The novel
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, id int64) (*View, error) {
	novel, err := service.novelRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	views, err := service.attachAuthors(context, []Novel{*novel})
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

// CreateInput holds the data required to publish a new novel.
type CreateInput struct {
	Title       string
	Description string
	CoverURL    string
	Tags        []string
}

/*
Create validates and persists a new novel owned by authorID.

Parameters:
  - context: context.Context
  - authorID: int64 (the authenticated creator)
  - input: CreateInput

Returns:
  - *Novel: Created entity (ID and slug assigned)
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, authorID int64, input CreateInput) (*Novel, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 5000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	novel := &Novel{
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		Tags:        input.Tags,
		AuthorID:    authorID,
	}

	if err := service.novelRepo.Create(context, novel); err != nil {
		return nil, err
	}

	service.logger.Info("novel_created",
		slog.Int64("novel_id", novel.ID),
		slog.Int64("author_id", authorID),
	)

	return novel, nil
}

// UpdateInput holds optional field replacements for a novel. Nil fields are
// left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	CoverURL    *string
	Tags        []string
}

/*
Update applies partial changes to a novel.

Description: Only the novel's author or an administrator may update it.
The slug is intentionally stable — retitling never breaks existing links.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (the acting identity)
  - id: int64
  - input: UpdateInput

Returns:
  - *Novel: Updated entity
  - error: Forbidden, NotFound, validation, or persistence errors
*/
func (service *Service) Update(context context.Context, claims *sec.AuthClaims, id int64, input UpdateInput) (*Novel, error) {
	novel, err := service.novelRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !sec.OwnerOrAdmin(claims, novel.AuthorID) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
		novel.Title = *input.Title
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 5000)
		novel.Description = *input.Description
	}
	if input.CoverURL != nil {
		novel.CoverURL = *input.CoverURL
	}
	if input.Tags != nil {
		novel.Tags = input.Tags
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.novelRepo.Update(context, novel); err != nil {
		return nil, err
	}

	service.logger.Info("novel_updated",
		slog.Int64("novel_id", novel.ID),
		slog.Int64("actor_id", claims.UserID),
	)

	return novel, nil
}

// # Bookmarks

/*
ToggleBookmark flips the bookmark state for the user on a novel.

Parameters:
  - context: context.Context
  - userID: int64
  - novelID: int64

Returns:
  - bool: True if the novel is now bookmarked
  - error: NotFound (unknown novel) or persistence errors
*/
func (service *Service) ToggleBookmark(context context.Context, userID, novelID int64) (bool, error) {

	// Bookmarks must point at real novels
	if _, err := service.novelRepo.FindByID(context, novelID); err != nil {
		return false, err
	}

	return service.bookmarkRepo.Toggle(context, userID, novelID)
}

/*
ListBookmarks returns the novels the user has bookmarked, newest bookmark
first.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - []View: Bookmarked novels
  - error: Storage failures
*/
func (service *Service) ListBookmarks(context context.Context, userID int64) ([]View, error) {
	bookmarks, err := service.bookmarkRepo.ListByUser(context, userID)
	if err != nil {
		return nil, err
	}

	novels := make([]Novel, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		novel, err := service.novelRepo.FindByID(context, bookmark.NovelID)
		if err != nil {
			// A bookmark may outlive its novel record; skip silently.
			continue
		}
		novels = append(novels, *novel)
	}

	return service.attachAuthors(context, novels)
}

// attachAuthors decorates novels with their authors' usernames.
func (service *Service) attachAuthors(context context.Context, novels []Novel) ([]View, error) {
	ids := make([]int64, 0, len(novels))
	for _, novel := range novels {
		ids = append(ids, novel.AuthorID)
	}

	names, err := service.authors.Usernames(context, ids)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(novels))
	for _, novel := range novels {
		views = append(views, View{Novel: novel, AuthorName: names[novel.AuthorID]})
	}
	return views, nil
}
