// Copyright (c) 2026 NovelHub. All rights reserved.

package chapter

import (
	"context"
	"log/slog"

	"github.com/novelhub/backend/internal/platform/apperr"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/platform/validate"
)

// # Service Layer

// Service orchestrates the business logic for chapters.
type Service struct {
	chapterRepo ChapterRepository
	catalog     NovelCatalog
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(chapterRepo ChapterRepository, catalog NovelCatalog, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

// # Read Operations

/*
ListByNovel returns the novel's chapter listing for the acting identity.

Description: Draft chapters are included only when the caller is the novel's
author or an administrator; everyone else sees published chapters only.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous readers)
  - novelID: int64

Returns:
  - []Summary: Visible chapters without content bodies, in reading order
  - error: NotFound (unknown novel) or storage failures
*/
func (service *Service) ListByNovel(context context.Context, claims *sec.AuthClaims, novelID int64) ([]Summary, error) {
	authorID, err := service.catalog.AuthorOf(context, novelID)
	if err != nil {
		return nil, err
	}

	chapters, err := service.chapterRepo.ListByNovel(context, novelID)
	if err != nil {
		return nil, err
	}

	seeDrafts := sec.DraftVisible(claims, authorID)

	summaries := make([]Summary, 0, len(chapters))
	for _, chapter := range chapters {
		if chapter.IsDraft && !seeDrafts {
			continue
		}
		summaries = append(summaries, chapter.Summarize())
	}

	return summaries, nil
}

/*
Get returns a single chapter for the acting identity.

Description: A draft chapter that the caller may not see answers NotFound —
identical to a chapter that does not exist — so drafts never leak through
probing.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous readers)
  - id: int64

Returns:
  - *Chapter: The full chapter including content
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, claims *sec.AuthClaims, id int64) (*Chapter, error) {
	chapter, err := service.chapterRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if chapter.IsDraft {
		authorID, err := service.catalog.AuthorOf(context, chapter.NovelID)
		if err != nil {
			return nil, err
		}
		if !sec.DraftVisible(claims, authorID) {
			return nil, apperr.NotFound("Chapter")
		}
	}

	return chapter, nil
}

// # Write Operations

// CreateInput holds the data required to add a chapter to a novel.
type CreateInput struct {
	Title   string
	Content string
	// IsDraft defaults to true when omitted: new chapters stay private
	// until the author publishes them deliberately.
	IsDraft *bool
}

/*
Create adds a chapter to a novel.

Description: Only the novel's author or an administrator may add chapters.
The repository assigns the ID and the next reading-order position.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - novelID: int64
  - input: CreateInput

Returns:
  - *Chapter: Created entity
  - error: Forbidden, NotFound (unknown novel), validation, or storage errors
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, novelID int64, input CreateInput) (*Chapter, error) {
	authorID, err := service.catalog.AuthorOf(context, novelID)
	if err != nil {
		return nil, err
	}

	if !sec.OwnerOrAdmin(claims, authorID) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	isDraft := true
	if input.IsDraft != nil {
		isDraft = *input.IsDraft
	}

	chapter := &Chapter{
		NovelID: novelID,
		Title:   input.Title,
		Content: input.Content,
		IsDraft: isDraft,
	}

	if err := service.chapterRepo.Create(context, chapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_created",
		slog.Int64("chapter_id", chapter.ID),
		slog.Int64("novel_id", novelID),
		slog.Int("order", chapter.Order),
		slog.Bool("is_draft", chapter.IsDraft),
	)

	return chapter, nil
}

// UpdateInput holds optional field replacements for a chapter. Nil fields
// are left untouched.
type UpdateInput struct {
	Title   *string
	Content *string
	IsDraft *bool
}

/*
Update applies partial changes to a chapter.

Description: Only the owning novel's author or an administrator may update.
Flipping IsDraft false→true un-publishes; true→false publishes.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - id: int64
  - input: UpdateInput

Returns:
  - *Chapter: Updated entity
  - error: Forbidden, NotFound, validation, or storage errors
*/
func (service *Service) Update(context context.Context, claims *sec.AuthClaims, id int64, input UpdateInput) (*Chapter, error) {
	chapter, err := service.chapterRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	authorID, err := service.catalog.AuthorOf(context, chapter.NovelID)
	if err != nil {
		return nil, err
	}

	if !sec.OwnerOrAdmin(claims, authorID) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
		chapter.Title = *input.Title
	}
	if input.Content != nil {
		chapter.Content = *input.Content
	}
	if input.IsDraft != nil {
		chapter.IsDraft = *input.IsDraft
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, chapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_updated",
		slog.Int64("chapter_id", chapter.ID),
		slog.Int64("actor_id", claims.UserID),
	)

	return chapter, nil
}
