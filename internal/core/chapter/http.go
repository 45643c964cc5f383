// Copyright (c) 2026 NovelHub. All rights reserved.

// HTTP delivery layer for chapters.
//
// Chapter routes live in two places: listing and creation are nested under
// their novel (/novels/{id}/chapters), while direct access by chapter ID is
// top-level (/chapters/{id}).
package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novelhub/backend/internal/platform/middleware"
	requestutil "github.com/novelhub/backend/internal/platform/request"
	"github.com/novelhub/backend/internal/platform/respond"
	"github.com/novelhub/backend/internal/platform/validate"
)

// Handler implements the HTTP layer for chapters.
type Handler struct {
	chapterService *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{chapterService: service}
}

// NovelRoutes returns the routes nested under /novels/{novelID}/chapters.
//
// # Endpoints
//   - GET  / : Lists a novel's chapters (public; drafts filtered).
//   - POST / : Adds a chapter (novel author or admin).
func (handler *Handler) NovelRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listByNovel)
	router.With(middleware.RequireAuth).Post("/", handler.create)

	return router
}

// Routes returns the top-level /chapters routes.
//
// # Endpoints
//   - GET /{id} : Returns one chapter (draft-gated).
//   - PUT /{id} : Updates a chapter (novel author or admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.get)
	router.With(middleware.RequireAuth).Put("/{id}", handler.update)

	return router
}

// # Request Payloads

type createChapterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	IsDraft *bool  `json:"isDraft"`
}

type updateChapterRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	IsDraft *bool   `json:"isDraft"`
}

/*
ListByNovel returns the visible chapters of a novel.

GET /api/v1/novels/{novelID}/chapters

Response:
  - 200: []Summary: Reading-order listing, drafts filtered per identity
  - 404: NotFound: Unknown novel
*/
func (handler *Handler) listByNovel(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.Int64(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summaries, err := handler.chapterService.ListByNovel(request.Context(), requestutil.Claims(request), novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summaries)
}

/*
Get returns one chapter including its content.

GET /api/v1/chapters/{id}

Response:
  - 200: Chapter
  - 404: NotFound: Unknown chapter, or a draft hidden from the caller
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.chapterService.Get(request.Context(), requestutil.Claims(request), chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
Create adds a chapter to a novel.

POST /api/v1/novels/{novelID}/chapters

Response:
  - 201: Chapter: IsDraft defaults to true when omitted
  - 403: Forbidden: Caller is neither the author nor an admin
  - 404: NotFound: Unknown novel
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID, err := requestutil.Int64(request, "novelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	chapter, err := handler.chapterService.Create(request.Context(), claims, novelID, CreateInput{
		Title:   input.Title,
		Content: input.Content,
		IsDraft: input.IsDraft,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

/*
Update applies partial changes to a chapter.

PUT /api/v1/chapters/{id}

Response:
  - 200: Chapter
  - 403: Forbidden: Caller is neither the author nor an admin
  - 404: NotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	chapter, err := handler.chapterService.Update(request.Context(), claims, chapterID, UpdateInput{
		Title:   input.Title,
		Content: input.Content,
		IsDraft: input.IsDraft,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}
