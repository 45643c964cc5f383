// Copyright (c) 2026 NovelHub. All rights reserved.

// HTTP delivery layer for the novel catalogue.
package novel

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/novelhub/backend/internal/platform/middleware"
	requestutil "github.com/novelhub/backend/internal/platform/request"
	"github.com/novelhub/backend/internal/platform/respond"
	"github.com/novelhub/backend/internal/platform/validate"
	"github.com/novelhub/backend/pkg/pagination"
)

// Handler implements the HTTP layer for novels and bookmarks.
type Handler struct {
	novelService *Service
}

// NewHandler constructs a new novel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{novelService: service}
}

// Routes returns a [chi.Router] for the /novels resource.
//
// # Endpoints
//   - GET  /               : Lists novels (public, paginated).
//   - POST /               : Creates a novel (auth).
//   - GET  /{id}           : Returns one novel (public).
//   - PUT  /{id}           : Updates a novel (owner or admin).
//   - POST /{id}/bookmark  : Toggles a bookmark (auth).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Post("/{id}/bookmark", handler.toggleBookmark)
	})

	return router
}

// MyBookmarks handles GET /me/bookmarks. Mounted by the API server behind
// RequireAuth.
func (handler *Handler) MyBookmarks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	views, err := handler.novelService.ListBookmarks(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, views)
}

// # Request Payloads

type createNovelRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverURL    string   `json:"coverUrl"`
	Tags        []string `json:"tags"`
}

type updateNovelRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"coverUrl"`
	Tags        []string `json:"tags"`
}

/*
List returns one page of the catalogue.

GET /api/v1/novels?q=&author=&page=&limit=

Response:
  - 200: Paginated []View
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{Query: request.URL.Query().Get("q")}

	if rawAuthor := request.URL.Query().Get("author"); rawAuthor != "" {
		authorID, err := strconv.ParseInt(rawAuthor, 10, 64)
		if err != nil || authorID <= 0 {
			respond.Error(writer, request, validate.RequiredError("author", "Must be a positive integer"))
			return
		}
		filter.AuthorID = authorID
	}

	params := pagination.FromRequest(request)

	views, meta, err := handler.novelService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

/*
Get returns a single novel.

GET /api/v1/novels/{id}

Response:
  - 200: View
  - 404: NotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	novelID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.novelService.Get(request.Context(), novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
Create publishes a new novel owned by the authenticated user.

POST /api/v1/novels

Response:
  - 201: Novel
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createNovelRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	novel, err := handler.novelService.Create(request.Context(), userID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		Tags:        input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, novel)
}

/*
Update applies partial changes to a novel.

PUT /api/v1/novels/{id}

Response:
  - 200: Novel
  - 403: Forbidden: Caller is neither the author nor an admin
  - 404: NotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNovelRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	novel, err := handler.novelService.Update(request.Context(), claims, novelID, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		Tags:        input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, novel)
}

/*
ToggleBookmark flips the caller's bookmark on a novel.

POST /api/v1/novels/{id}/bookmark

Response:
  - 200: {bookmarked: bool}
  - 404: NotFound: Unknown novel
*/
func (handler *Handler) toggleBookmark(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	novelID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarked, err := handler.novelService.ToggleBookmark(request.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"bookmarked": bookmarked})
}
