// Copyright (c) 2026 NovelHub. All rights reserved.

// HTTP delivery layer for administrative user management.
//
// # Security
//
// Every endpoint in this package is mounted behind
// middleware.RequireRole(sec.RoleAdmin) by the API server.
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/novelhub/backend/internal/platform/request"
	"github.com/novelhub/backend/internal/platform/respond"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/platform/validate"
	"github.com/novelhub/backend/internal/users/auth"
)

// Handler implements the HTTP layer for administrative account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the admin endpoints.
//
// # Endpoints
//   - GET /              : Lists all accounts.
//   - PUT /{id}/disable  : Disables or re-enables an account.
//   - PUT /{id}/role     : Changes an account's role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listUsers)
	router.Put("/{id}/disable", handler.setDisabled)
	router.Put("/{id}/role", handler.changeRole)

	return router
}

// # Request Payloads

type setDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
ListUsers enumerates every registered account.

GET /api/v1/users

Response:
  - 200: []auth.PublicUser: All accounts
  - 403: Forbidden: Caller is not an administrator
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
SetDisabled disables or re-enables an account.

PUT /api/v1/users/{id}/disable

Request:
  - id: int64 (URL)
  - Body: setDisabledRequest (Disabled)

Response:
  - 200: auth.PublicUser: The updated profile
  - 404: NotFound: Unknown account
*/
func (handler *Handler) setDisabled(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setDisabledRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.SetDisabled(request.Context(), userID, input.Disabled)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangeRole replaces an account's authorization role.

PUT /api/v1/users/{id}/role

Request:
  - id: int64 (URL)
  - Body: changeRoleRequest (Role: USER|ADMIN)

Response:
  - 200: auth.PublicUser: The updated profile
  - 400: Validation: Unknown role value
  - 404: NotFound: Unknown account
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldRole, input.Role)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangeRole(request.Context(), userID, sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
