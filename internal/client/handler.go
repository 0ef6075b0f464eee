// AngelaMos | 2026
// handler.go

package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/payping-app/backend/internal/core"
	"github.com/payping-app/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the client CRUD behind authentication plus the
// activation gate. Unactivated accounts never reach these.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireActive func(http.Handler) http.Handler,
) {
	r.Route("/clients", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireActive)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{clientID}", h.Get)
		r.Put("/{clientID}", h.Update)
		r.Delete("/{clientID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	c, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToClientResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	clientID := chi.URLParam(r, "clientID")

	c, err := h.service.Get(r.Context(), userID, clientID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToClientResponse(c))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	params := ListClientsParams{
		Search:   r.URL.Query().Get("search"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 50),
	}

	clients, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Paginated(
		w, ToClientResponseList(clients), params.Page, params.PageSize, total,
	)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	clientID := chi.URLParam(r, "clientID")

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Update(r.Context(), userID, clientID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToClientResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	clientID := chi.URLParam(r, "clientID")

	if err := h.service.Delete(r.Context(), userID, clientID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "client")
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
