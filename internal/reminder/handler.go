// AngelaMos | 2026
// handler.go

package reminder

import (
	"encoding/json"
	"errors"
	"net/http"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireActive func(http.Handler) http.Handler,
) {
	r.Route("/reminders", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireActive)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{reminderID}", h.Get)
		r.Put("/{reminderID}", h.Update)
		r.Post("/{reminderID}/done", h.MarkDone)
		r.Delete("/{reminderID}", h.Delete)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireActive)

		r.Get("/dashboard", h.Dashboard)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID := chi.URLParam(r, "reminderID")

	resp, err := h.service.Get(r.Context(), userID, reminderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bucket := r.URL.Query().Get("bucket")

	reminders, err := h.service.List(r.Context(), userID, bucket)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, reminders)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID := chi.URLParam(r, "reminderID")

	var req UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Update(r.Context(), userID, reminderID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) MarkDone(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID := chi.URLParam(r, "reminderID")

	resp, err := h.service.MarkDone(r.Context(), userID, reminderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID := chi.URLParam(r, "reminderID")

	if err := h.service.Delete(r.Context(), userID, reminderID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "reminder")
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "reminder is already done")
	default:
		core.InternalServerError(w, err)
	}
}
