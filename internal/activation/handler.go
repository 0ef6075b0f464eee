// AngelaMos | 2026
// handler.go

package activation

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	// Plan catalog is public so the pricing page renders pre-signup.
	r.Get("/plans", h.ListPlans)

	r.Route("/activation-requests", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Submit)
		r.Get("/", h.ListOwn)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/activation-requests", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAll)
		r.Post("/{requestID}/resolve", h.Resolve)
	})
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	core.OK(w, Plans)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	request, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToRequestResponse(request))
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	requests, err := h.service.ListOwn(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToRequestResponseList(requests))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Status:   r.URL.Query().Get("status"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	requests, total, err := h.service.ListAll(
		r.Context(), actorFromContext(r), params,
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		resp := ToRequestResponse(&requests[i].ActivationRequest)
		resp.UserEmail = requests[i].UserEmail
		responses = append(responses, resp)
	}

	core.Paginated(w, responses, params.Page, params.PageSize, total)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resolved, err := h.service.Resolve(
		r.Context(), actorFromContext(r), requestID, req.Decision,
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(resolved))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "activation request")
	default:
		core.InternalServerError(w, err)
	}
}

func actorFromContext(r *http.Request) core.Actor {
	return core.Actor{
		ID:   middleware.GetUserID(r.Context()),
		Role: middleware.GetUserRole(r.Context()),
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
