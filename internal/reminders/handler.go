package reminders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/platform/httpx"
)

// Handler exposes the reminder job endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a reminders handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes mounts the reminder endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/cancel", h.cancel)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	jobs, err := h.service.List(r.Context(), Status(q.Get("status")), limit, offset)
	if err != nil {
		h.logger.Error("list reminders failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reminders": jobs})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a valid UUID")
		return
	}

	switch err := h.service.Cancel(r.Context(), id); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "reminder not found")
	case errors.Is(err, ErrNotPending):
		httpx.Problem(w, http.StatusConflict, "Not Pending", "only pending reminders can be cancelled")
	default:
		h.logger.Error("cancel reminder failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
	}
}
