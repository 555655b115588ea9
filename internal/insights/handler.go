package insights

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrawais006/autoworkx/internal/platform/httpx"
)

// Handler exposes the dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs an insights handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes mounts the dashboard endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/revenue", h.revenue)
	r.Get("/upcoming-services", h.upcomingServices)
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Revenue(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("revenue stats failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) upcomingServices(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	upcoming, err := h.service.UpcomingServices(r.Context(), time.Now(), days)
	if err != nil {
		h.logger.Error("upcoming services failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"upcoming": upcoming})
}
