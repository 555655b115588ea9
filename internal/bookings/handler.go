package bookings

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/platform/httpx"
)

// Handler exposes the booking intake and admin endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a bookings handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts the booking endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIntake(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create booking failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusCreated, booking)
}

// decodeIntake accepts both JSON submissions and classic form posts, since
// the public booking form may submit either.
func (h *Handler) decodeIntake(w http.ResponseWriter, r *http.Request) (CreateBookingRequest, bool) {
	var req CreateBookingRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") || strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed form body")
			return req, false
		}
		req = CreateBookingRequest{
			Name:          r.PostFormValue("name"),
			Phone:         r.PostFormValue("phone"),
			Email:         r.PostFormValue("email"),
			RegoPlate:     r.PostFormValue("rego_plate"),
			PreferredDate: r.PostFormValue("preferred_date"),
			Message:       r.PostFormValue("message"),
		}
	} else if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return req, false
	}

	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list bookings failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookings": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a valid UUID")
		return
	}

	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "booking not found")
			return
		}
		h.logger.Error("get booking failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}
