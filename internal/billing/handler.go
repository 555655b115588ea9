package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/platform/httpx"
)

// DefaultsPort supplies shop-level defaults to the HTTP layer.
type DefaultsPort interface {
	DefaultPaymentMethod(ctx context.Context) PaymentMethod
}

// PDFRenderer converts an invoice detail into a PDF document.
type PDFRenderer interface {
	RenderInvoice(ctx context.Context, inv *InvoiceWithItems) ([]byte, error)
}

// Handler manages invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	defaults DefaultsPort
	pdf      PDFRenderer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate, defaults DefaultsPort, pdf PDFRenderer) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, defaults: defaults, pdf: pdf}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unpaid", h.listUnpaid)
	r.Get("/{id}", h.show)
	r.Put("/{id}/items", h.replaceItems)
	r.Post("/{id}/send", h.markSent)
	r.Post("/{id}/pay", h.markPaid)
	r.Get("/{id}/pdf", h.exportPDF)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListInvoicesRequest{Status: InvoiceStatus(r.URL.Query().Get("status"))}
	req.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	req.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if v := r.URL.Query().Get("visit_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid visit_id")
			return
		}
		req.VisitID = id
	}

	invoices, err := h.service.ListInvoices(r.Context(), req)
	if err != nil {
		h.respondErr(w, "list invoices", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (h *Handler) listUnpaid(w http.ResponseWriter, r *http.Request) {
	unpaid, err := h.service.ListUnpaid(r.Context())
	if err != nil {
		h.respondErr(w, "list unpaid invoices", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": unpaid})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetInvoiceDetail(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) replaceItems(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req ReplaceLineItemsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	detail, err := h.service.ReplaceLineItems(r.Context(), id, req)
	if err != nil {
		h.respondErr(w, "replace line items", err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.MarkSent(r.Context(), id)
	if err != nil {
		h.respondErr(w, "mark invoice sent", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req MarkPaidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	method := PaymentMethod(req.Method)
	if method == "" && h.defaults != nil {
		// Explicit configured default, applied at the boundary so the service
		// contract stays strict.
		method = h.defaults.DefaultPaymentMethod(r.Context())
	}
	var paidDate time.Time
	if req.PaidDate != "" {
		paidDate, _ = time.Parse("2006-01-02", req.PaidDate)
	}

	inv, err := h.service.MarkPaid(r.Context(), id, method, paidDate)
	if err != nil {
		h.respondErr(w, "mark invoice paid", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Unavailable", "pdf rendering is not configured")
		return
	}
	detail, err := h.service.GetInvoiceDetail(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get invoice", err)
		return
	}
	pdf, err := h.pdf.RenderInvoice(r.Context(), detail)
	if err != nil {
		h.logger.Error("render invoice pdf", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Problem(w, http.StatusBadGateway, "PDF Rendering Failed", "")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+detail.Number+`.pdf"`)
	_, _ = w.Write(pdf)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondErr(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvoiceNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not found")
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvoiceNotDraft):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrPaymentMethodRequired), errors.Is(err, ErrUnknownPaymentMethod):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(msg, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
