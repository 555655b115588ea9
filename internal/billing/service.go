package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvoiceNotFound indicates the invoice does not exist.
var ErrInvoiceNotFound = errors.New("billing: invoice not found")

// RepositoryPort defines data access methods for billing.
type RepositoryPort interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error)
	ListLineItems(ctx context.Context, visitID uuid.UUID) ([]LineItem, error)
	SaveInvoiceStatus(ctx context.Context, inv *Invoice) error
	// ReplaceLineItems swaps the full line item set of a visit and writes the
	// recomputed invoice totals in the same transaction.
	ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem, totals Totals) error
	ListUnpaid(ctx context.Context, asOf time.Time) ([]UnpaidInvoice, error)
}

// Service handles invoice business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetInvoiceDetail returns the invoice with its line items and derived classification.
func (s *Service) GetInvoiceDetail(ctx context.Context, id uuid.UUID) (*InvoiceWithItems, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	items, err := s.repo.ListLineItems(ctx, inv.VisitID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return &InvoiceWithItems{
		Invoice:        *inv,
		Items:          items,
		Classification: inv.Classify(time.Now()),
	}, nil
}

// ListInvoices returns invoices matching the filter.
func (s *Service) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 100
	}
	return s.repo.ListInvoices(ctx, req)
}

// ReplaceLineItems replaces the full line item set of a draft invoice and
// recomputes subtotal, tax total and total atomically with the swap. Partial
// line edits are never persisted.
func (s *Service) ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, req ReplaceLineItemsRequest) (*InvoiceWithItems, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if inv.Status != StatusDraft {
		return nil, ErrInvoiceNotDraft
	}

	now := time.Now()
	items := make([]LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item := LineItem{
			ID:        uuid.New(),
			VisitID:   inv.VisitID,
			Name:      in.Name,
			Qty:       in.Qty,
			UnitPrice: in.UnitPrice,
			Taxable:   in.Taxable,
			SortOrder: in.SortOrder,
			CreatedAt: now,
		}
		item.LineTotal = item.Amount()
		items = append(items, item)
	}
	AssignSortOrders(items)

	totals := ComputeTotals(items, inv.TaxRate)
	if err := s.repo.ReplaceLineItems(ctx, invoiceID, items, totals); err != nil {
		return nil, fmt.Errorf("replace line items: %w", err)
	}

	inv.Subtotal = totals.Subtotal
	inv.TaxTotal = totals.TaxTotal
	inv.Total = totals.Total
	inv.UpdatedAt = now
	return &InvoiceWithItems{Invoice: *inv, Items: items, Classification: inv.Classify(now)}, nil
}

// MarkSent issues a draft invoice.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if err := inv.MarkSent(time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveInvoiceStatus(ctx, inv); err != nil {
		return nil, fmt.Errorf("save invoice status: %w", err)
	}
	return inv, nil
}

// MarkPaid records payment metadata against the invoice. The method must be
// supplied explicitly; defaulting is a caller policy, not a service one.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, method PaymentMethod, paidDate time.Time) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if err := inv.MarkPaid(method, paidDate, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveInvoiceStatus(ctx, inv); err != nil {
		return nil, fmt.Errorf("save invoice status: %w", err)
	}
	return inv, nil
}

// ListUnpaid returns non-Paid invoices with visit context and days overdue.
func (s *Service) ListUnpaid(ctx context.Context) ([]UnpaidInvoice, error) {
	return s.repo.ListUnpaid(ctx, time.Now())
}
