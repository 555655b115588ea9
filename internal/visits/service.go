package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/billing"
)

var (
	// ErrVisitNotFound indicates the visit does not exist.
	ErrVisitNotFound = errors.New("visits: visit not found")
	// ErrCarNotFound indicates the referenced car does not exist.
	ErrCarNotFound = errors.New("visits: car not found")
)

// Defaults carries the shop-level defaults used when a request omits them.
type Defaults struct {
	TaxRate       float64
	ReminderWeeks int
	DueDays       int
	PaymentMethod billing.PaymentMethod
}

// DefaultsPort supplies configured defaults; backed by the settings module.
type DefaultsPort interface {
	Defaults(ctx context.Context) (Defaults, error)
}

// RepositoryPort defines data access methods for visits.
type RepositoryPort interface {
	// CreateVisitBundle persists the visit, its line items and its invoice in
	// one transaction; a visit never exists without its invoice.
	CreateVisitBundle(ctx context.Context, visit ServiceVisit, items []billing.LineItem, inv billing.Invoice) error
	GetVisit(ctx context.Context, id uuid.UUID) (*ServiceVisit, error)
	GetVisitDetail(ctx context.Context, id uuid.UUID) (*VisitDetail, error)
	ListVisits(ctx context.Context, req ListVisitsRequest) ([]ServiceVisit, error)
	UpdateVisit(ctx context.Context, visit *ServiceVisit) error
	// DeleteVisit removes the visit, cascading its line items and invoice.
	DeleteVisit(ctx context.Context, id uuid.UUID) error
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// Service handles visit business logic.
type Service struct {
	repo     RepositoryPort
	defaults DefaultsPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, defaults DefaultsPort) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Create records a visit with its line items and invoice atomically.
func (s *Service) Create(ctx context.Context, req CreateVisitRequest) (*VisitDetail, error) {
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, fmt.Errorf("parse car ID: %w", err)
	}
	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("parse visit date: %w", err)
	}

	defaults, err := s.loadDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	reminderWeeks := defaults.ReminderWeeks
	if req.ReminderWeeks != nil {
		reminderWeeks = *req.ReminderWeeks
	}
	taxRate := defaults.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	now := time.Now()
	visit := ServiceVisit{
		ID:                 uuid.New(),
		CarID:              carID,
		VisitDate:          DateOnly(visitDate),
		OdometerKm:         req.OdometerKm,
		ReminderWeeks:      reminderWeeks,
		NextServiceDueDate: NextServiceDueDate(visitDate, reminderWeeks),
		Notes:              req.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	items := make([]billing.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item := billing.LineItem{
			ID:        uuid.New(),
			VisitID:   visit.ID,
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
	billing.AssignSortOrders(items)

	number, err := s.repo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	totals := billing.ComputeTotals(items, taxRate)
	inv := billing.Invoice{
		ID:        uuid.New(),
		VisitID:   visit.ID,
		Number:    number,
		Status:    billing.StatusDraft,
		Subtotal:  totals.Subtotal,
		TaxRate:   taxRate,
		TaxTotal:  totals.TaxTotal,
		Total:     totals.Total,
		DueDate:   visit.VisitDate.AddDate(0, 0, defaults.DueDays),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.MarkPaid {
		method := billing.PaymentMethod(req.PaymentMethod)
		if method == "" {
			method = defaults.PaymentMethod
		}
		if err := inv.MarkPaid(method, visit.VisitDate, now); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateVisitBundle(ctx, visit, items, inv); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	return &VisitDetail{ServiceVisit: visit, Items: items, Invoice: &inv}, nil
}

// Get returns the visit with its line items and invoice.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*VisitDetail, error) {
	detail, err := s.repo.GetVisitDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrVisitNotFound
	}
	return detail, nil
}

// List returns visits matching the filter.
func (s *Service) List(ctx context.Context, req ListVisitsRequest) ([]ServiceVisit, error) {
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 100
	}
	return s.repo.ListVisits(ctx, req)
}

// Update applies field changes and recomputes the next service due date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateVisitRequest) (*ServiceVisit, error) {
	visit, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, ErrVisitNotFound
	}

	if req.VisitDate != nil {
		visitDate, err := time.Parse("2006-01-02", *req.VisitDate)
		if err != nil {
			return nil, fmt.Errorf("parse visit date: %w", err)
		}
		visit.VisitDate = DateOnly(visitDate)
	}
	if req.OdometerKm != nil {
		visit.OdometerKm = req.OdometerKm
	}
	if req.ReminderWeeks != nil {
		visit.ReminderWeeks = *req.ReminderWeeks
	}
	if req.Notes != nil {
		visit.Notes = *req.Notes
	}
	visit.NextServiceDueDate = NextServiceDueDate(visit.VisitDate, visit.ReminderWeeks)
	visit.UpdatedAt = time.Now()

	if err := s.repo.UpdateVisit(ctx, visit); err != nil {
		return nil, fmt.Errorf("update visit: %w", err)
	}
	return visit, nil
}

// Delete removes the visit, cascading to its line items and invoice.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	visit, err := s.repo.GetVisit(ctx, id)
	if err != nil {
		return err
	}
	if visit == nil {
		return ErrVisitNotFound
	}
	return s.repo.DeleteVisit(ctx, id)
}

func (s *Service) loadDefaults(ctx context.Context) (Defaults, error) {
	if s.defaults == nil {
		return Defaults{TaxRate: 10, ReminderWeeks: 8, DueDays: 14, PaymentMethod: billing.MethodCash}, nil
	}
	return s.defaults.Defaults(ctx)
}
