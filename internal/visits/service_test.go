package visits

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mrawais006/autoworkx/internal/billing"
)

type memoryVisitRepo struct {
	visits   map[uuid.UUID]*ServiceVisit
	items    map[uuid.UUID][]billing.LineItem
	invoices map[uuid.UUID]*billing.Invoice
	counter  int64
}

func newMemoryVisitRepo() *memoryVisitRepo {
	return &memoryVisitRepo{
		visits:   make(map[uuid.UUID]*ServiceVisit),
		items:    make(map[uuid.UUID][]billing.LineItem),
		invoices: make(map[uuid.UUID]*billing.Invoice),
	}
}

func (r *memoryVisitRepo) CreateVisitBundle(ctx context.Context, visit ServiceVisit, items []billing.LineItem, inv billing.Invoice) error {
	r.visits[visit.ID] = &visit
	r.items[visit.ID] = items
	r.invoices[visit.ID] = &inv
	return nil
}

func (r *memoryVisitRepo) GetVisit(ctx context.Context, id uuid.UUID) (*ServiceVisit, error) {
	v, ok := r.visits[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (r *memoryVisitRepo) GetVisitDetail(ctx context.Context, id uuid.UUID) (*VisitDetail, error) {
	v, ok := r.visits[id]
	if !ok {
		return nil, nil
	}
	return &VisitDetail{ServiceVisit: *v, Items: r.items[id], Invoice: r.invoices[id]}, nil
}

func (r *memoryVisitRepo) ListVisits(ctx context.Context, req ListVisitsRequest) ([]ServiceVisit, error) {
	var out []ServiceVisit
	for _, v := range r.visits {
		if req.CarID != uuid.Nil && v.CarID != req.CarID {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *memoryVisitRepo) UpdateVisit(ctx context.Context, visit *ServiceVisit) error {
	stored, ok := r.visits[visit.ID]
	if !ok {
		return ErrVisitNotFound
	}
	*stored = *visit
	return nil
}

func (r *memoryVisitRepo) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.visits[id]; !ok {
		return ErrVisitNotFound
	}
	delete(r.visits, id)
	delete(r.items, id)
	delete(r.invoices, id)
	return nil
}

func (r *memoryVisitRepo) NextInvoiceNumber(ctx context.Context) (string, error) {
	r.counter++
	return fmt.Sprintf("INV-2026-%04d", r.counter), nil
}

type staticDefaults struct{}

func (staticDefaults) Defaults(ctx context.Context) (Defaults, error) {
	return Defaults{TaxRate: 10, ReminderWeeks: 8, DueDays: 14, PaymentMethod: billing.MethodCash}, nil
}

func TestNextServiceDueDate(t *testing.T) {
	visitDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := NextServiceDueDate(visitDate, 8)
	require.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), due)
}

func TestNextServiceDueDateZeroWeeks(t *testing.T) {
	visitDate := time.Date(2024, 6, 15, 13, 45, 0, 0, time.Local)
	due := NextServiceDueDate(visitDate, 0)
	require.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), due)
}

func TestCreateVisitBundlesInvoice(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryVisitRepo()
	svc := NewService(repo, staticDefaults{})

	detail, err := svc.Create(ctx, CreateVisitRequest{
		CarID:     uuid.New().String(),
		VisitDate: "2026-01-05",
		Items: []billing.LineItemInput{
			{Name: "Oil Change", Qty: 1, UnitPrice: 89, Taxable: true},
			{Name: "Labour", Qty: 2, UnitPrice: 95, Taxable: true},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, detail.Invoice)
	require.Equal(t, billing.StatusDraft, detail.Invoice.Status)
	require.Equal(t, 279.00, detail.Invoice.Subtotal)
	require.Equal(t, 27.90, detail.Invoice.TaxTotal)
	require.Equal(t, 306.90, detail.Invoice.Total)
	require.Equal(t, "INV-2026-0001", detail.Invoice.Number)

	// defaults applied
	require.Equal(t, 8, detail.ReminderWeeks)
	require.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), detail.NextServiceDueDate)
}

func TestCreateVisitMarkPaidUsesVisitDate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryVisitRepo()
	svc := NewService(repo, staticDefaults{})

	detail, err := svc.Create(ctx, CreateVisitRequest{
		CarID:     uuid.New().String(),
		VisitDate: "2026-01-05",
		Items:     []billing.LineItemInput{{Name: "Oil Change", Qty: 1, UnitPrice: 89, Taxable: true}},
		MarkPaid:  true,
	})
	require.NoError(t, err)
	require.Equal(t, billing.StatusPaid, detail.Invoice.Status)
	require.NotNil(t, detail.Invoice.PaidDate)
	require.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), *detail.Invoice.PaidDate)
	// configured default method, made explicit at the boundary
	require.Equal(t, billing.MethodCash, *detail.Invoice.PaymentMethod)
}

func TestCreateVisitOverridesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryVisitRepo()
	svc := NewService(repo, staticDefaults{})

	weeks := 12
	rate := 0.0
	detail, err := svc.Create(ctx, CreateVisitRequest{
		CarID:         uuid.New().String(),
		VisitDate:     "2026-01-05",
		ReminderWeeks: &weeks,
		TaxRate:       &rate,
		Items:         []billing.LineItemInput{{Name: "Inspection", Qty: 1, UnitPrice: 50, Taxable: true}},
	})
	require.NoError(t, err)
	require.Equal(t, 12, detail.ReminderWeeks)
	require.Equal(t, 0.0, detail.Invoice.TaxTotal)
	require.Equal(t, 50.0, detail.Invoice.Total)
}

func TestUpdateVisitRecomputesDueDate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryVisitRepo()
	svc := NewService(repo, staticDefaults{})

	detail, err := svc.Create(ctx, CreateVisitRequest{
		CarID:     uuid.New().String(),
		VisitDate: "2026-01-05",
		Items:     []billing.LineItemInput{{Name: "Oil Change", Qty: 1, UnitPrice: 89, Taxable: true}},
	})
	require.NoError(t, err)

	weeks := 4
	updated, err := svc.Update(ctx, detail.ID, UpdateVisitRequest{ReminderWeeks: &weeks})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), updated.NextServiceDueDate)
}

func TestDeleteVisitCascades(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryVisitRepo()
	svc := NewService(repo, staticDefaults{})

	detail, err := svc.Create(ctx, CreateVisitRequest{
		CarID:     uuid.New().String(),
		VisitDate: "2026-01-05",
		Items:     []billing.LineItemInput{{Name: "Oil Change", Qty: 1, UnitPrice: 89, Taxable: true}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, detail.ID))
	_, err = svc.Get(ctx, detail.ID)
	require.ErrorIs(t, err, ErrVisitNotFound)
	require.Empty(t, repo.invoices)
}
