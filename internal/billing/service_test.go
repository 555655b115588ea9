package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryBillingRepo struct {
	invoices map[uuid.UUID]*Invoice
	items    map[uuid.UUID][]LineItem
}

func newMemoryBillingRepo() *memoryBillingRepo {
	return &memoryBillingRepo{
		invoices: make(map[uuid.UUID]*Invoice),
		items:    make(map[uuid.UUID][]LineItem),
	}
}

func (r *memoryBillingRepo) addInvoice(status InvoiceStatus, taxRate float64) *Invoice {
	inv := &Invoice{
		ID:      uuid.New(),
		VisitID: uuid.New(),
		Number:  "INV-2026-0001",
		Status:  status,
		TaxRate: taxRate,
		DueDate: time.Now().AddDate(0, 0, 14),
	}
	r.invoices[inv.ID] = inv
	return inv
}

func (r *memoryBillingRepo) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	copied := *inv
	return &copied, nil
}

func (r *memoryBillingRepo) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if req.Status != "" && inv.Status != req.Status {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *memoryBillingRepo) ListLineItems(ctx context.Context, visitID uuid.UUID) ([]LineItem, error) {
	return r.items[visitID], nil
}

func (r *memoryBillingRepo) SaveInvoiceStatus(ctx context.Context, inv *Invoice) error {
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return ErrInvoiceNotFound
	}
	*stored = *inv
	return nil
}

func (r *memoryBillingRepo) ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem, totals Totals) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return ErrInvoiceNotFound
	}
	r.items[inv.VisitID] = items
	inv.Subtotal = totals.Subtotal
	inv.TaxTotal = totals.TaxTotal
	inv.Total = totals.Total
	return nil
}

func (r *memoryBillingRepo) ListUnpaid(ctx context.Context, asOf time.Time) ([]UnpaidInvoice, error) {
	var out []UnpaidInvoice
	for _, inv := range r.invoices {
		if inv.Status == StatusPaid {
			continue
		}
		out = append(out, UnpaidInvoice{
			InvoiceID:   inv.ID,
			Number:      inv.Number,
			VisitID:     inv.VisitID,
			Total:       inv.Total,
			Status:      inv.Status,
			DaysOverdue: inv.DaysOverdue(asOf),
		})
	}
	return out, nil
}

func TestReplaceLineItemsRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)
	inv := repo.addInvoice(StatusDraft, 10)

	detail, err := svc.ReplaceLineItems(ctx, inv.ID, ReplaceLineItemsRequest{
		Items: []LineItemInput{
			{Name: "Oil Change", Qty: 1, UnitPrice: 89, Taxable: true},
			{Name: "Labour", Qty: 2, UnitPrice: 95, Taxable: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 279.00, detail.Subtotal)
	require.Equal(t, 27.90, detail.TaxTotal)
	require.Equal(t, 306.90, detail.Total)
	require.Len(t, detail.Items, 2)

	stored := repo.invoices[inv.ID]
	require.Equal(t, 306.90, stored.Total)
	require.Len(t, repo.items[inv.VisitID], 2)
}

func TestReplaceLineItemsSnapshotsLineTotal(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)
	inv := repo.addInvoice(StatusDraft, 10)

	detail, err := svc.ReplaceLineItems(ctx, inv.ID, ReplaceLineItemsRequest{
		Items: []LineItemInput{{Name: "Labour", Qty: 1.5, UnitPrice: 95, Taxable: true}},
	})
	require.NoError(t, err)
	require.Equal(t, 142.5, detail.Items[0].LineTotal)
	require.Equal(t, detail.Items[0].Qty*detail.Items[0].UnitPrice, detail.Items[0].LineTotal)
}

func TestReplaceLineItemsRejectsIssuedInvoice(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)

	for _, status := range []InvoiceStatus{StatusSent, StatusPaid} {
		inv := repo.addInvoice(status, 10)
		_, err := svc.ReplaceLineItems(ctx, inv.ID, ReplaceLineItemsRequest{
			Items: []LineItemInput{{Name: "Labour", Qty: 1, UnitPrice: 95, Taxable: true}},
		})
		require.ErrorIs(t, err, ErrInvoiceNotDraft)
	}
}

func TestReplaceLineItemsUnknownInvoice(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryBillingRepo())

	_, err := svc.ReplaceLineItems(ctx, uuid.New(), ReplaceLineItemsRequest{
		Items: []LineItemInput{{Name: "Labour", Qty: 1, UnitPrice: 95}},
	})
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestMarkSentPersists(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)
	inv := repo.addInvoice(StatusDraft, 10)

	updated, err := svc.MarkSent(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSent, updated.Status)
	require.Equal(t, StatusSent, repo.invoices[inv.ID].Status)
}

func TestMarkSentTwiceFails(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)
	inv := repo.addInvoice(StatusDraft, 10)

	_, err := svc.MarkSent(ctx, inv.ID)
	require.NoError(t, err)
	_, err = svc.MarkSent(ctx, inv.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkPaidFromDraftAndSentViaService(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)

	for _, status := range []InvoiceStatus{StatusDraft, StatusSent} {
		inv := repo.addInvoice(status, 10)
		updated, err := svc.MarkPaid(ctx, inv.ID, MethodCash, time.Time{})
		require.NoError(t, err)
		require.Equal(t, StatusPaid, updated.Status)
		require.NotNil(t, updated.PaidDate)
	}
}

func TestMarkPaidMissingMethod(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)
	inv := repo.addInvoice(StatusSent, 10)

	_, err := svc.MarkPaid(ctx, inv.ID, "", time.Time{})
	require.ErrorIs(t, err, ErrPaymentMethodRequired)
	require.Equal(t, StatusSent, repo.invoices[inv.ID].Status)
}

func TestListUnpaidSkipsPaid(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBillingRepo()
	svc := NewService(repo)

	repo.addInvoice(StatusDraft, 10)
	repo.addInvoice(StatusSent, 10)
	paid := repo.addInvoice(StatusSent, 10)
	_, err := svc.MarkPaid(ctx, paid.ID, MethodCard, time.Time{})
	require.NoError(t, err)

	unpaid, err := svc.ListUnpaid(ctx)
	require.NoError(t, err)
	require.Len(t, unpaid, 2)
}
