package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mrawais006/autoworkx/internal/billing"
	"github.com/mrawais006/autoworkx/internal/settings"
)

func TestRenderInvoiceHTML(t *testing.T) {
	r := NewInvoiceRenderer(nil, nil)

	method := billing.MethodCard
	paid := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	detail := &billing.InvoiceWithItems{
		Invoice: billing.Invoice{
			ID:            uuid.New(),
			Number:        "INV-2026-0042",
			Status:        billing.StatusPaid,
			Subtotal:      1279.00,
			TaxRate:       10,
			TaxTotal:      127.90,
			Total:         1406.90,
			DueDate:       time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			PaidDate:      &paid,
			PaymentMethod: &method,
			Notes:         "Thanks for your business.",
			CreatedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		Items: []billing.LineItem{
			{Name: "Timing belt kit", Qty: 1, UnitPrice: 1099, Taxable: true, LineTotal: 1099},
			{Name: "Labour", Qty: 2, UnitPrice: 90, Taxable: true, LineTotal: 180},
		},
		Classification: billing.ClassPaid,
	}

	html, err := r.renderHTML(detail, settings.Settings{
		ShopName:    "Main St Motors",
		ShopAddress: "1 Main St",
		ABN:         "12 345 678 901",
	})
	require.NoError(t, err)

	require.Contains(t, html, "INV-2026-0042")
	require.Contains(t, html, "Main St Motors")
	require.Contains(t, html, "ABN 12 345 678 901")
	require.Contains(t, html, "Timing belt kit")
	require.Contains(t, html, "$1,279.00")
	require.Contains(t, html, "$1,406.90")
	require.Contains(t, html, "Tax (10%)")
	require.Contains(t, html, "via Card")
	require.Contains(t, html, "Paid: 20 Aug 2026")
}

func TestMoneyFormatting(t *testing.T) {
	r := NewInvoiceRenderer(nil, nil)
	require.Equal(t, "$0.00", r.money(0))
	require.Equal(t, "$306.90", r.money(306.9))
	require.Equal(t, "$12,345.68", r.money(12345.678))
}
