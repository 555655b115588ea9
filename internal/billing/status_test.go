package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarkSentFromDraft(t *testing.T) {
	inv := Invoice{Status: StatusDraft}
	require.NoError(t, inv.MarkSent(time.Now()))
	require.Equal(t, StatusSent, inv.Status)
}

func TestMarkSentRejectsNonDraft(t *testing.T) {
	for _, status := range []InvoiceStatus{StatusSent, StatusPaid} {
		inv := Invoice{Status: status}
		require.ErrorIs(t, inv.MarkSent(time.Now()), ErrInvalidStatus)
	}
}

func TestMarkPaidFromDraftAndSent(t *testing.T) {
	paidDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, status := range []InvoiceStatus{StatusDraft, StatusSent} {
		inv := Invoice{Status: status}
		require.NoError(t, inv.MarkPaid(MethodCard, paidDate, time.Now()))
		require.Equal(t, StatusPaid, inv.Status)
		require.NotNil(t, inv.PaidDate)
		require.Equal(t, paidDate, *inv.PaidDate)
		require.Equal(t, MethodCard, *inv.PaymentMethod)
	}
}

func TestMarkPaidRequiresMethod(t *testing.T) {
	inv := Invoice{Status: StatusSent}
	require.ErrorIs(t, inv.MarkPaid("", time.Now(), time.Now()), ErrPaymentMethodRequired)
	require.Equal(t, StatusSent, inv.Status)
}

func TestMarkPaidRejectsUnknownMethod(t *testing.T) {
	inv := Invoice{Status: StatusSent}
	require.ErrorIs(t, inv.MarkPaid("Barter", time.Now(), time.Now()), ErrUnknownPaymentMethod)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	inv := Invoice{Status: StatusSent}
	first := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, inv.MarkPaid(MethodCash, first, time.Now()))
	require.NoError(t, inv.MarkPaid(MethodBankTransfer, second, time.Now()))

	require.Equal(t, StatusPaid, inv.Status)
	require.Equal(t, second, *inv.PaidDate)
	require.Equal(t, MethodBankTransfer, *inv.PaymentMethod)
}

func TestMarkPaidDefaultsPaidDateToNow(t *testing.T) {
	inv := Invoice{Status: StatusSent}
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, inv.MarkPaid(MethodCash, time.Time{}, now))
	require.Equal(t, now, *inv.PaidDate)
}

func TestClassifyDerivesOverdue(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	inv := Invoice{Status: StatusSent, DueDate: due}

	require.Equal(t, ClassSent, inv.Classify(due.AddDate(0, 0, -1)))
	require.Equal(t, ClassOverdue, inv.Classify(due.AddDate(0, 0, 3)))

	inv.Status = StatusPaid
	require.Equal(t, ClassPaid, inv.Classify(due.AddDate(0, 0, 3)))
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	inv := Invoice{Status: StatusSent, DueDate: due}

	require.Equal(t, 0, inv.DaysOverdue(due.AddDate(0, 0, -2)))
	require.Equal(t, 10, inv.DaysOverdue(due.AddDate(0, 0, 10)))

	paid := inv
	paid.Status = StatusPaid
	require.Equal(t, 0, paid.DaysOverdue(due.AddDate(0, 0, 10)))
}
