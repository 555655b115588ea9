package billing

import (
	"errors"
	"time"
)

var (
	// ErrInvalidStatus indicates a transition not allowed from the current status.
	ErrInvalidStatus = errors.New("billing: transition not allowed from current status")
	// ErrPaymentMethodRequired indicates MarkPaid was called without a method.
	ErrPaymentMethodRequired = errors.New("billing: payment method required")
	// ErrUnknownPaymentMethod indicates a method outside the accepted set.
	ErrUnknownPaymentMethod = errors.New("billing: unknown payment method")
	// ErrInvoiceNotDraft indicates a line-item edit on an issued invoice.
	ErrInvoiceNotDraft = errors.New("billing: line items can only be edited on a draft invoice")
)

// MarkSent transitions a Draft invoice to Sent. Totals are untouched.
func (inv *Invoice) MarkSent(now time.Time) error {
	if inv.Status != StatusDraft {
		return ErrInvalidStatus
	}
	inv.Status = StatusSent
	inv.UpdatedAt = now
	return nil
}

// MarkPaid records payment metadata and moves the invoice to Paid. It is
// allowed from any state; re-marking an already Paid invoice overwrites the
// method and date rather than failing.
func (inv *Invoice) MarkPaid(method PaymentMethod, paidDate, now time.Time) error {
	if method == "" {
		return ErrPaymentMethodRequired
	}
	if !method.Valid() {
		return ErrUnknownPaymentMethod
	}
	if paidDate.IsZero() {
		paidDate = now
	}
	inv.Status = StatusPaid
	inv.PaidDate = &paidDate
	inv.PaymentMethod = &method
	inv.UpdatedAt = now
	return nil
}
