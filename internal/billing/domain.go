// Package billing owns invoice computation and the invoice status lifecycle.
package billing

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus enumerates stored invoice statuses. Overdue is intentionally
// absent: it is derived at read time, never written (see Classification).
type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "Draft"
	StatusSent  InvoiceStatus = "Sent"
	StatusPaid  InvoiceStatus = "Paid"
)

// Classification is the read-time standing of an invoice.
type Classification string

const (
	ClassDraft   Classification = "Draft"
	ClassSent    Classification = "Sent"
	ClassPaid    Classification = "Paid"
	ClassOverdue Classification = "Overdue"
)

// PaymentMethod enumerates accepted payment methods.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCard         PaymentMethod = "Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodCheque       PaymentMethod = "Cheque"
	MethodOther        PaymentMethod = "Other"
)

// Valid reports whether the method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodCheque, MethodOther:
		return true
	}
	return false
}

// LineItem is a single billable entry on a service invoice.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	VisitID   uuid.UUID `json:"visit_id"`
	Name      string    `json:"name"`
	Qty       float64   `json:"qty"`
	UnitPrice float64   `json:"unit_price"`
	Taxable   bool      `json:"taxable"`
	// LineTotal is a snapshot written together with the invoice totals; it is
	// always recomputed from Qty and UnitPrice in the same transaction.
	LineTotal float64   `json:"line_total"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Amount returns quantity times unit price with lenient numeric coercion.
func (li LineItem) Amount() float64 {
	return CoerceNumeric(li.Qty) * CoerceNumeric(li.UnitPrice)
}

// AssignSortOrders numbers items by position when the caller supplied no sort
// orders at all. Requests that set any order keep their values, zeros included.
func AssignSortOrders(items []LineItem) {
	for _, it := range items {
		if it.SortOrder != 0 {
			return
		}
	}
	for i := range items {
		items[i].SortOrder = i
	}
}

// Invoice model. Exactly one invoice belongs to each service visit.
type Invoice struct {
	ID            uuid.UUID      `json:"id"`
	VisitID       uuid.UUID      `json:"visit_id"`
	Number        string         `json:"invoice_number"`
	Status        InvoiceStatus  `json:"status"`
	Subtotal      float64        `json:"subtotal"`
	TaxRate       float64        `json:"tax_rate"`
	TaxTotal      float64        `json:"tax_total"`
	Total         float64        `json:"total"`
	DueDate       time.Time      `json:"due_date"`
	PaidDate      *time.Time     `json:"paid_date,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Classify derives the read-time standing. A Sent invoice past its due date
// reads as Overdue; stored status is never rewritten for it.
func (inv Invoice) Classify(now time.Time) Classification {
	switch inv.Status {
	case StatusPaid:
		return ClassPaid
	case StatusSent:
		if !inv.DueDate.IsZero() && now.After(inv.DueDate) {
			return ClassOverdue
		}
		return ClassSent
	default:
		return ClassDraft
	}
}

// DaysOverdue returns whole calendar days past the due date, zero when not due.
func (inv Invoice) DaysOverdue(now time.Time) int {
	if inv.Status == StatusPaid || inv.DueDate.IsZero() {
		return 0
	}
	days := int(now.Sub(inv.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// InvoiceWithItems is the detail read model served to the dashboard.
type InvoiceWithItems struct {
	Invoice
	Items          []LineItem     `json:"items"`
	Classification Classification `json:"classification"`
}

// UnpaidInvoice is a row of the unpaid-invoice list with visit context.
type UnpaidInvoice struct {
	InvoiceID    uuid.UUID     `json:"invoice_id"`
	Number       string        `json:"invoice_number"`
	VisitID      uuid.UUID     `json:"visit_id"`
	Total        float64       `json:"total"`
	Status       InvoiceStatus `json:"status"`
	VisitDate    time.Time     `json:"visit_date"`
	RegoPlate    string        `json:"rego_plate"`
	CustomerName string        `json:"customer_name"`
	CompanyName  string        `json:"company_name,omitempty"`
	DaysOverdue  int           `json:"days_overdue"`
}
