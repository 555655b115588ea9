package visits

import (
	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/billing"
)

// CreateVisitRequest records a visit together with its line items and invoice.
type CreateVisitRequest struct {
	CarID         string                  `json:"car_id" validate:"required,uuid4"`
	VisitDate     string                  `json:"visit_date" validate:"required,datetime=2006-01-02"`
	OdometerKm    *int                    `json:"odometer_km,omitempty" validate:"omitempty,gte=0"`
	ReminderWeeks *int                    `json:"reminder_weeks,omitempty" validate:"omitempty,gte=0,lte=260"`
	Notes         string                  `json:"notes,omitempty"`
	TaxRate       *float64                `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Items         []billing.LineItemInput `json:"items" validate:"required,min=1,dive"`

	// MarkPaid settles the invoice immediately, dated to the visit date.
	MarkPaid      bool   `json:"mark_paid"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=Cash Card 'Bank Transfer' Cheque Other"`
}

// UpdateVisitRequest updates visit fields. Line items are edited through the
// invoice endpoints so totals are always recomputed with the swap.
type UpdateVisitRequest struct {
	VisitDate     *string `json:"visit_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	OdometerKm    *int    `json:"odometer_km,omitempty" validate:"omitempty,gte=0"`
	ReminderWeeks *int    `json:"reminder_weeks,omitempty" validate:"omitempty,gte=0,lte=260"`
	Notes         *string `json:"notes,omitempty"`
}

// ListVisitsRequest filters the visit list.
type ListVisitsRequest struct {
	CarID  uuid.UUID
	Limit  int
	Offset int
}
