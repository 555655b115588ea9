// Package visits manages service visits, each owning line items and exactly
// one invoice created together with the visit.
package visits

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/billing"
)

// ServiceVisit model.
type ServiceVisit struct {
	ID                 uuid.UUID  `json:"id"`
	CarID              uuid.UUID  `json:"car_id"`
	VisitDate          time.Time  `json:"visit_date"`
	OdometerKm         *int       `json:"odometer_km,omitempty"`
	ReminderWeeks      int        `json:"reminder_weeks"`
	NextServiceDueDate time.Time  `json:"next_service_due_date"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// VisitDetail is the visit read model with its line items and invoice.
type VisitDetail struct {
	ServiceVisit
	Items   []billing.LineItem `json:"items"`
	Invoice *billing.Invoice   `json:"invoice,omitempty"`
}

// DateOnly strips the time component, keeping calendar-date semantics in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextServiceDueDate adds reminderWeeks*7 calendar days to the visit date.
// Business days and timezones are deliberately not involved.
func NextServiceDueDate(visitDate time.Time, reminderWeeks int) time.Time {
	return DateOnly(visitDate).AddDate(0, 0, reminderWeeks*7)
}
