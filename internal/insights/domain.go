// Package insights aggregates revenue and upcoming-work figures for the
// dashboard.
package insights

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevenueStats summarizes paid invoice totals per window.
type RevenueStats struct {
	Today     float64 `json:"today"`
	ThisWeek  float64 `json:"this_week"`
	ThisMonth float64 `json:"this_month"`
	AllTime   float64 `json:"all_time"`
}

// UpcomingService is a visit whose next service date falls inside the lookahead
// window.
type UpcomingService struct {
	VisitID       uuid.UUID `json:"visit_id"`
	CarID         uuid.UUID `json:"car_id"`
	RegoPlate     string    `json:"rego_plate"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	DueDate       time.Time `json:"due_date"`
	DaysUntilDue  int       `json:"days_until_due"`
}

// Repository reads aggregate figures from the invoice and visit tables.
type Repository interface {
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	PaidRevenueAllTime(ctx context.Context) (float64, error)
	UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]UpcomingService, error)
}
