// Package bookings handles booking requests submitted from the public site:
// intake, persistence and best-effort forwarding to an external webhook.
package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the booking does not exist.
var ErrNotFound = errors.New("bookings: not found")

// ForwardStatus tracks the webhook delivery attempt for a booking.
type ForwardStatus string

const (
	ForwardPending ForwardStatus = "Pending"
	ForwardSent    ForwardStatus = "Sent"
	ForwardFailed  ForwardStatus = "Failed"
)

// Booking is a lead captured from the booking form.
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email,omitempty"`
	RegoPlate     string        `json:"rego_plate,omitempty"`
	PreferredDate *time.Time    `json:"preferred_date,omitempty"`
	Message       string        `json:"message,omitempty"`
	ForwardStatus ForwardStatus `json:"forward_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Repository persists booking leads.
type Repository interface {
	Create(ctx context.Context, b Booking) (Booking, error)
	Get(ctx context.Context, id uuid.UUID) (Booking, error)
	List(ctx context.Context, limit, offset int) ([]Booking, error)
	SetForwardStatus(ctx context.Context, id uuid.UUID, status ForwardStatus) error
}

// Dispatcher enqueues the background work triggered by a new booking.
type Dispatcher interface {
	EnqueueBookingReceived(ctx context.Context, bookingID uuid.UUID) error
}
