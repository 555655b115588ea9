// Package reminders schedules and dispatches service-due and invoice
// reminder messages.
package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the reminder job does not exist.
	ErrNotFound = errors.New("reminders: not found")
	// ErrNotPending indicates a state change that only applies to pending jobs.
	ErrNotPending = errors.New("reminders: job is not pending")
)

// Type identifies what a reminder is about.
type Type string

const (
	TypeServiceDue     Type = "ServiceDue"
	TypeInvoiceDue     Type = "InvoiceDue"
	TypeInvoiceOverdue Type = "InvoiceOverdue"
)

// Channel is the delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "Email"
	ChannelSMS   Channel = "SMS"
)

// Status tracks a reminder job through its lifecycle. Jobs start Pending and
// end Sent, Failed or Cancelled.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusSent      Status = "Sent"
	StatusFailed    Status = "Failed"
	StatusCancelled Status = "Cancelled"
)

// Job is a single scheduled reminder.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	Type         Type       `json:"type"`
	Channel      Channel    `json:"channel"`
	Status       Status     `json:"status"`
	VisitID      *uuid.UUID `json:"visit_id,omitempty"`
	InvoiceID    *uuid.UUID `json:"invoice_id,omitempty"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject,omitempty"`
	Body         string     `json:"body"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ServiceDueCandidate is a visit due for a reminder, joined with contact
// details.
type ServiceDueCandidate struct {
	VisitID       uuid.UUID
	RegoPlate     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	DueDate       time.Time
}

// OverdueCandidate is a sent invoice past its due date.
type OverdueCandidate struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	CustomerName  string
	CustomerEmail string
	Total         float64
	DaysOverdue   int
}

// Repository persists reminder jobs and finds work for the scan passes.
type Repository interface {
	Create(ctx context.Context, job Job) (Job, error)
	Get(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, status Status, limit, offset int) ([]Job, error)
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]Job, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Cancel(ctx context.Context, id uuid.UUID) error

	ServiceDueCandidates(ctx context.Context, asOf time.Time, leadDays int) ([]ServiceDueCandidate, error)
	OverdueCandidates(ctx context.Context, asOf time.Time) ([]OverdueCandidate, error)
	HasOpenJob(ctx context.Context, jobType Type, visitID, invoiceID *uuid.UUID) (bool, error)
}

// Sender delivers a reminder over its channel.
type Sender interface {
	Send(ctx context.Context, job Job) error
}
