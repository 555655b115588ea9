package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrawais006/autoworkx/internal/masterdata"
)

// Service captures booking leads and schedules their follow-up work.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	dispatcher Dispatcher
}

// NewService constructs a bookings service. Dispatcher may be nil, in which
// case no background work is scheduled.
func NewService(logger *slog.Logger, repo Repository, dispatcher Dispatcher) *Service {
	return &Service{logger: logger, repo: repo, dispatcher: dispatcher}
}

// Create stores the lead and enqueues forwarding plus the notification email.
// Enqueue failures are logged, never surfaced: the lead is already safe in the
// database and the scan job will pick up stragglers.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (Booking, error) {
	booking := Booking{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		RegoPlate:     masterdata.NormalizeRego(req.RegoPlate),
		Message:       strings.TrimSpace(req.Message),
		ForwardStatus: ForwardPending,
	}
	if req.PreferredDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PreferredDate)
		if err != nil {
			return Booking{}, fmt.Errorf("bookings: parse preferred date: %w", err)
		}
		booking.PreferredDate = &parsed
	}

	saved, err := s.repo.Create(ctx, booking)
	if err != nil {
		return Booking{}, fmt.Errorf("bookings: create: %w", err)
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueBookingReceived(ctx, saved.ID); err != nil {
			s.logger.Warn("enqueue booking follow-up failed", "booking_id", saved.ID, "error", err)
		}
	}
	return saved, nil
}

// Get returns a single booking.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// List returns recent bookings, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// RecordForwardResult marks the webhook delivery outcome for a booking.
func (s *Service) RecordForwardResult(ctx context.Context, id uuid.UUID, delivered bool) error {
	status := ForwardSent
	if !delivered {
		status = ForwardFailed
	}
	return s.repo.SetForwardStatus(ctx, id, status)
}
