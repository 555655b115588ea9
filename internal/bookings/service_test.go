package bookings

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryBookingRepo struct {
	bookings map[uuid.UUID]Booking
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[uuid.UUID]Booking)}
}

func (m *memoryBookingRepo) Create(_ context.Context, b Booking) (Booking, error) {
	b.CreatedAt = time.Now()
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memoryBookingRepo) Get(_ context.Context, id uuid.UUID) (Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (m *memoryBookingRepo) List(_ context.Context, _, _ int) ([]Booking, error) {
	out := make([]Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryBookingRepo) SetForwardStatus(_ context.Context, id uuid.UUID, status ForwardStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.ForwardStatus = status
	m.bookings[id] = b
	return nil
}

type fakeDispatcher struct {
	enqueued []uuid.UUID
	fail     bool
}

func (f *fakeDispatcher) EnqueueBookingReceived(_ context.Context, bookingID uuid.UUID) error {
	if f.fail {
		return errors.New("queue down")
	}
	f.enqueued = append(f.enqueued, bookingID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCreateBookingEnqueuesFollowUp(t *testing.T) {
	repo := newMemoryBookingRepo()
	dispatcher := &fakeDispatcher{}
	svc := NewService(testLogger(), repo, dispatcher)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:          "Sam Driver",
		Phone:         "0400 000 000",
		Email:         "Sam@Example.COM",
		RegoPlate:     " abc123 ",
		PreferredDate: "2026-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, ForwardPending, booking.ForwardStatus)
	require.Equal(t, "sam@example.com", booking.Email)
	require.Equal(t, "ABC123", booking.RegoPlate)
	require.NotNil(t, booking.PreferredDate)
	require.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *booking.PreferredDate)
	require.Equal(t, []uuid.UUID{booking.ID}, dispatcher.enqueued)
}

func TestCreateBookingSurvivesQueueOutage(t *testing.T) {
	repo := newMemoryBookingRepo()
	svc := NewService(testLogger(), repo, &fakeDispatcher{fail: true})

	booking, err := svc.Create(context.Background(), CreateBookingRequest{Name: "Sam", Phone: "0400"})
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Equal(t, "Sam", stored.Name)
}

func TestRecordForwardResult(t *testing.T) {
	repo := newMemoryBookingRepo()
	svc := NewService(testLogger(), repo, nil)

	booking, err := svc.Create(context.Background(), CreateBookingRequest{Name: "Sam", Phone: "0400"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordForwardResult(context.Background(), booking.ID, true))
	stored, _ := svc.Get(context.Background(), booking.ID)
	require.Equal(t, ForwardSent, stored.ForwardStatus)

	require.NoError(t, svc.RecordForwardResult(context.Background(), booking.ID, false))
	stored, _ = svc.Get(context.Background(), booking.ID)
	require.Equal(t, ForwardFailed, stored.ForwardStatus)
}
