package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mrawais006/autoworkx/internal/bookings"
)

// BookingForwardJob pushes a stored booking lead to the external webhook and
// emails the shop about the new request.
type BookingForwardJob struct {
	Bookings    *bookings.Service
	Forwarder   *bookings.Forwarder
	Mail        *Client
	NotifyEmail string
	Logger      *slog.Logger
}

// NewBookingForwardJob wires dependencies for the forward handler.
func NewBookingForwardJob(bookingsSvc *bookings.Service, forwarder *bookings.Forwarder, mail *Client, notifyEmail string, logger *slog.Logger) *BookingForwardJob {
	return &BookingForwardJob{
		Bookings:    bookingsSvc,
		Forwarder:   forwarder,
		Mail:        mail,
		NotifyEmail: notifyEmail,
		Logger:      logger,
	}
}

// Handle processes TaskBookingForward tasks.
func (j *BookingForwardJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Bookings == nil {
		return errors.New("booking forward: handler not configured")
	}
	var payload BookingForwardPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	booking, err := j.Bookings.Get(ctx, payload.BookingID)
	if err != nil {
		if errors.Is(err, bookings.ErrNotFound) {
			return asynq.SkipRetry
		}
		return fmt.Errorf("load booking %s: %w", payload.BookingID, err)
	}

	logger := j.logger().With(slog.String("booking_id", booking.ID.String()))

	if j.Forwarder != nil && j.Forwarder.Enabled() {
		forwardErr := j.Forwarder.Forward(ctx, booking)
		if err := j.Bookings.RecordForwardResult(ctx, booking.ID, forwardErr == nil); err != nil {
			return fmt.Errorf("record forward result: %w", err)
		}
		if forwardErr != nil {
			// The lead is stored and the shop still gets notified, so a
			// webhook outage is logged rather than retried forever.
			logger.Warn("webhook forward failed", slog.Any("error", forwardErr))
		}
	}

	if j.Mail != nil && j.NotifyEmail != "" {
		_, err := j.Mail.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      j.NotifyEmail,
			Subject: fmt.Sprintf("New booking request from %s", booking.Name),
			Body:    bookingNotificationBody(booking),
		})
		if err != nil {
			return fmt.Errorf("enqueue notification email: %w", err)
		}
	}

	logger.Info("booking follow-up completed")
	return nil
}

func bookingNotificationBody(b bookings.Booking) string {
	body := fmt.Sprintf("Name: %s\nPhone: %s", b.Name, b.Phone)
	if b.Email != "" {
		body += "\nEmail: " + b.Email
	}
	if b.RegoPlate != "" {
		body += "\nRego: " + b.RegoPlate
	}
	if b.PreferredDate != nil {
		body += "\nPreferred date: " + b.PreferredDate.Format("2 Jan 2006")
	}
	if b.Message != "" {
		body += "\n\n" + b.Message
	}
	return body
}

func (j *BookingForwardJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskBookingForward))
	}
	return slog.Default().With(slog.String("job", TaskBookingForward))
}
