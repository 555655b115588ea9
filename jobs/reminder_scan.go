package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mrawais006/autoworkx/internal/reminders"
)

// ReminderScanJob runs the daily reminder pass: schedule service-due and
// overdue-invoice reminders, then push anything pending out the door.
type ReminderScanJob struct {
	Reminders *reminders.Service
	Logger    *slog.Logger
	LeadDays  int
	clock     func() time.Time
}

// NewReminderScanJob wires dependencies for the scan handler.
func NewReminderScanJob(remindersSvc *reminders.Service, logger *slog.Logger, leadDays int) *ReminderScanJob {
	return &ReminderScanJob{
		Reminders: remindersSvc,
		Logger:    logger,
		LeadDays:  leadDays,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskReminderScan tasks.
func (j *ReminderScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reminders == nil {
		return errors.New("reminder scan: handler not configured")
	}
	now := j.now()
	logger := j.logger()
	logger.Info("starting reminder scan")

	serviceDue, err := j.Reminders.ScanServiceDue(ctx, now, j.LeadDays)
	if err != nil {
		logger.Error("service due scan", slog.Any("error", err))
		return err
	}
	overdue, err := j.Reminders.ScanOverdueInvoices(ctx, now)
	if err != nil {
		logger.Error("overdue invoice scan", slog.Any("error", err))
		return err
	}
	dispatched, err := j.Reminders.DispatchDue(ctx, now)
	if err != nil {
		logger.Error("dispatch due reminders", slog.Any("error", err))
		return err
	}

	logger.Info("completed reminder scan",
		slog.Int("service_due_created", serviceDue),
		slog.Int("overdue_created", overdue),
		slog.Int("dispatched", dispatched))
	return nil
}

// HandleDispatch processes TaskReminderDispatch tasks for a single job.
func (j *ReminderScanJob) HandleDispatch(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reminders == nil {
		return errors.New("reminder dispatch: handler not configured")
	}
	var payload ReminderDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.Reminders.Dispatch(ctx, payload.JobID, j.now()); err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			return asynq.SkipRetry
		}
		return fmt.Errorf("dispatch reminder %s: %w", payload.JobID, err)
	}
	return nil
}

func (j *ReminderScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReminderScan))
	}
	return slog.Default().With(slog.String("job", TaskReminderScan))
}

func (j *ReminderScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// QueueSender delivers reminders by enqueueing channel tasks, so the actual
// send happens with asynq's retry behavior.
type QueueSender struct {
	Client *Client
}

// Send implements reminders.Sender.
func (s *QueueSender) Send(ctx context.Context, job reminders.Job) error {
	if s == nil || s.Client == nil {
		return errors.New("queue sender: not configured")
	}
	switch job.Channel {
	case reminders.ChannelEmail:
		_, err := s.Client.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      job.Recipient,
			Subject: job.Subject,
			Body:    job.Body,
		})
		return err
	case reminders.ChannelSMS:
		_, err := s.Client.EnqueueSendSMS(ctx, SendSMSPayload{
			To:   job.Recipient,
			Body: job.Body,
		})
		return err
	default:
		return fmt.Errorf("queue sender: unknown channel %q", job.Channel)
	}
}
