package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeSendSMS is the task type for sending reminder text messages.
	TaskTypeSendSMS = "sms:send"
	// TaskReminderScan runs the daily reminder scan and dispatch pass.
	TaskReminderScan = "reminder:scan"
	// TaskReminderDispatch sends a single reminder job.
	TaskReminderDispatch = "reminder:dispatch"
	// TaskBookingForward forwards a booking lead to the external webhook.
	TaskBookingForward = "booking:forward"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP/Mailpit once the shop picks a provider.
	slog.Info("send email", "to", payload.To, "subject", payload.Subject)
	return nil
}

// SendSMSPayload describes a text message to deliver.
type SendSMSPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// NewSendSMSTask constructs an Asynq task.
func NewSendSMSTask(payload SendSMSPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendSMS, data), nil
}

// HandleSendSMSTask processes TaskTypeSendSMS tasks.
func HandleSendSMSTask(ctx context.Context, t *asynq.Task) error {
	var payload SendSMSPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with an SMS gateway once the shop picks a provider.
	slog.Info("send sms", "to", payload.To)
	return nil
}

// ReminderDispatchPayload identifies a single reminder job to send.
type ReminderDispatchPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// NewReminderDispatchTask constructs an Asynq task.
func NewReminderDispatchTask(payload ReminderDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderDispatch, data), nil
}

// NewReminderScanTask constructs the cron-scheduled scan task.
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TaskReminderScan, nil)
}

// BookingForwardPayload identifies a booking lead to forward.
type BookingForwardPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
}

// NewBookingForwardTask constructs an Asynq task.
func NewBookingForwardTask(payload BookingForwardPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingForward, data), nil
}
