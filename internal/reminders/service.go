package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultEmailTemplate = "Hi {{name}}, your vehicle {{rego}} is due for a service on {{due_date}}. Reply to this email or call us to book in."

const defaultSMSTemplate = "Hi {{name}}, {{rego}} is due for a service on {{due_date}}. Call us to book in."

const defaultOverdueTemplate = "Hi {{name}}, invoice {{invoice_number}} for ${{total}} is {{days_overdue}} days overdue. Please arrange payment."

// TemplateSource supplies the configurable message templates. A nil source
// falls back to the built-in wording.
type TemplateSource interface {
	Templates(ctx context.Context) (email, sms string)
}

// Service runs the reminder scan and dispatch passes.
type Service struct {
	logger    *slog.Logger
	repo      Repository
	sender    Sender
	templates TemplateSource
}

// NewService constructs a reminders service.
func NewService(logger *slog.Logger, repo Repository, sender Sender, templates TemplateSource) *Service {
	return &Service{logger: logger, repo: repo, sender: sender, templates: templates}
}

// ScanServiceDue creates pending reminder jobs for visits whose next service
// date falls within the lead window. Visits that already have an open job are
// skipped, so the scan can run daily without duplicating work.
func (s *Service) ScanServiceDue(ctx context.Context, now time.Time, leadDays int) (int, error) {
	candidates, err := s.repo.ServiceDueCandidates(ctx, now, leadDays)
	if err != nil {
		return 0, fmt.Errorf("reminders: service due candidates: %w", err)
	}

	emailTmpl, smsTmpl := s.loadTemplates(ctx)
	created := 0
	for _, c := range candidates {
		visitID := c.VisitID
		open, err := s.repo.HasOpenJob(ctx, TypeServiceDue, &visitID, nil)
		if err != nil {
			return created, fmt.Errorf("reminders: check open job: %w", err)
		}
		if open {
			continue
		}

		job, ok := s.buildServiceDueJob(c, emailTmpl, smsTmpl, now)
		if !ok {
			s.logger.Warn("skipping reminder with no contact details", "visit_id", c.VisitID, "rego", c.RegoPlate)
			continue
		}
		if _, err := s.repo.Create(ctx, job); err != nil {
			return created, fmt.Errorf("reminders: create job: %w", err)
		}
		created++
	}
	return created, nil
}

func (s *Service) buildServiceDueJob(c ServiceDueCandidate, emailTmpl, smsTmpl string, now time.Time) (Job, bool) {
	vars := map[string]string{
		"name":     displayName(c.CustomerName),
		"rego":     c.RegoPlate,
		"due_date": c.DueDate.Format("2 Jan 2006"),
	}
	visitID := c.VisitID
	job := Job{
		ID:           uuid.New(),
		Type:         TypeServiceDue,
		Status:       StatusPending,
		VisitID:      &visitID,
		ScheduledFor: now,
	}
	switch {
	case c.CustomerEmail != "":
		job.Channel = ChannelEmail
		job.Recipient = c.CustomerEmail
		job.Subject = fmt.Sprintf("Service reminder for %s", c.RegoPlate)
		job.Body = renderTemplate(emailTmpl, vars)
	case c.CustomerPhone != "":
		job.Channel = ChannelSMS
		job.Recipient = c.CustomerPhone
		job.Body = renderTemplate(smsTmpl, vars)
	default:
		return Job{}, false
	}
	return job, true
}

// ScanOverdueInvoices creates pending reminder jobs for sent invoices past
// their due date.
func (s *Service) ScanOverdueInvoices(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.OverdueCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("reminders: overdue candidates: %w", err)
	}

	created := 0
	for _, c := range candidates {
		if c.CustomerEmail == "" {
			continue
		}
		invoiceID := c.InvoiceID
		open, err := s.repo.HasOpenJob(ctx, TypeInvoiceOverdue, nil, &invoiceID)
		if err != nil {
			return created, fmt.Errorf("reminders: check open job: %w", err)
		}
		if open {
			continue
		}

		job := Job{
			ID:        uuid.New(),
			Type:      TypeInvoiceOverdue,
			Channel:   ChannelEmail,
			Status:    StatusPending,
			InvoiceID: &invoiceID,
			Recipient: c.CustomerEmail,
			Subject:   fmt.Sprintf("Overdue invoice %s", c.InvoiceNumber),
			Body: renderTemplate(defaultOverdueTemplate, map[string]string{
				"name":           displayName(c.CustomerName),
				"invoice_number": c.InvoiceNumber,
				"total":          fmt.Sprintf("%.2f", c.Total),
				"days_overdue":   fmt.Sprintf("%d", c.DaysOverdue),
			}),
			ScheduledFor: now,
		}
		if _, err := s.repo.Create(ctx, job); err != nil {
			return created, fmt.Errorf("reminders: create job: %w", err)
		}
		created++
	}
	return created, nil
}

// Dispatch sends a single pending job. Non-pending jobs are skipped quietly
// so retries after a partial run stay idempotent.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID, now time.Time) error {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != StatusPending {
		return nil
	}

	if err := s.sender.Send(ctx, job); err != nil {
		s.logger.Warn("reminder send failed", "job_id", job.ID, "channel", job.Channel, "error", err)
		if markErr := s.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			return fmt.Errorf("reminders: mark failed: %w", markErr)
		}
		return nil
	}
	if err := s.repo.MarkSent(ctx, job.ID, now); err != nil {
		return fmt.Errorf("reminders: mark sent: %w", err)
	}
	return nil
}

// DispatchDue sends every pending job whose scheduled time has passed.
func (s *Service) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDue(ctx, now, 200)
	if err != nil {
		return 0, fmt.Errorf("reminders: list due: %w", err)
	}
	dispatched := 0
	for _, job := range due {
		if err := s.Dispatch(ctx, job.ID, now); err != nil {
			return dispatched, err
		}
		dispatched++
	}
	return dispatched, nil
}

// Cancel withdraws a pending job.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.Cancel(ctx, id)
}

// List returns jobs filtered by status. An empty status lists everything.
func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]Job, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) loadTemplates(ctx context.Context) (string, string) {
	email, sms := "", ""
	if s.templates != nil {
		email, sms = s.templates.Templates(ctx)
	}
	if email == "" {
		email = defaultEmailTemplate
	}
	if sms == "" {
		sms = defaultSMSTemplate
	}
	return email, sms
}

func renderTemplate(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
