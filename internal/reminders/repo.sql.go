package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL implementation of Repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL reminders repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const jobColumns = `id, type, channel, status, visit_id, invoice_id, recipient, subject, body,
	scheduled_for, sent_at, last_error, created_at`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Type, &j.Channel, &j.Status, &j.VisitID, &j.InvoiceID, &j.Recipient,
		&j.Subject, &j.Body, &j.ScheduledFor, &j.SentAt, &j.LastError, &j.CreatedAt)
	return j, err
}

func (r *PgRepository) Create(ctx context.Context, job Job) (Job, error) {
	query := `INSERT INTO reminder_jobs (id, type, channel, status, visit_id, invoice_id, recipient, subject, body, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		job.ID, job.Type, job.Channel, job.Status, job.VisitID, job.InvoiceID,
		job.Recipient, job.Subject, job.Body, job.ScheduledFor,
	).Scan(&job.CreatedAt)
	if err != nil {
		return Job{}, fmt.Errorf("create reminder job: %w", err)
	}
	return job, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM reminder_jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return j, err
}

// status is an enum column, so the optional filter compares as text.
const listJobsQuery = `SELECT ` + jobColumns + ` FROM reminder_jobs
		WHERE ($1 = '' OR status::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

func (r *PgRepository) List(ctx context.Context, status Status, limit, offset int) ([]Job, error) {
	query := listJobsQuery
	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reminder jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *PgRepository) ListDue(ctx context.Context, asOf time.Time, limit int) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM reminder_jobs
		WHERE status = 'Pending' AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("list due reminder jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *PgRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminder_jobs SET status = 'Sent', sent_at = $2, last_error = '' WHERE id = $1 AND status = 'Pending'`,
		id, at)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *PgRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminder_jobs SET status = 'Failed', last_error = $2 WHERE id = $1 AND status = 'Pending'`,
		id, reason)
	if err != nil {
		return fmt.Errorf("mark reminder failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *PgRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminder_jobs SET status = 'Cancelled' WHERE id = $1 AND status = 'Pending'`, id)
	if err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrNotPending
	}
	return nil
}

func (r *PgRepository) ServiceDueCandidates(ctx context.Context, asOf time.Time, leadDays int) ([]ServiceDueCandidate, error) {
	query := `SELECT v.id, c.rego_plate,
			COALESCE(cu.full_name, c.driver_name, ''),
			COALESCE(cu.email, ''),
			COALESCE(cu.phone, c.driver_phone, ''),
			v.next_service_due_date
		FROM service_visits v
		JOIN cars c ON c.id = v.car_id
		LEFT JOIN customers cu ON cu.id = c.customer_id
		WHERE v.next_service_due_date IS NOT NULL
		  AND v.next_service_due_date >= $1::date
		  AND v.next_service_due_date <= $1::date + $2
		ORDER BY v.next_service_due_date ASC`
	rows, err := r.pool.Query(ctx, query, asOf, leadDays)
	if err != nil {
		return nil, fmt.Errorf("service due candidates: %w", err)
	}
	defer rows.Close()

	out := make([]ServiceDueCandidate, 0)
	for rows.Next() {
		var c ServiceDueCandidate
		if err := rows.Scan(&c.VisitID, &c.RegoPlate, &c.CustomerName, &c.CustomerEmail, &c.CustomerPhone, &c.DueDate); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgRepository) OverdueCandidates(ctx context.Context, asOf time.Time) ([]OverdueCandidate, error) {
	query := `SELECT i.id, i.invoice_number,
			COALESCE(cu.full_name, ca.driver_name, ''),
			COALESCE(cu.email, ''),
			i.total,
			GREATEST(0, $1::date - i.due_date)
		FROM invoices i
		JOIN service_visits v ON v.id = i.visit_id
		JOIN cars ca ON ca.id = v.car_id
		LEFT JOIN customers cu ON cu.id = ca.customer_id
		WHERE i.status = 'Sent' AND i.due_date < $1::date
		ORDER BY i.due_date ASC`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("overdue candidates: %w", err)
	}
	defer rows.Close()

	out := make([]OverdueCandidate, 0)
	for rows.Next() {
		var c OverdueCandidate
		if err := rows.Scan(&c.InvoiceID, &c.InvoiceNumber, &c.CustomerName, &c.CustomerEmail, &c.Total, &c.DaysOverdue); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgRepository) HasOpenJob(ctx context.Context, jobType Type, visitID, invoiceID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM reminder_jobs
			WHERE type = $1
			  AND status IN ('Pending', 'Sent')
			  AND ($2::uuid IS NULL OR visit_id = $2)
			  AND ($3::uuid IS NULL OR invoice_id = $3)
		)`, string(jobType), visitID, invoiceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open reminder job: %w", err)
	}
	return exists, nil
}
