package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrawais006/autoworkx/internal/billing"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func mapVisitInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "service_visits_car_id_fkey" {
		return ErrCarNotFound
	}
	return err
}

// CreateVisitBundle persists visit, line items and invoice in one transaction.
func (r *Repository) CreateVisitBundle(ctx context.Context, visit ServiceVisit, items []billing.LineItem, inv billing.Invoice) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `INSERT INTO service_visits (id, car_id, visit_date, odometer_km, reminder_weeks, next_service_due_date, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		visit.ID, visit.CarID, visit.VisitDate, visit.OdometerKm, visit.ReminderWeeks, visit.NextServiceDueDate, visit.Notes, visit.CreatedAt, visit.UpdatedAt)
	if err != nil {
		return mapVisitInsertError(err)
	}

	for _, li := range items {
		if _, err := tx.Exec(ctx, `INSERT INTO line_items (id, visit_id, name, qty, unit_price, tax_flag, line_total, sort_order, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`, li.ID, li.VisitID, li.Name, li.Qty, li.UnitPrice, li.Taxable, li.LineTotal, li.SortOrder, li.CreatedAt); err != nil {
			return err
		}
	}

	var method *string
	if inv.PaymentMethod != nil {
		m := string(*inv.PaymentMethod)
		method = &m
	}
	_, err = tx.Exec(ctx, `INSERT INTO invoices (id, visit_id, invoice_number, status, subtotal, tax_rate, tax_total, total, due_date, paid_date, payment_method, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		inv.ID, inv.VisitID, inv.Number, inv.Status, inv.Subtotal, inv.TaxRate, inv.TaxTotal, inv.Total, inv.DueDate, inv.PaidDate, method, inv.Notes, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const visitColumns = `id, car_id, visit_date, odometer_km, reminder_weeks, next_service_due_date, COALESCE(notes, ''), created_at, updated_at`

func scanVisit(row pgx.Row) (*ServiceVisit, error) {
	var v ServiceVisit
	if err := row.Scan(&v.ID, &v.CarID, &v.VisitDate, &v.OdometerKm, &v.ReminderWeeks, &v.NextServiceDueDate, &v.Notes, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVisit returns a single visit or nil when missing.
func (r *Repository) GetVisit(ctx context.Context, id uuid.UUID) (*ServiceVisit, error) {
	visit, err := scanVisit(r.pool.QueryRow(ctx, `SELECT `+visitColumns+` FROM service_visits WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return visit, err
}

// GetVisitDetail returns the visit with its line items and invoice.
func (r *Repository) GetVisitDetail(ctx context.Context, id uuid.UUID) (*VisitDetail, error) {
	visit, err := r.GetVisit(ctx, id)
	if err != nil || visit == nil {
		return nil, err
	}

	billingRepo := billing.NewRepository(r.pool)
	items, err := billingRepo.ListLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoices, err := billingRepo.ListInvoices(ctx, billing.ListInvoicesRequest{VisitID: id, Limit: 1})
	if err != nil {
		return nil, err
	}

	detail := &VisitDetail{ServiceVisit: *visit, Items: items}
	if len(invoices) > 0 {
		detail.Invoice = &invoices[0]
	}
	return detail, nil
}

// ListVisits returns visits matching the filter, newest first.
func (r *Repository) ListVisits(ctx context.Context, req ListVisitsRequest) ([]ServiceVisit, error) {
	var carID *uuid.UUID
	if req.CarID != uuid.Nil {
		carID = &req.CarID
	}
	rows, err := r.pool.Query(ctx, `SELECT `+visitColumns+` FROM service_visits WHERE ($1::uuid IS NULL OR car_id=$1) ORDER BY visit_date DESC, created_at DESC LIMIT $2 OFFSET $3`, carID, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var visits []ServiceVisit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

// UpdateVisit persists visit field changes.
func (r *Repository) UpdateVisit(ctx context.Context, visit *ServiceVisit) error {
	tag, err := r.pool.Exec(ctx, `UPDATE service_visits SET visit_date=$1, odometer_km=$2, reminder_weeks=$3, next_service_due_date=$4, notes=$5, updated_at=$6 WHERE id=$7`,
		visit.VisitDate, visit.OdometerKm, visit.ReminderWeeks, visit.NextServiceDueDate, visit.Notes, visit.UpdatedAt, visit.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}
	return nil
}

// DeleteVisit removes the visit; line items and the invoice cascade by FK.
func (r *Repository) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_visits WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}
	return nil
}

// NextInvoiceNumber produces INV-<year>-<seq> from a dedicated sequence.
func (r *Repository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), seq), nil
}
