package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `id, visit_id, invoice_number, status, subtotal, tax_rate, tax_total, total, due_date, paid_date, payment_method, COALESCE(notes, ''), created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var method *string
	if err := row.Scan(&inv.ID, &inv.VisitID, &inv.Number, &inv.Status, &inv.Subtotal, &inv.TaxRate, &inv.TaxTotal, &inv.Total, &inv.DueDate, &inv.PaidDate, &method, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	if method != nil {
		m := PaymentMethod(*method)
		inv.PaymentMethod = &m
	}
	return &inv, nil
}

// GetInvoice returns a single invoice or nil when missing.
func (r *Repository) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return inv, err
}

// status is an enum column, so the optional filter compares as text.
const listInvoicesQuery = `SELECT ` + invoiceColumns + ` FROM invoices WHERE ($1 = '' OR status::text = $1) AND ($2::uuid IS NULL OR visit_id=$2) ORDER BY created_at DESC LIMIT $3 OFFSET $4`

// ListInvoices returns invoices matching the filter, newest first.
func (r *Repository) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	query := listInvoicesQuery
	var visitID *uuid.UUID
	if req.VisitID != uuid.Nil {
		visitID = &req.VisitID
	}
	rows, err := r.pool.Query(ctx, query, string(req.Status), visitID, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// ListLineItems returns the line items of a visit in display order.
func (r *Repository) ListLineItems(ctx context.Context, visitID uuid.UUID) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, visit_id, name, qty, unit_price, tax_flag, line_total, sort_order, created_at FROM line_items WHERE visit_id=$1 ORDER BY sort_order, created_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.VisitID, &li.Name, &li.Qty, &li.UnitPrice, &li.Taxable, &li.LineTotal, &li.SortOrder, &li.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

// SaveInvoiceStatus persists status and payment metadata.
func (r *Repository) SaveInvoiceStatus(ctx context.Context, inv *Invoice) error {
	var method *string
	if inv.PaymentMethod != nil {
		m := string(*inv.PaymentMethod)
		method = &m
	}
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET status=$1, paid_date=$2, payment_method=$3, updated_at=$4 WHERE id=$5`,
		inv.Status, inv.PaidDate, method, inv.UpdatedAt, inv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// ReplaceLineItems swaps the visit's line item set and updates the invoice
// totals inside one repeatable-read transaction.
func (r *Repository) ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem, totals Totals) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var visitID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT visit_id FROM invoices WHERE id=$1 FOR UPDATE`, invoiceID).Scan(&visitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvoiceNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE visit_id=$1`, visitID); err != nil {
		return err
	}
	for _, li := range items {
		if _, err := tx.Exec(ctx, `INSERT INTO line_items (id, visit_id, name, qty, unit_price, tax_flag, line_total, sort_order, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`, li.ID, visitID, li.Name, li.Qty, li.UnitPrice, li.Taxable, li.LineTotal, li.SortOrder, li.CreatedAt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE invoices SET subtotal=$1, tax_total=$2, total=$3, updated_at=$4 WHERE id=$5`,
		totals.Subtotal, totals.TaxTotal, totals.Total, time.Now(), invoiceID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListUnpaid returns non-Paid invoices joined with visit, car and customer context.
func (r *Repository) ListUnpaid(ctx context.Context, asOf time.Time) ([]UnpaidInvoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT i.id, i.invoice_number, i.visit_id, i.total, i.status, v.visit_date,
c.rego_plate, COALESCE(cu.full_name, ''), COALESCE(co.name, ''),
GREATEST(0, (($1::date) - i.due_date))
FROM invoices i
JOIN service_visits v ON v.id = i.visit_id
JOIN cars c ON c.id = v.car_id
LEFT JOIN customers cu ON cu.id = c.customer_id
LEFT JOIN companies co ON co.id = c.company_id
WHERE i.status <> 'Paid'
ORDER BY i.due_date`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UnpaidInvoice
	for rows.Next() {
		var u UnpaidInvoice
		if err := rows.Scan(&u.InvoiceID, &u.Number, &u.VisitID, &u.Total, &u.Status, &u.VisitDate, &u.RegoPlate, &u.CustomerName, &u.CompanyName, &u.DaysOverdue); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
