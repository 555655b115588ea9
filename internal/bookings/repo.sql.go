package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL implementation of Repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL bookings repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookingColumns = `id, name, phone, email, rego_plate, preferred_date, message, forward_status, created_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Name, &b.Phone, &b.Email, &b.RegoPlate, &b.PreferredDate, &b.Message, &b.ForwardStatus, &b.CreatedAt)
	return b, err
}

func (r *PgRepository) Create(ctx context.Context, b Booking) (Booking, error) {
	query := `INSERT INTO bookings (id, name, phone, email, rego_plate, preferred_date, message, forward_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		b.ID, b.Name, b.Phone, b.Email, b.RegoPlate, b.PreferredDate, b.Message, b.ForwardStatus,
	).Scan(&b.CreatedAt)
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PgRepository) SetForwardStatus(ctx context.Context, id uuid.UUID, status ForwardStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bookings SET forward_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set forward status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
