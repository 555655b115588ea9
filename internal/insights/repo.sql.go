package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository reads aggregates from PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL insights repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM invoices
		 WHERE status = 'Paid' AND paid_date >= $1 AND paid_date <= $2`,
		from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("paid revenue between: %w", err)
	}
	return total, nil
}

func (r *PgRepository) PaidRevenueAllTime(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'Paid'`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("paid revenue all time: %w", err)
	}
	return total, nil
}

func (r *PgRepository) UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]UpcomingService, error) {
	query := `SELECT v.id, c.id, c.rego_plate,
			COALESCE(cu.full_name, c.driver_name, ''),
			COALESCE(cu.phone, c.driver_phone, ''),
			v.next_service_due_date,
			(v.next_service_due_date - $1::date)
		FROM service_visits v
		JOIN cars c ON c.id = v.car_id
		LEFT JOIN customers cu ON cu.id = c.customer_id
		WHERE v.next_service_due_date IS NOT NULL
		  AND v.next_service_due_date >= $1::date
		  AND v.next_service_due_date <= $1::date + $2
		ORDER BY v.next_service_due_date ASC`
	rows, err := r.pool.Query(ctx, query, asOf, days)
	if err != nil {
		return nil, fmt.Errorf("upcoming services: %w", err)
	}
	defer rows.Close()

	out := make([]UpcomingService, 0)
	for rows.Next() {
		var u UpcomingService
		if err := rows.Scan(&u.VisitID, &u.CarID, &u.RegoPlate, &u.CustomerName, &u.CustomerPhone, &u.DueDate, &u.DaysUntilDue); err != nil {
			return nil, fmt.Errorf("scan upcoming service: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
