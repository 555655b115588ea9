package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository stores the settings singleton in PostgreSQL. The table keeps a
// single row keyed by id = 1.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL settings repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const settingsColumns = `shop_name, shop_address, shop_phone, shop_email, abn,
	default_tax_rate, default_reminder_weeks, invoice_due_days, default_payment_method,
	reminder_email_template, reminder_sms_template, updated_at`

func (r *PgRepository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`).Scan(
		&s.ShopName, &s.ShopAddress, &s.ShopPhone, &s.ShopEmail, &s.ABN,
		&s.DefaultTaxRate, &s.DefaultReminderWeeks, &s.InvoiceDueDays, &s.DefaultPaymentMethod,
		&s.ReminderEmailTemplate, &s.ReminderSMSTemplate, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *PgRepository) Save(ctx context.Context, s Settings) (Settings, error) {
	query := `INSERT INTO settings (id, shop_name, shop_address, shop_phone, shop_email, abn,
			default_tax_rate, default_reminder_weeks, invoice_due_days, default_payment_method,
			reminder_email_template, reminder_sms_template, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (id) DO UPDATE SET
			shop_name = EXCLUDED.shop_name,
			shop_address = EXCLUDED.shop_address,
			shop_phone = EXCLUDED.shop_phone,
			shop_email = EXCLUDED.shop_email,
			abn = EXCLUDED.abn,
			default_tax_rate = EXCLUDED.default_tax_rate,
			default_reminder_weeks = EXCLUDED.default_reminder_weeks,
			invoice_due_days = EXCLUDED.invoice_due_days,
			default_payment_method = EXCLUDED.default_payment_method,
			reminder_email_template = EXCLUDED.reminder_email_template,
			reminder_sms_template = EXCLUDED.reminder_sms_template,
			updated_at = now()
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		s.ShopName, s.ShopAddress, s.ShopPhone, s.ShopEmail, s.ABN,
		s.DefaultTaxRate, s.DefaultReminderWeeks, s.InvoiceDueDays, s.DefaultPaymentMethod,
		s.ReminderEmailTemplate, s.ReminderSMSTemplate,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return s, nil
}
