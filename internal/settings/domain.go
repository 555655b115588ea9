// Package settings holds the single shop-wide configuration record: shop
// identity, billing defaults and reminder templates.
package settings

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the settings row has not been seeded.
var ErrNotFound = errors.New("settings: not found")

// Settings is the singleton configuration record.
type Settings struct {
	ShopName    string `json:"shop_name"`
	ShopAddress string `json:"shop_address,omitempty"`
	ShopPhone   string `json:"shop_phone,omitempty"`
	ShopEmail   string `json:"shop_email,omitempty"`
	ABN         string `json:"abn,omitempty"`

	DefaultTaxRate        float64 `json:"default_tax_rate"`
	DefaultReminderWeeks  int     `json:"default_reminder_weeks"`
	InvoiceDueDays        int     `json:"invoice_due_days"`
	DefaultPaymentMethod  string  `json:"default_payment_method"`
	ReminderEmailTemplate string  `json:"reminder_email_template,omitempty"`
	ReminderSMSTemplate   string  `json:"reminder_sms_template,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returns a settings record with sensible initial values, used when
// the database has not been seeded yet.
func Defaults() Settings {
	return Settings{
		ShopName:             "AutoworkX",
		DefaultTaxRate:       10,
		DefaultReminderWeeks: 8,
		InvoiceDueDays:       14,
		DefaultPaymentMethod: "Cash",
	}
}

// Repository persists the singleton settings row.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) (Settings, error)
}
