package settings

// UpdateRequest carries the writable settings fields.
type UpdateRequest struct {
	ShopName    string `json:"shop_name" validate:"required,min=1,max=200"`
	ShopAddress string `json:"shop_address" validate:"omitempty,max=500"`
	ShopPhone   string `json:"shop_phone" validate:"omitempty,max=50"`
	ShopEmail   string `json:"shop_email" validate:"omitempty,email"`
	ABN         string `json:"abn" validate:"omitempty,max=20"`

	DefaultTaxRate        float64 `json:"default_tax_rate" validate:"gte=0,lte=100"`
	DefaultReminderWeeks  int     `json:"default_reminder_weeks" validate:"gte=0,lte=104"`
	InvoiceDueDays        int     `json:"invoice_due_days" validate:"gte=0,lte=365"`
	DefaultPaymentMethod  string  `json:"default_payment_method" validate:"required,oneof=Cash Card 'Bank Transfer' Cheque Other"`
	ReminderEmailTemplate string  `json:"reminder_email_template" validate:"omitempty,max=5000"`
	ReminderSMSTemplate   string  `json:"reminder_sms_template" validate:"omitempty,max=1000"`
}
