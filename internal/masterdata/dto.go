package masterdata

// CompanyRequest carries the writable fields of a company.
type CompanyRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	BillingAddress string `json:"billing_address" validate:"omitempty,max=500"`
	PrimaryEmail   string `json:"primary_email" validate:"omitempty,email"`
	PrimaryPhone   string `json:"primary_phone" validate:"omitempty,max=50"`
	Notes          string `json:"notes" validate:"omitempty,max=2000"`
}

// CustomerRequest carries the writable fields of a customer.
type CustomerRequest struct {
	FullName  string  `json:"full_name" validate:"required,min=1,max=200"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid4"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"omitempty,max=50"`
	Notes     string  `json:"notes" validate:"omitempty,max=2000"`
}

// CarRequest carries the writable fields of a car.
type CarRequest struct {
	RegoPlate   string  `json:"rego_plate" validate:"required,min=1,max=20"`
	CustomerID  *string `json:"customer_id" validate:"omitempty,uuid4"`
	CompanyID   *string `json:"company_id" validate:"omitempty,uuid4"`
	Make        string  `json:"make" validate:"omitempty,max=100"`
	Model       string  `json:"model" validate:"omitempty,max=100"`
	Year        *int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	VIN         string  `json:"vin" validate:"omitempty,max=30"`
	DriverName  string  `json:"driver_name" validate:"omitempty,max=200"`
	DriverPhone string  `json:"driver_phone" validate:"omitempty,max=50"`
	Notes       string  `json:"notes" validate:"omitempty,max=2000"`
}
