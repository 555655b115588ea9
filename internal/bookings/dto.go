package bookings

// CreateBookingRequest carries a booking form submission. The form accepts
// either JSON or classic form encoding.
type CreateBookingRequest struct {
	Name          string `json:"name" form:"name" validate:"required,min=1,max=200"`
	Phone         string `json:"phone" form:"phone" validate:"required,min=3,max=50"`
	Email         string `json:"email" form:"email" validate:"omitempty,email"`
	RegoPlate     string `json:"rego_plate" form:"rego_plate" validate:"omitempty,max=20"`
	PreferredDate string `json:"preferred_date" form:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
	Message       string `json:"message" form:"message" validate:"omitempty,max=2000"`
}
