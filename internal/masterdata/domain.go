// Package masterdata manages the shop's directory entities: companies,
// customers and cars.
package masterdata

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the entity does not exist.
	ErrNotFound = errors.New("masterdata: not found")
	// ErrDuplicateRego indicates a car with the same rego plate already exists.
	ErrDuplicateRego = errors.New("masterdata: rego plate already registered")
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Search string
	Limit  int
	Offset int

	CompanyID  *uuid.UUID
	CustomerID *uuid.UUID
}

// Company represents a fleet or business account.
type Company struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BillingAddress string    `json:"billing_address,omitempty"`
	PrimaryEmail   string    `json:"primary_email,omitempty"`
	PrimaryPhone   string    `json:"primary_phone,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Customer represents an individual customer, optionally tied to a company.
type Customer struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Car represents a vehicle serviced by the shop.
type Car struct {
	ID          uuid.UUID  `json:"id"`
	RegoPlate   string     `json:"rego_plate"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Make        string     `json:"make,omitempty"`
	Model       string     `json:"model,omitempty"`
	Year        *int       `json:"year,omitempty"`
	VIN         string     `json:"vin,omitempty"`
	DriverName  string     `json:"driver_name,omitempty"`
	DriverPhone string     `json:"driver_phone,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository interface for master data operations.
type Repository interface {
	ListCompanies(ctx context.Context, filters ListFilters) ([]Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	CreateCompany(ctx context.Context, company Company) (Company, error)
	UpdateCompany(ctx context.Context, company Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	ListCustomers(ctx context.Context, filters ListFilters) ([]Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error)
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, customer Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	ListCars(ctx context.Context, filters ListFilters) ([]Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (Car, error)
	CreateCar(ctx context.Context, car Car) (Car, error)
	UpdateCar(ctx context.Context, car Car) error
	DeleteCar(ctx context.Context, id uuid.UUID) error
}
