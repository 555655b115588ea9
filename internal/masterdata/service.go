package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service wraps master data operations with normalization rules.
type Service struct {
	repo Repository
}

// NewService constructs a master data service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func clampLimit(filters *ListFilters) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
}

func (s *Service) ListCompanies(ctx context.Context, filters ListFilters) ([]Company, error) {
	clampLimit(&filters)
	return s.repo.ListCompanies(ctx, filters)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) CreateCompany(ctx context.Context, req CompanyRequest) (Company, error) {
	company := Company{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		BillingAddress: strings.TrimSpace(req.BillingAddress),
		PrimaryEmail:   strings.ToLower(strings.TrimSpace(req.PrimaryEmail)),
		PrimaryPhone:   strings.TrimSpace(req.PrimaryPhone),
		Notes:          strings.TrimSpace(req.Notes),
	}
	return s.repo.CreateCompany(ctx, company)
}

func (s *Service) UpdateCompany(ctx context.Context, id uuid.UUID, req CompanyRequest) (Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return Company{}, err
	}
	company.Name = strings.TrimSpace(req.Name)
	company.BillingAddress = strings.TrimSpace(req.BillingAddress)
	company.PrimaryEmail = strings.ToLower(strings.TrimSpace(req.PrimaryEmail))
	company.PrimaryPhone = strings.TrimSpace(req.PrimaryPhone)
	company.Notes = strings.TrimSpace(req.Notes)
	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCompany(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, filters ListFilters) ([]Customer, error) {
	clampLimit(&filters)
	return s.repo.ListCustomers(ctx, filters)
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, req CustomerRequest) (Customer, error) {
	customer := Customer{
		ID:        uuid.New(),
		FullName:  strings.TrimSpace(req.FullName),
		CompanyID: parseOptionalUUID(req.CompanyID),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     strings.TrimSpace(req.Notes),
	}
	return s.repo.CreateCustomer(ctx, customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, req CustomerRequest) (Customer, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	customer.FullName = strings.TrimSpace(req.FullName)
	customer.CompanyID = parseOptionalUUID(req.CompanyID)
	customer.Email = strings.ToLower(strings.TrimSpace(req.Email))
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Notes = strings.TrimSpace(req.Notes)
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCustomer(ctx, id)
}

func (s *Service) ListCars(ctx context.Context, filters ListFilters) ([]Car, error) {
	clampLimit(&filters)
	return s.repo.ListCars(ctx, filters)
}

func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (Car, error) {
	return s.repo.GetCar(ctx, id)
}

func (s *Service) CreateCar(ctx context.Context, req CarRequest) (Car, error) {
	car := Car{
		ID:          uuid.New(),
		RegoPlate:   NormalizeRego(req.RegoPlate),
		CustomerID:  parseOptionalUUID(req.CustomerID),
		CompanyID:   parseOptionalUUID(req.CompanyID),
		Make:        strings.TrimSpace(req.Make),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		VIN:         strings.ToUpper(strings.TrimSpace(req.VIN)),
		DriverName:  strings.TrimSpace(req.DriverName),
		DriverPhone: strings.TrimSpace(req.DriverPhone),
		Notes:       strings.TrimSpace(req.Notes),
	}
	return s.repo.CreateCar(ctx, car)
}

func (s *Service) UpdateCar(ctx context.Context, id uuid.UUID, req CarRequest) (Car, error) {
	car, err := s.repo.GetCar(ctx, id)
	if err != nil {
		return Car{}, err
	}
	car.RegoPlate = NormalizeRego(req.RegoPlate)
	car.CustomerID = parseOptionalUUID(req.CustomerID)
	car.CompanyID = parseOptionalUUID(req.CompanyID)
	car.Make = strings.TrimSpace(req.Make)
	car.Model = strings.TrimSpace(req.Model)
	car.Year = req.Year
	car.VIN = strings.ToUpper(strings.TrimSpace(req.VIN))
	car.DriverName = strings.TrimSpace(req.DriverName)
	car.DriverPhone = strings.TrimSpace(req.DriverPhone)
	car.Notes = strings.TrimSpace(req.Notes)
	if err := s.repo.UpdateCar(ctx, car); err != nil {
		return Car{}, err
	}
	return car, nil
}

func (s *Service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCar(ctx, id)
}

// NormalizeRego uppercases a rego plate and strips surrounding whitespace.
func NormalizeRego(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func parseOptionalUUID(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}
