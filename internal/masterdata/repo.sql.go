package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL implementation of Repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL master data repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const companyColumns = `id, name, billing_address, primary_email, primary_phone, notes, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.BillingAddress, &c.PrimaryEmail, &c.PrimaryPhone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PgRepository) ListCompanies(ctx context.Context, filters ListFilters) ([]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, filters.Search, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *PgRepository) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (r *PgRepository) CreateCompany(ctx context.Context, company Company) (Company, error) {
	query := `INSERT INTO companies (id, name, billing_address, primary_email, primary_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		company.ID, company.Name, company.BillingAddress, company.PrimaryEmail, company.PrimaryPhone, company.Notes,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return Company{}, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

func (r *PgRepository) UpdateCompany(ctx context.Context, company Company) error {
	query := `UPDATE companies
		SET name = $2, billing_address = $3, primary_email = $4, primary_phone = $5, notes = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.BillingAddress, company.PrimaryEmail, company.PrimaryPhone, company.Notes)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const customerColumns = `id, full_name, company_id, email, phone, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.FullName, &c.CompanyID, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PgRepository) ListCustomers(ctx context.Context, filters ListFilters) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR company_id = $2)
		ORDER BY full_name ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, filters.Search, filters.CompanyID, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PgRepository) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *PgRepository) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	query := `INSERT INTO customers (id, full_name, company_id, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		customer.ID, customer.FullName, customer.CompanyID, customer.Email, customer.Phone, customer.Notes,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return Customer{}, mapFKError(err, "create customer")
	}
	return customer, nil
}

func (r *PgRepository) UpdateCustomer(ctx context.Context, customer Customer) error {
	query := `UPDATE customers
		SET full_name = $2, company_id = $3, email = $4, phone = $5, notes = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		customer.ID, customer.FullName, customer.CompanyID, customer.Email, customer.Phone, customer.Notes)
	if err != nil {
		return mapFKError(err, "update customer")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const carColumns = `id, rego_plate, customer_id, company_id, make, model, year, vin, driver_name, driver_phone, notes, created_at, updated_at`

func scanCar(row pgx.Row) (Car, error) {
	var c Car
	err := row.Scan(&c.ID, &c.RegoPlate, &c.CustomerID, &c.CompanyID, &c.Make, &c.Model, &c.Year, &c.VIN,
		&c.DriverName, &c.DriverPhone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PgRepository) ListCars(ctx context.Context, filters ListFilters) ([]Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars
		WHERE ($1 = '' OR rego_plate ILIKE '%' || $1 || '%' OR make ILIKE '%' || $1 || '%' OR model ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR customer_id = $2)
		  AND ($3::uuid IS NULL OR company_id = $3)
		ORDER BY rego_plate ASC
		LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, query, filters.Search, filters.CustomerID, filters.CompanyID, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *PgRepository) GetCar(ctx context.Context, id uuid.UUID) (Car, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	c, err := scanCar(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrNotFound
	}
	return c, err
}

func (r *PgRepository) CreateCar(ctx context.Context, car Car) (Car, error) {
	query := `INSERT INTO cars (id, rego_plate, customer_id, company_id, make, model, year, vin, driver_name, driver_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		car.ID, car.RegoPlate, car.CustomerID, car.CompanyID, car.Make, car.Model, car.Year, car.VIN,
		car.DriverName, car.DriverPhone, car.Notes,
	).Scan(&car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return Car{}, mapCarError(err, "create car")
	}
	return car, nil
}

func (r *PgRepository) UpdateCar(ctx context.Context, car Car) error {
	query := `UPDATE cars
		SET rego_plate = $2, customer_id = $3, company_id = $4, make = $5, model = $6, year = $7,
		    vin = $8, driver_name = $9, driver_phone = $10, notes = $11, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		car.ID, car.RegoPlate, car.CustomerID, car.CompanyID, car.Make, car.Model, car.Year, car.VIN,
		car.DriverName, car.DriverPhone, car.Notes)
	if err != nil {
		return mapCarError(err, "update car")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) DeleteCar(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapCarError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.ConstraintName == "cars_rego_plate_key" {
			return ErrDuplicateRego
		}
	}
	return mapFKError(err, op)
}

func mapFKError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
