package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"parqueo-service/internal/domain/customer"
	xerrors "parqueo-service/internal/pkg/errors"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, email, phone, plates, created_at, updated_at`

func (r *CustomerRepository) scanRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*customer.Customer, error) {
	var c customer.Customer
	var plates []string
	err := scanner.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, pq.Array(&plates), &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Plates = plates
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, pq.Array(c.Plates), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer %s", xerrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `UPDATE customers SET name = $2, email = $3, phone = $4, plates = $5, updated_at = $6 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, pq.Array(c.Plates), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s", xerrors.ErrNotFound, c.ID)
	}
	return nil
}

// FindByPlate returns the customer a plate is registered to, if any.
// Matching ignores case on both sides.
func (r *CustomerRepository) FindByPlate(ctx context.Context, plate string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE $1 ILIKE ANY(plates)`
	c, err := r.scanRow(r.db.QueryRow(ctx, query, plate))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no customer with plate %s", xerrors.ErrNotFound, plate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by plate: %w", err)
	}
	return c, nil
}
