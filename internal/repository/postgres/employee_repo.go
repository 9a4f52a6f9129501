package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/employee"
	xerrors "parqueo-service/internal/pkg/errors"
)

type EmployeeRepository struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, lot_id, name, role, active, created_at, updated_at`

func insertEmployeeTx(ctx context.Context, tx pgx.Tx, e *employee.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	if _, err := tx.Exec(ctx, query, e.ID, e.LotID, e.Name, e.Role, e.Active, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	if _, err := r.db.Exec(ctx, query, e.ID, e.LotID, e.Name, e.Role, e.Active, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	var e employee.Employee
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.LotID, &e.Name, &e.Role, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: employee %s", xerrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) ListByLot(ctx context.Context, lotID string) ([]*employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lot_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []*employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.LotID, &e.Name, &e.Role, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	query := `UPDATE employees SET name = $2, role = $3, active = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, e.ID, e.Name, e.Role, e.Active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: employee %s", xerrors.ErrNotFound, e.ID)
	}
	return nil
}
