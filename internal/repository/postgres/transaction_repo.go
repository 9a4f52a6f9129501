package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/transaction"
	xerrors "parqueo-service/internal/pkg/errors"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const txnColumns = `
	id, lot_id, space_id, space_number, vehicle_plate, vehicle_type, is_vip_stay,
	employee_id, customer_id, customer_name,
	entry_time, exit_time, original_fee, discount_percent, final_fee,
	status, created_at`

func (r *TransactionRepository) scanRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := scanner.Scan(
		&t.ID, &t.LotID, &t.SpaceID, &t.SpaceNumber, &t.VehiclePlate, &t.VehicleType, &t.IsVIPStay,
		&t.EmployeeID, &t.CustomerID, &t.CustomerName,
		&t.EntryTime, &t.ExitTime, &t.OriginalFee, &t.DiscountPercent, &t.FinalFee,
		&t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.createIn(ctx, r.db, t)
}

// CreateTx is Create running on the caller's transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *transaction.Transaction) error {
	return r.createIn(ctx, tx, t)
}

func (r *TransactionRepository) createIn(ctx context.Context, ex execer, t *transaction.Transaction) error {
	query := `
		INSERT INTO parking_transactions (` + txnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := ex.Exec(ctx, query,
		t.ID, t.LotID, t.SpaceID, t.SpaceNumber, t.VehiclePlate, t.VehicleType, t.IsVIPStay,
		t.EmployeeID, t.CustomerID, t.CustomerName,
		t.EntryTime, t.ExitTime, t.OriginalFee, t.DiscountPercent, t.FinalFee,
		t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	return r.updateIn(ctx, r.db, t)
}

// UpdateTx is Update running on the caller's transaction.
func (r *TransactionRepository) UpdateTx(ctx context.Context, tx pgx.Tx, t *transaction.Transaction) error {
	return r.updateIn(ctx, tx, t)
}

func (r *TransactionRepository) updateIn(ctx context.Context, ex execer, t *transaction.Transaction) error {
	query := `
		UPDATE parking_transactions SET
			exit_time = $2, original_fee = $3, discount_percent = $4,
			final_fee = $5, status = $6
		WHERE id = $1`
	tag, err := ex.Exec(ctx, query,
		t.ID, t.ExitTime, t.OriginalFee, t.DiscountPercent, t.FinalFee, t.Status)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", xerrors.ErrNotFound, t.ID)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM parking_transactions WHERE id = $1`
	t, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", xerrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// List returns the lot's transactions, newest first, narrowed by the
// optional filter fields. From and To bound the entry time.
func (r *TransactionRepository) List(ctx context.Context, lotID string, filter transaction.HistoryFilter) ([]*transaction.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + txnColumns + ` FROM parking_transactions WHERE lot_id = $1`)
	args := []interface{}{lotID}

	if filter.Plate != "" {
		args = append(args, filter.Plate)
		fmt.Fprintf(&sb, " AND UPPER(vehicle_plate) = UPPER($%d)", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		fmt.Fprintf(&sb, " AND employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, " AND entry_time >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&sb, " AND entry_time < $%d", len(args))
	}
	sb.WriteString(" ORDER BY entry_time DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*transaction.Transaction
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
