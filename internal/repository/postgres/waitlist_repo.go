package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/waitlist"
	xerrors "parqueo-service/internal/pkg/errors"
)

type WaitlistRepository struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

const waitlistColumns = `id, lot_id, client_id, vehicle_plate, status, created_at, updated_at`

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	query := `
		INSERT INTO waiting_list (` + waitlistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	if _, err := r.db.Exec(ctx, query, e.ID, e.LotID, e.ClientID, e.VehiclePlate, e.Status, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to create waiting list entry: %w", err)
	}
	return nil
}

// NextWaiting returns the oldest entry still waiting for the lot.
func (r *WaitlistRepository) NextWaiting(ctx context.Context, lotID string) (*waitlist.Entry, error) {
	query := `
		SELECT ` + waitlistColumns + ` FROM waiting_list
		WHERE lot_id = $1 AND status = $2
		ORDER BY created_at LIMIT 1`
	var e waitlist.Entry
	err := r.db.QueryRow(ctx, query, lotID, waitlist.StatusWaiting).
		Scan(&e.ID, &e.LotID, &e.ClientID, &e.VehiclePlate, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: waiting list for lot %s is empty", xerrors.ErrNotFound, lotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next waiting entry: %w", err)
	}
	return &e, nil
}

func (r *WaitlistRepository) ListByLot(ctx context.Context, lotID string) ([]*waitlist.Entry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waiting_list WHERE lot_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting list: %w", err)
	}
	defer rows.Close()

	var out []*waitlist.Entry
	for rows.Next() {
		var e waitlist.Entry
		if err := rows.Scan(&e.ID, &e.LotID, &e.ClientID, &e.VehiclePlate, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waiting list row: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *WaitlistRepository) UpdateStatus(ctx context.Context, id string, status waitlist.Status) error {
	query := `UPDATE waiting_list SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update waiting list entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: waiting list entry %s", xerrors.ErrNotFound, id)
	}
	return nil
}
