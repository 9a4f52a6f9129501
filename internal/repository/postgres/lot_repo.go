package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/employee"
	"parqueo-service/internal/domain/lot"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	xerrors "parqueo-service/internal/pkg/errors"
)

// LotLayout is everything seeded alongside a new lot.
type LotLayout struct {
	Spaces          []*space.ParkingSpace
	Pricing         *pricing.Settings
	DefaultEmployee *employee.Employee
}

type LotRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
	spaces    *SpaceRepository
	pricing   *PricingRepository
}

func NewLotRepository(db *pgxpool.Pool, dbWrapper *DB, spaces *SpaceRepository, pricing *PricingRepository) *LotRepository {
	return &LotRepository{db: db, dbWrapper: dbWrapper, spaces: spaces, pricing: pricing}
}

// CreateWithLayout inserts the lot together with its seed spaces and
// default pricing in one transaction, so a half-configured lot can never
// be observed.
func (r *LotRepository) CreateWithLayout(ctx context.Context, l *lot.Lot, layout LotLayout) error {
	tx, err := r.dbWrapper.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO parking_lots (id, owner_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`
	if _, err := tx.Exec(ctx, query, l.ID, l.OwnerID, l.Name, l.Address, l.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert lot: %w", err)
	}
	if err := r.spaces.InsertBatch(ctx, tx, layout.Spaces); err != nil {
		return err
	}
	if err := r.pricing.InsertTx(ctx, tx, layout.Pricing); err != nil {
		return err
	}
	if layout.DefaultEmployee != nil {
		if err := insertEmployeeTx(ctx, tx, layout.DefaultEmployee); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ReplaceSpaces swaps the lot's layout for a fresh one atomically.
func (r *LotRepository) ReplaceSpaces(ctx context.Context, lotID string, spaces []*space.ParkingSpace) error {
	return r.dbWrapper.WithTx(ctx, func(tx pgx.Tx) error {
		return r.spaces.ReplaceAll(ctx, tx, lotID, spaces)
	})
}

func (r *LotRepository) GetByID(ctx context.Context, id string) (*lot.Lot, error) {
	query := `SELECT id, owner_id, name, address, created_at, updated_at FROM parking_lots WHERE id = $1`
	var l lot.Lot
	err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: lot %s", xerrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lot: %w", err)
	}
	return &l, nil
}

func (r *LotRepository) ListByOwner(ctx context.Context, ownerID string) ([]*lot.Lot, error) {
	query := `SELECT id, owner_id, name, address, created_at, updated_at FROM parking_lots WHERE owner_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer rows.Close()

	var out []*lot.Lot
	for rows.Next() {
		var l lot.Lot
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lot row: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *LotRepository) Update(ctx context.Context, l *lot.Lot) error {
	query := `UPDATE parking_lots SET name = $2, address = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, l.ID, l.Name, l.Address, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lot %s", xerrors.ErrNotFound, l.ID)
	}
	return nil
}
