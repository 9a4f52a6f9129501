package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/space"
	xerrors "parqueo-service/internal/pkg/errors"
)

// execer is the slice of pgx shared by the pool and a transaction, so
// the write paths can run standalone or inside WithTx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type SpaceRepository struct {
	db *pgxpool.Pool
}

func NewSpaceRepository(db *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{db: db}
}

const spaceColumns = `
	id, lot_id, number, is_vip, status,
	vehicle_plate, entry_time, current_transaction_id,
	reservation_kind, reserved_for, reserved_client_id, reserved_plate,
	reserved_until, reservation_status, maintenance_notes,
	created_at, updated_at`

// scanSpaceRow rebuilds the entity from the flat row. The reservation
// columns are nullable as a set: reservation_kind decides which of them
// carry meaning.
func (r *SpaceRepository) scanSpaceRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*space.ParkingSpace, error) {
	var s space.ParkingSpace
	var plate, txnID, resKind, resFor, resClientID, resPlate, resStatus, notes sql.NullString
	var entryTime, resUntil sql.NullTime

	err := scanner.Scan(
		&s.ID, &s.LotID, &s.Number, &s.IsVIP, &s.Status,
		&plate, &entryTime, &txnID,
		&resKind, &resFor, &resClientID, &resPlate,
		&resUntil, &resStatus, &notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if plate.Valid {
		s.Occupied = &space.Occupancy{
			Plate:         plate.String,
			EntryTime:     entryTime.Time,
			TransactionID: txnID.String,
		}
	}
	if resKind.Valid && resKind.String != "" {
		s.Reservation = space.Reservation{
			Kind:         space.ReservationKind(resKind.String),
			HeldFor:      resFor.String,
			ClientID:     resClientID.String,
			Plate:        resPlate.String,
			Confirmation: space.ConfirmationStatus(resStatus.String),
		}
		if resUntil.Valid {
			s.Reservation.Until = resUntil.Time
		}
	}
	s.MaintenanceNotes = notes.String
	return &s, nil
}

func (r *SpaceRepository) Get(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE lot_id = $1 AND number = $2`
	s, err := r.scanSpaceRow(r.db.QueryRow(ctx, query, lotID, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: space %s in lot %s", xerrors.ErrNotFound, number, lotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return s, nil
}

// Save persists the full record. Every transition writes the complete
// occupancy and reservation column set so no stale sub-state survives.
func (r *SpaceRepository) Save(ctx context.Context, s *space.ParkingSpace) error {
	return r.saveIn(ctx, r.db, s)
}

// SaveTx is Save running on the caller's transaction.
func (r *SpaceRepository) SaveTx(ctx context.Context, tx pgx.Tx, s *space.ParkingSpace) error {
	return r.saveIn(ctx, tx, s)
}

func (r *SpaceRepository) saveIn(ctx context.Context, ex execer, s *space.ParkingSpace) error {
	query := `
		UPDATE parking_spaces SET
			is_vip = $3, status = $4,
			vehicle_plate = $5, entry_time = $6, current_transaction_id = $7,
			reservation_kind = $8, reserved_for = $9, reserved_client_id = $10,
			reserved_plate = $11, reserved_until = $12, reservation_status = $13,
			maintenance_notes = $14, updated_at = $15
		WHERE lot_id = $1 AND number = $2`

	var plate, txnID interface{}
	var entryTime interface{}
	if s.Occupied != nil {
		plate, entryTime, txnID = s.Occupied.Plate, s.Occupied.EntryTime, s.Occupied.TransactionID
	}
	var resUntil interface{}
	if !s.Reservation.Until.IsZero() {
		resUntil = s.Reservation.Until
	}
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tag, err := ex.Exec(ctx, query,
		s.LotID, s.Number,
		s.IsVIP, s.Status,
		plate, entryTime, txnID,
		nullIfEmpty(string(s.Reservation.Kind)), nullIfEmpty(s.Reservation.HeldFor),
		nullIfEmpty(s.Reservation.ClientID), nullIfEmpty(s.Reservation.Plate),
		resUntil, nullIfEmpty(string(s.Reservation.Confirmation)),
		nullIfEmpty(s.MaintenanceNotes), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: space %s in lot %s", xerrors.ErrNotFound, s.Number, s.LotID)
	}
	return nil
}

func (r *SpaceRepository) List(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE lot_id = $1 ORDER BY number`
	rows, err := r.db.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	var out []*space.ParkingSpace
	for rows.Next() {
		s, err := r.scanSpaceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByClient returns every space, across all lots, holding a client
// reservation for the given client.
func (r *SpaceRepository) ListByClient(ctx context.Context, clientID string) ([]*space.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces
		WHERE reserved_client_id = $1 ORDER BY lot_id, number`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client spaces: %w", err)
	}
	defer rows.Close()

	var out []*space.ParkingSpace
	for rows.Next() {
		s, err := r.scanSpaceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceAll drops the lot's current layout and inserts the new one.
// Runs inside the caller's transaction so a partial rebuild never lands.
func (r *SpaceRepository) ReplaceAll(ctx context.Context, tx pgx.Tx, lotID string, spaces []*space.ParkingSpace) error {
	if _, err := tx.Exec(ctx, `DELETE FROM parking_spaces WHERE lot_id = $1`, lotID); err != nil {
		return fmt.Errorf("failed to clear lot layout: %w", err)
	}
	return r.InsertBatch(ctx, tx, spaces)
}

// InsertBatch creates the seed layout inside the lot-creation transaction.
func (r *SpaceRepository) InsertBatch(ctx context.Context, tx pgx.Tx, spaces []*space.ParkingSpace) error {
	query := `
		INSERT INTO parking_spaces (id, lot_id, number, is_vip, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	now := time.Now()
	for _, s := range spaces {
		if _, err := tx.Exec(ctx, query, s.ID, s.LotID, s.Number, s.IsVIP, s.Status, now); err != nil {
			return fmt.Errorf("failed to insert space %s: %w", s.Number, err)
		}
	}
	return nil
}

func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
