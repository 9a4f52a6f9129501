package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/memory"
)

func TestSaveEntry_PairsTransactionWithSpace(t *testing.T) {
	gw := memory.NewGateway()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	s := space.New("lot_1", "A-01", false)
	require.NoError(t, gw.SaveSpace(ctx, s))

	txn := transaction.Open("lot_1", s.ID, s.Number, "ABC-123", pricing.VehicleAuto, false, "", now)
	s.Status = space.StatusOccupied
	s.Occupied = &space.Occupancy{Plate: "ABC-123", EntryTime: now, TransactionID: txn.ID}
	require.NoError(t, gw.SaveEntry(ctx, txn, s))

	stored, err := gw.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusActive, stored.Status)

	sp, err := gw.GetSpace(ctx, "lot_1", "A-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, sp.Status)
}

func TestSaveEntry_InvalidSpaceWritesNothing(t *testing.T) {
	gw := memory.NewGateway()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	s := space.New("lot_1", "A-01", false)
	require.NoError(t, gw.SaveSpace(ctx, s))

	txn := transaction.Open("lot_1", s.ID, s.Number, "ABC-123", pricing.VehicleAuto, false, "", now)
	// Occupied status without occupancy details fails validation; the
	// transaction must not land either.
	s.Status = space.StatusOccupied
	s.Occupied = nil
	require.Error(t, gw.SaveEntry(ctx, txn, s))

	_, err := gw.GetTransaction(ctx, txn.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	sp, err := gw.GetSpace(ctx, "lot_1", "A-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusFree, sp.Status)
}

func TestSaveExit_UnknownTransaction(t *testing.T) {
	gw := memory.NewGateway()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	s := space.New("lot_1", "A-01", false)
	require.NoError(t, gw.SaveSpace(ctx, s))

	txn := transaction.Open("lot_1", s.ID, s.Number, "ABC-123", pricing.VehicleAuto, false, "", now)
	err := gw.SaveExit(ctx, txn, s)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
