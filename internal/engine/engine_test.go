package engine_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parqueo-service/internal/domain/customer"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/engine"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/memory"
)

const testLot = "lot_test"

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestEngine seeds a lot with three regular spaces and one VIP space
// plus default pricing, and returns a clock pinned to mid-morning.
func newTestEngine(t *testing.T) (*engine.Engine, *memory.Gateway, *fixedClock) {
	t.Helper()
	gw := memory.NewGateway()
	ctx := context.Background()

	for _, n := range []string{"A-01", "A-02", "A-03"} {
		require.NoError(t, gw.SaveSpace(ctx, space.New(testLot, n, false)))
	}
	require.NoError(t, gw.SaveSpace(ctx, space.New(testLot, "V-01", true)))

	settings := pricing.DefaultSettings()
	settings.LotID = testLot
	require.NoError(t, gw.SavePricing(ctx, settings))

	clock := &fixedClock{t: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}
	return engine.New(gw, clock, zap.NewNop()), gw, clock
}

func autoEntry(plate string) engine.EntryParams {
	return engine.EntryParams{Plate: plate, VehicleType: pricing.VehicleAuto}
}

func TestRegisterEntry(t *testing.T) {
	e, gw, clock := newTestEngine(t)
	ctx := context.Background()

	params := autoEntry("ABC-123")
	params.EmployeeID = "emp_1"
	txn, s, err := e.RegisterEntry(ctx, testLot, "A-01", params)
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
	require.NotNil(t, s.Occupied)
	assert.Equal(t, "ABC-123", s.Occupied.Plate)
	assert.Equal(t, txn.ID, s.Occupied.TransactionID)
	assert.Equal(t, clock.t, txn.EntryTime)
	assert.Equal(t, pricing.VehicleAuto, txn.VehicleType)
	assert.Equal(t, "emp_1", txn.EmployeeID.String)
	assert.False(t, txn.IsVIPStay)

	// Double entry on the same space fails and leaves state untouched.
	_, _, err = e.RegisterEntry(ctx, testLot, "A-01", autoEntry("XYZ-999"))
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	stored, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", stored.Occupied.Plate)
}

func TestRegisterEntry_NormalizesPlate(t *testing.T) {
	e, _, _ := newTestEngine(t)

	txn, s, err := e.RegisterEntry(context.Background(), testLot, "A-01", autoEntry("  abc-123 "))
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", txn.VehiclePlate)
	assert.Equal(t, "ABC-123", s.Occupied.Plate)
}

func TestRegisterEntry_UnknownVehicleType(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, _, err := e.RegisterEntry(context.Background(), testLot, "A-01", engine.EntryParams{
		Plate:       "ABC-123",
		VehicleType: pricing.VehicleType("Bicicleta"),
	})
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestRegisterEntry_VIPSpaceMarksStay(t *testing.T) {
	e, _, _ := newTestEngine(t)
	txn, _, err := e.RegisterEntry(context.Background(), testLot, "V-01", autoEntry("VIP-001"))
	require.NoError(t, err)
	assert.True(t, txn.IsVIPStay)
}

func TestRegisterEntry_AttachesRegisteredCustomer(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, gw.SaveCustomer(ctx, &customer.Customer{
		ID:     "cust_9",
		Name:   "Maria",
		Plates: []string{"abc-123"},
	}))

	// The plate on record differs in case; the stay still lands on Maria.
	txn, _, err := e.RegisterEntry(ctx, testLot, "A-01", autoEntry("ABC-123"))
	require.NoError(t, err)
	assert.Equal(t, "cust_9", txn.CustomerID.String)
	assert.Equal(t, "Maria", txn.CustomerName.String)
}

func TestRegisterEntry_PendingRequestBlocksEvenWithOverride(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	params := autoEntry("OTHER-1")
	params.ConfirmOverride = true
	_, _, err = e.RegisterEntry(ctx, testLot, "A-01", params)
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestRegisterEntry_ExpiredPendingRequestStillBlocks(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	// Past end of day the request is stale, but the owner never decided
	// on it: the space stays blocked until staff clear the hold.
	clock.advance(24 * time.Hour)
	_, _, err = e.RegisterEntry(ctx, testLot, "A-01", autoEntry("OTHER-1"))
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestRegisterEntry_ReservedForOtherVehicle(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SetManualReservation(ctx, testLot, "A-02", "RES-777", nil)
	require.NoError(t, err)

	// Mismatched plate needs explicit override.
	_, _, err = e.RegisterEntry(ctx, testLot, "A-02", autoEntry("OTHER-1"))
	assert.ErrorIs(t, err, xerrors.ErrOverrideRequired)
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	// With confirmation the entry proceeds and the hold is cleared.
	params := autoEntry("OTHER-1")
	params.ConfirmOverride = true
	_, s, err := e.RegisterEntry(ctx, testLot, "A-02", params)
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
	assert.False(t, s.Reservation.Active())

	stored, err := gw.GetSpace(ctx, testLot, "A-02")
	require.NoError(t, err)
	assert.False(t, stored.Reservation.Active())
}

func TestRegisterEntry_MatchingPlateNeedsNoOverride(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SetManualReservation(ctx, testLot, "A-02", "RES-777", nil)
	require.NoError(t, err)

	// The gate may type the plate in any case.
	_, s, err := e.RegisterEntry(ctx, testLot, "A-02", autoEntry("res-777"))
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
}

func TestRegisterEntry_ExpiredManualHoldDoesNotBlock(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	until := clock.t.Add(time.Hour)
	_, err := e.SetManualReservation(ctx, testLot, "A-02", "RES-777", &until)
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	_, s, err := e.RegisterEntry(ctx, testLot, "A-02", autoEntry("OTHER-1"))
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
	assert.False(t, s.Reservation.Active())
}

func TestRegisterExit(t *testing.T) {
	e, gw, clock := newTestEngine(t)
	ctx := context.Background()

	_, _, err := e.RegisterEntry(ctx, testLot, "A-01", autoEntry("ABC-123"))
	require.NoError(t, err)

	clock.advance(90 * time.Minute)
	txn, breakdown, err := e.RegisterExit(ctx, testLot, "A-01", "", 0)
	require.NoError(t, err)

	assert.Equal(t, 90, breakdown.BilledMinutes)
	assert.Equal(t, 45.0, breakdown.OriginalFee)
	assert.Equal(t, 45.0, breakdown.FinalFee)
	assert.True(t, txn.FinalFee.Valid)
	assert.Equal(t, 45.0, txn.FinalFee.Float64)
	assert.True(t, txn.ExitTime.Valid)

	s, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusFree, s.Status)
	assert.Nil(t, s.Occupied)
}

func TestRegisterExit_PricedFromTypeRecordedAtEntry(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	params := engine.EntryParams{Plate: "TRK-001", VehicleType: pricing.VehicleCamioneta}
	_, _, err := e.RegisterEntry(ctx, testLot, "A-01", params)
	require.NoError(t, err)

	clock.advance(90 * time.Minute)
	_, breakdown, err := e.RegisterExit(ctx, testLot, "A-01", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 63.0, breakdown.OriginalFee)
}

func TestRegisterExit_WithDiscountCode(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, _, err := e.RegisterEntry(ctx, testLot, "A-01", autoEntry("ABC-123"))
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	// The code wins over the manual percentage supplied alongside it.
	_, breakdown, err := e.RegisterExit(ctx, testLot, "A-01", "SAVE20", 50)
	require.NoError(t, err)
	assert.Equal(t, 60.0, breakdown.OriginalFee)
	assert.Equal(t, 20.0, breakdown.DiscountPercent)
	assert.Equal(t, 48.0, breakdown.FinalFee)
}

func TestRegisterExit_UnknownCodeLeavesStayOpen(t *testing.T) {
	e, gw, clock := newTestEngine(t)
	ctx := context.Background()

	_, _, err := e.RegisterEntry(ctx, testLot, "A-01", autoEntry("ABC-123"))
	require.NoError(t, err)
	clock.advance(30 * time.Minute)

	_, _, err = e.RegisterExit(ctx, testLot, "A-01", "BOGUS", 0)
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	s, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
}

func TestRegisterExit_EmptySpace(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, _, err := e.RegisterExit(context.Background(), testLot, "A-01", "", 0)
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestPreviewFee(t *testing.T) {
	e, gw, clock := newTestEngine(t)
	ctx := context.Background()

	_, _, err := e.RegisterEntry(ctx, testLot, "V-01", autoEntry("VIP-001"))
	require.NoError(t, err)
	clock.advance(90 * time.Minute)

	breakdown, err := e.PreviewFee(ctx, testLot, "V-01", "NITU10", 0)
	require.NoError(t, err)
	assert.Equal(t, 67.5, breakdown.OriginalFee)
	assert.Equal(t, 60.75, breakdown.FinalFee)

	// Preview never mutates the stay.
	s, err := gw.GetSpace(ctx, testLot, "V-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
}

func TestSetMaintenance(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.SetMaintenance(ctx, testLot, "A-03", "broken barrier")
	require.NoError(t, err)
	assert.Equal(t, space.StatusMaintenance, s.Status)
	assert.Equal(t, "broken barrier", s.MaintenanceNotes)

	_, _, err = e.RegisterEntry(ctx, testLot, "A-03", autoEntry("ABC-123"))
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	s, err = e.ClearMaintenance(ctx, testLot, "A-03")
	require.NoError(t, err)
	assert.Equal(t, space.StatusFree, s.Status)
	assert.Empty(t, s.MaintenanceNotes)
}

func TestConcurrentEntriesOnOneSpace(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	var admitted int32
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := e.RegisterEntry(ctx, testLot, "A-01", autoEntry(fmt.Sprintf("CAR-%03d", i))); err == nil {
				atomic.AddInt32(&admitted, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted)
	s, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, s.Status)
}
