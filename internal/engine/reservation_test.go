package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parqueo-service/internal/domain/space"
	xerrors "parqueo-service/internal/pkg/errors"
)

func TestRequestClientReservation_PrefersRegularSpaces(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "A-01", s.Number)
	assert.False(t, s.IsVIP)
	assert.Equal(t, space.ReservationClient, s.Reservation.Kind)
	assert.Equal(t, space.ConfirmationPending, s.Reservation.Confirmation)
	assert.Equal(t, "cust_1", s.Reservation.ClientID)
	assert.Equal(t, "ABC-123", s.Reservation.Plate)

	// The hold runs to the end of the request day.
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC), s.Reservation.Until)
	assert.True(t, s.Reservation.Until.After(clock.t))
}

func TestRequestClientReservation_NormalizesPlate(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s, err := e.RequestClientReservation(context.Background(), testLot, "cust_1", " abc-123 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", s.Reservation.Plate)
}

func TestRequestClientReservation_FallsBackToVIP(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	// Fill every regular space.
	for i, n := range []string{"A-01", "A-02", "A-03"} {
		_, _, err := e.RegisterEntry(ctx, testLot, n, autoEntry(plateFor(i)))
		require.NoError(t, err)
	}

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "V-01", s.Number)
	assert.True(t, s.IsVIP)
}

func plateFor(i int) string { return string(rune('P'+i)) + "-100" }

func TestRequestClientReservation_NoAvailability(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i, n := range []string{"A-01", "A-02", "A-03", "V-01"} {
		_, _, err := e.RegisterEntry(ctx, testLot, n, autoEntry(plateFor(i)))
		require.NoError(t, err)
	}

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	assert.ErrorIs(t, err, xerrors.ErrNoAvailability)
}

func TestRequestClientReservation_SkipsHeldSpaces(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)
	assert.Equal(t, "A-01", first.Number)

	// A rejected hold still excludes the space from new requests.
	_, err = e.RejectClientReservation(ctx, testLot, "A-01")
	require.NoError(t, err)

	second, err := e.RequestClientReservation(ctx, testLot, "cust_2", "BBB-222")
	require.NoError(t, err)
	assert.Equal(t, "A-02", second.Number)
}

func TestAcceptClientReservation(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	s, err = e.AcceptClientReservation(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.Equal(t, space.ConfirmationConfirmed, s.Reservation.Confirmation)

	// Confirmed space admits the reserved vehicle without an override.
	_, occupied, err := e.RegisterEntry(ctx, testLot, s.Number, autoEntry("ABC-123"))
	require.NoError(t, err)
	assert.Equal(t, space.StatusOccupied, occupied.Status)
	assert.False(t, occupied.Reservation.Active())

	stored, err := gw.GetSpace(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.False(t, stored.Reservation.Active())
}

func TestAcceptClientReservation_Expired(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	clock.advance(24 * time.Hour)
	_, err = e.AcceptClientReservation(ctx, testLot, s.Number)
	assert.ErrorIs(t, err, xerrors.ErrExpired)
}

func TestAcceptClientReservation_NoPendingRequest(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.AcceptClientReservation(context.Background(), testLot, "A-01")
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestRejectClientReservation_RetainsIdentity(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	s, err = e.RejectClientReservation(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.Equal(t, space.ConfirmationRejected, s.Reservation.Confirmation)
	assert.Equal(t, "cust_1", s.Reservation.ClientID)
	assert.Equal(t, "ABC-123", s.Reservation.Plate)
	assert.True(t, s.Reservation.Active())

	view := space.ToView(s)
	assert.True(t, view.IsReserved)
	assert.Equal(t, "REJECTED_BY_OWNER", view.ClientReservationStatus)

	// The client cannot cancel after a rejection; staff must release it.
	_, err = e.CancelClientReservation(ctx, testLot, s.Number, "cust_1")
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	released, err := e.ClearReservation(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.False(t, released.Reservation.Active())

	stored, err := gw.GetSpace(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.True(t, stored.BookableForClients())
}

func TestCancelClientReservation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	// Only the owning client may cancel.
	_, err = e.CancelClientReservation(ctx, testLot, s.Number, "cust_2")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	s, err = e.CancelClientReservation(ctx, testLot, s.Number, "cust_1")
	require.NoError(t, err)
	assert.False(t, s.Reservation.Active())
}

func TestSetManualReservation_Validation(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SetManualReservation(ctx, testLot, "A-01", "", nil)
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	past := clock.t.Add(-time.Minute)
	_, err = e.SetManualReservation(ctx, testLot, "A-01", "RES-777", &past)
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = e.SetManualReservation(ctx, testLot, "A-01", "RES-777", &clock.t)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestSetManualReservation_DisplacesClientHold(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	// Staff take precedence: the hold changes hands and the client
	// identity is gone.
	s, err = e.SetManualReservation(ctx, testLot, s.Number, "RES-777", nil)
	require.NoError(t, err)
	assert.Equal(t, space.ReservationManual, s.Reservation.Kind)
	assert.Equal(t, "RES-777", s.Reservation.HeldFor)
	assert.Empty(t, s.Reservation.ClientID)
	assert.Empty(t, s.Reservation.Plate)
	assert.Empty(t, s.Reservation.Confirmation)

	stored, err := gw.GetSpace(ctx, testLot, s.Number)
	require.NoError(t, err)
	assert.Equal(t, space.ReservationManual, stored.Reservation.Kind)

	mine, err := e.ListClientReservations(ctx, "cust_1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSetMaintenance_ClearsReservation(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	// Maintenance takes precedence over any hold.
	s, err := e.SetMaintenance(ctx, testLot, "A-01", "repaint lines")
	require.NoError(t, err)
	assert.Equal(t, space.StatusMaintenance, s.Status)
	assert.False(t, s.Reservation.Active())

	stored, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.False(t, stored.Reservation.Active())
}

func TestListPendingReservations(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)
	s2, err := e.RequestClientReservation(ctx, testLot, "cust_2", "BBB-222")
	require.NoError(t, err)
	_, err = e.AcceptClientReservation(ctx, testLot, s2.Number)
	require.NoError(t, err)

	pending, err := e.ListPendingReservations(ctx, testLot)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "cust_1", pending[0].Reservation.ClientID)
}

func TestListPendingReservations_SkipsExpired(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)

	clock.advance(24 * time.Hour)
	pending, err := e.ListPendingReservations(ctx, testLot)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListClientReservations(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	s, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)
	_, err = e.RejectClientReservation(ctx, testLot, s.Number)
	require.NoError(t, err)

	mine, err := e.ListClientReservations(ctx, "cust_1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, space.ConfirmationRejected, mine[0].Reservation.Confirmation)

	others, err := e.ListClientReservations(ctx, "cust_2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestListClientReservations_SpansLots(t *testing.T) {
	e, gw, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, gw.SaveSpace(ctx, space.New("lot_other", "B-01", false)))

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)
	_, err = e.RequestClientReservation(ctx, "lot_other", "cust_1", "AAA-111")
	require.NoError(t, err)

	mine, err := e.ListClientReservations(ctx, "cust_1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestListClientReservations_SkipsExpired(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "AAA-111")
	require.NoError(t, err)

	clock.advance(24 * time.Hour)
	mine, err := e.ListClientReservations(ctx, "cust_1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestReservationSurvivesUnrelatedExit(t *testing.T) {
	e, gw, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.RequestClientReservation(ctx, testLot, "cust_1", "ABC-123")
	require.NoError(t, err)

	_, _, err = e.RegisterEntry(ctx, testLot, "A-02", autoEntry("XYZ-999"))
	require.NoError(t, err)
	clock.advance(time.Hour)
	_, _, err = e.RegisterExit(ctx, testLot, "A-02", "", 0)
	require.NoError(t, err)

	s, err := gw.GetSpace(ctx, testLot, "A-01")
	require.NoError(t, err)
	assert.True(t, s.Reservation.Active())
}
