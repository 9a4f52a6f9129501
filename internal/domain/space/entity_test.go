package space

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "parqueo-service/internal/pkg/errors"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(s *ParkingSpace)
		wantErr bool
	}{
		{"new space is valid", func(s *ParkingSpace) {}, false},
		{
			"occupied with vehicle details",
			func(s *ParkingSpace) {
				s.Status = StatusOccupied
				s.Occupied = &Occupancy{Plate: "ABC-123", EntryTime: now, TransactionID: "txn_1"}
			},
			false,
		},
		{
			"occupied without vehicle details",
			func(s *ParkingSpace) { s.Status = StatusOccupied },
			true,
		},
		{
			"occupied cannot carry a hold",
			func(s *ParkingSpace) {
				s.Status = StatusOccupied
				s.Occupied = &Occupancy{Plate: "ABC-123", EntryTime: now, TransactionID: "txn_1"}
				s.Reservation = Reservation{Kind: ReservationManual, HeldFor: "X"}
			},
			true,
		},
		{
			"maintenance cannot carry a hold",
			func(s *ParkingSpace) {
				s.Status = StatusMaintenance
				s.Reservation = Reservation{Kind: ReservationManual, HeldFor: "X"}
			},
			true,
		},
		{
			"free with manual hold",
			func(s *ParkingSpace) {
				s.Reservation = Reservation{Kind: ReservationManual, HeldFor: "RES-777", Until: now}
			},
			false,
		},
		{
			"client hold needs confirmation status",
			func(s *ParkingSpace) {
				s.Reservation = Reservation{Kind: ReservationClient, ClientID: "cust_1"}
			},
			true,
		},
		{
			"rejected client hold is legal",
			func(s *ParkingSpace) {
				s.Reservation = Reservation{
					Kind: ReservationClient, ClientID: "cust_1", Plate: "ABC-123",
					Until: now, Confirmation: ConfirmationRejected,
				}
			},
			false,
		},
		{
			"manual hold cannot carry confirmation status",
			func(s *ParkingSpace) {
				s.Reservation = Reservation{Kind: ReservationManual, HeldFor: "X", Confirmation: ConfirmationPending}
			},
			true,
		},
		{
			"unknown status rejected",
			func(s *ParkingSpace) { s.Status = Status("weird") },
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("lot_1", "01", false)
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, xerrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookableForClients(t *testing.T) {
	s := New("lot_1", "01", false)
	assert.True(t, s.BookableForClients())

	s.Reservation = Reservation{Kind: ReservationClient, ClientID: "cust_1", Confirmation: ConfirmationRejected}
	assert.False(t, s.BookableForClients())

	s.ClearReservation()
	s.Status = StatusMaintenance
	assert.False(t, s.BookableForClients())
}

func TestDecodeReservedFor(t *testing.T) {
	assert.Equal(t, ReservationNone, DecodeReservedFor(""))
	assert.Equal(t, ReservationClient, DecodeReservedFor("client_abc123"))
	assert.Equal(t, ReservationManual, DecodeReservedFor("ABC-123"))
}

func TestToView_FlattensClientHold(t *testing.T) {
	until := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	s := New("lot_1", "07", true)
	s.Reservation = Reservation{
		Kind: ReservationClient, ClientID: "cust_1", Plate: "ABC-123",
		Until: until, Confirmation: ConfirmationConfirmed,
	}

	v := ToView(s)
	assert.True(t, v.IsReserved)
	assert.Equal(t, "client_cust_1", v.ReservedForPlateOrUser)
	assert.Equal(t, "ABC-123", v.ReservedVehiclePlate)
	assert.Equal(t, "CONFIRMED_BY_OWNER", v.ClientReservationStatus)
	require.NotNil(t, v.ReservedUntil)
	assert.Equal(t, until, *v.ReservedUntil)
	assert.Empty(t, v.VehiclePlate)
}

func TestExpiredAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	r := Reservation{Kind: ReservationManual, HeldFor: "X", Until: now.Add(time.Hour)}

	assert.False(t, r.ExpiredAt(now))
	assert.True(t, r.ExpiredAt(now.Add(time.Hour)))
	assert.True(t, r.ExpiredAt(now.Add(2*time.Hour)))

	// A hold with no deadline never expires.
	open := Reservation{Kind: ReservationManual, HeldFor: "X"}
	assert.False(t, open.ExpiredAt(now.Add(100*time.Hour)))
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC-123", NormalizePlate("abc-123"))
	assert.Equal(t, "ABC-123", NormalizePlate("  ABC-123 "))
	assert.Equal(t, "", NormalizePlate("   "))
}
