package space

import (
	"time"

	"parqueo-service/internal/domain/pricing"
)

// View is the wire shape of a space, flattened the way the web client
// expects: the reservation sub-state is projected onto the historical
// columns instead of nesting.
type View struct {
	ID                      string     `json:"id"`
	LotID                   string     `json:"lotId"`
	Number                  string     `json:"number"`
	IsVIP                   bool       `json:"isVip"`
	Status                  Status     `json:"status"`
	VehiclePlate            string     `json:"vehiclePlate,omitempty"`
	EntryTime               *time.Time `json:"entryTime,omitempty"`
	CurrentTransactionID    string     `json:"currentTransactionId,omitempty"`
	IsReserved              bool       `json:"isReserved"`
	ReservedUntil           *time.Time `json:"reservedUntil,omitempty"`
	ReservedForPlateOrUser  string     `json:"reservedForPlateOrUserId,omitempty"`
	ReservedVehiclePlate    string     `json:"reservedVehiclePlate,omitempty"`
	ClientReservationStatus string     `json:"clientReservationStatus,omitempty"`
	MaintenanceNotes        string     `json:"maintenanceNotes,omitempty"`
}

// ToView projects the entity onto the flat wire shape.
func ToView(s *ParkingSpace) View {
	v := View{
		ID:               s.ID,
		LotID:            s.LotID,
		Number:           s.Number,
		IsVIP:            s.IsVIP,
		Status:           s.Status,
		MaintenanceNotes: s.MaintenanceNotes,
	}
	if s.Occupied != nil {
		v.VehiclePlate = s.Occupied.Plate
		t := s.Occupied.EntryTime
		v.EntryTime = &t
		v.CurrentTransactionID = s.Occupied.TransactionID
	}
	if s.Reservation.Active() {
		v.IsReserved = true
		if !s.Reservation.Until.IsZero() {
			u := s.Reservation.Until
			v.ReservedUntil = &u
		}
		switch s.Reservation.Kind {
		case ReservationClient:
			v.ReservedForPlateOrUser = ClientIDPrefix + s.Reservation.ClientID
			v.ReservedVehiclePlate = s.Reservation.Plate
			v.ClientReservationStatus = string(s.Reservation.Confirmation)
		default:
			v.ReservedForPlateOrUser = s.Reservation.HeldFor
		}
	}
	return v
}

// ToViews projects a slice.
func ToViews(spaces []*ParkingSpace) []View {
	out := make([]View, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, ToView(s))
	}
	return out
}

// EntryRequest registers a vehicle into a specific space.
type EntryRequest struct {
	Plate           string              `json:"plate" binding:"required"`
	VehicleType     pricing.VehicleType `json:"vehicleType" binding:"required"`
	EmployeeID      string              `json:"employeeId"`
	ConfirmOverride bool                `json:"confirmOverride"`
}

// ManualReservationRequest places or refreshes a staff hold.
type ManualReservationRequest struct {
	ReservedFor   string     `json:"reservedFor" binding:"required"`
	ReservedUntil *time.Time `json:"reservedUntil"`
}

// MaintenanceRequest moves a space into maintenance.
type MaintenanceRequest struct {
	Notes string `json:"notes"`
}

// ClientReservationRequest asks for any bookable space in a lot.
type ClientReservationRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	VehiclePlate string `json:"vehiclePlate" binding:"required"`
}
