package space

import (
	"fmt"
	"strings"
	"time"

	xerrors "parqueo-service/internal/pkg/errors"
)

// Status is the occupancy state of a parking space.
type Status string

const (
	StatusFree     Status = "free"
	StatusOccupied Status = "occupied"
	// StatusReserved exists in historical data but is never produced by any
	// transition: reservations live on the Reservation sub-state while the
	// space stays free. Kept so old rows still load.
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

// ConfirmationStatus tracks the owner's decision on a client reservation.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING_CONFIRMATION"
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED_BY_OWNER"
	ConfirmationRejected  ConfirmationStatus = "REJECTED_BY_OWNER"
)

// ReservationKind distinguishes staff-placed holds from client requests.
type ReservationKind string

const (
	ReservationNone   ReservationKind = ""
	ReservationManual ReservationKind = "manual"
	ReservationClient ReservationKind = "client"
)

// Reservation is the tagged hold on a space. Kind selects the populated
// fields: Manual uses HeldFor (free text or a plate), Client uses ClientID,
// Plate and Confirmation.
type Reservation struct {
	Kind         ReservationKind    `json:"kind,omitempty"`
	HeldFor      string             `json:"held_for,omitempty"`
	ClientID     string             `json:"client_id,omitempty"`
	Plate        string             `json:"plate,omitempty"`
	Until        time.Time          `json:"until,omitempty"`
	Confirmation ConfirmationStatus `json:"confirmation,omitempty"`
}

// Active reports whether a hold exists at all.
func (r Reservation) Active() bool { return r.Kind != ReservationNone }

// ExpiredAt reports whether the hold's window has passed at t.
func (r Reservation) ExpiredAt(t time.Time) bool {
	return r.Active() && !r.Until.IsZero() && !r.Until.After(t)
}

// Identity returns the stored holder identifier: the client ID for client
// reservations, otherwise the manual text.
func (r Reservation) Identity() string {
	if r.Kind == ReservationClient {
		return r.ClientID
	}
	return r.HeldFor
}

// Occupancy is the vehicle currently in the space. Present iff the space
// status is occupied.
type Occupancy struct {
	Plate         string    `json:"plate"`
	EntryTime     time.Time `json:"entry_time"`
	TransactionID string    `json:"transaction_id"`
}

// ParkingSpace is a numbered slot within one lot. Occupancy and
// Reservation are mutually exclusive sets of truth; Validate enforces the
// legal combinations.
type ParkingSpace struct {
	ID               string       `json:"id"`
	LotID            string       `json:"lot_id"`
	Number           string       `json:"number"`
	IsVIP            bool         `json:"is_vip"`
	Status           Status       `json:"status"`
	Occupied         *Occupancy   `json:"occupied,omitempty"`
	Reservation      Reservation  `json:"reservation,omitempty"`
	MaintenanceNotes string       `json:"maintenance_notes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// New builds a free, unreserved space and is the only constructor used at
// lot configuration time.
func New(lotID, number string, isVIP bool) *ParkingSpace {
	return &ParkingSpace{
		ID:     SpaceID(lotID, number),
		LotID:  lotID,
		Number: number,
		IsVIP:  isVIP,
		Status: StatusFree,
	}
}

// SpaceID derives the lot-scoped space identifier.
func SpaceID(lotID, number string) string {
	return fmt.Sprintf("space_%s_%s", lotID, number)
}

// NormalizePlate canonicalizes a plate for storage and comparison.
// Plates are stored uppercase so gate-side lookups never miss on case.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Validate checks the cross-field invariants:
//
//	occupied    => no reservation, occupancy fields present
//	maintenance => no reservation
//	client hold => confirmation status present; manual hold => none
//
// A rejected client hold is legal even though staff queries treat the
// space as unavailable: the identity fields are retained so the client
// can see the rejection.
func (s *ParkingSpace) Validate() error {
	switch s.Status {
	case StatusOccupied:
		if s.Occupied == nil || s.Occupied.Plate == "" || s.Occupied.TransactionID == "" {
			return fmt.Errorf("%w: occupied space %s missing vehicle details", xerrors.ErrValidation, s.Number)
		}
		if s.Reservation.Active() {
			return fmt.Errorf("%w: occupied space %s cannot carry a reservation", xerrors.ErrValidation, s.Number)
		}
	case StatusMaintenance:
		if s.Reservation.Active() {
			return fmt.Errorf("%w: space %s in maintenance cannot carry a reservation", xerrors.ErrValidation, s.Number)
		}
		if s.Occupied != nil {
			return fmt.Errorf("%w: space %s in maintenance cannot be occupied", xerrors.ErrValidation, s.Number)
		}
	case StatusFree, StatusReserved:
		if s.Occupied != nil {
			return fmt.Errorf("%w: free space %s carries occupancy fields", xerrors.ErrValidation, s.Number)
		}
	default:
		return fmt.Errorf("%w: unknown space status %q", xerrors.ErrValidation, s.Status)
	}

	switch s.Reservation.Kind {
	case ReservationNone, ReservationManual:
		if s.Reservation.Confirmation != "" {
			return fmt.Errorf("%w: space %s has confirmation status on a non-client hold", xerrors.ErrValidation, s.Number)
		}
	case ReservationClient:
		if s.Reservation.ClientID == "" || s.Reservation.Confirmation == "" {
			return fmt.Errorf("%w: space %s client hold missing client id or confirmation", xerrors.ErrValidation, s.Number)
		}
	default:
		return fmt.Errorf("%w: unknown reservation kind %q", xerrors.ErrValidation, s.Reservation.Kind)
	}
	return nil
}

// BookableForClients reports whether a new client request may target this
// space: free and carrying no hold of any kind (a rejected hold still
// excludes the space until it is cleared or expires).
func (s *ParkingSpace) BookableForClients() bool {
	return s.Status == StatusFree && !s.Reservation.Active()
}

// ClearReservation drops every reservation field.
func (s *ParkingSpace) ClearReservation() {
	s.Reservation = Reservation{}
}

// ClientIDPrefix marks client identifiers in the legacy single-column
// encoding of the hold owner. DecodeReservedFor understands it so rows
// written by the previous system still classify correctly.
const ClientIDPrefix = "client_"

// DecodeReservedFor classifies a stored holder identifier into a kind.
func DecodeReservedFor(reservedFor string) ReservationKind {
	if reservedFor == "" {
		return ReservationNone
	}
	if strings.HasPrefix(reservedFor, ClientIDPrefix) {
		return ReservationClient
	}
	return ReservationManual
}
