package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/space"
	xerrors "parqueo-service/internal/pkg/errors"
)

// SetManualReservation places or refreshes a staff hold on a free space.
// An existing hold of either kind is displaced: the space changes hands
// and any client identity fields are dropped. An empty until defaults to
// the end of the current day; an explicit until must lie in the future.
func (e *Engine) SetManualReservation(ctx context.Context, lotID, number, heldFor string, until *time.Time) (*space.ParkingSpace, error) {
	if heldFor == "" {
		return nil, fmt.Errorf("%w: reservation holder is required", xerrors.ErrValidation)
	}

	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if s.Status != space.StatusFree {
		return nil, fmt.Errorf("%w: space %s is not free", xerrors.ErrConflict, number)
	}

	now := e.clock.Now()
	u := endOfDay(now)
	if until != nil {
		if !until.After(now) {
			return nil, fmt.Errorf("%w: reservation deadline must be in the future", xerrors.ErrValidation)
		}
		u = *until
	}

	displaced := s.Reservation.Kind == space.ReservationClient
	s.Reservation = space.Reservation{
		Kind:    space.ReservationManual,
		HeldFor: heldFor,
		Until:   u,
	}
	s.UpdatedAt = now
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	e.logger.Info("manual reservation placed",
		zap.String("lot_id", lotID),
		zap.String("space", number),
		zap.String("held_for", heldFor),
		zap.Bool("displaced_client_hold", displaced))
	return s, nil
}

// ClearReservation removes any hold from a space, whatever its kind or
// confirmation status. Staff use this to release rejected or stale holds.
func (e *Engine) ClearReservation(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if !s.Reservation.Active() {
		return nil, fmt.Errorf("%w: space %s has no reservation", xerrors.ErrConflict, number)
	}
	s.ClearReservation()
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMaintenance takes a free space out of service. Maintenance takes
// precedence over reservations: any hold on the space is dropped.
func (e *Engine) SetMaintenance(ctx context.Context, lotID, number, notes string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if s.Status != space.StatusFree {
		return nil, fmt.Errorf("%w: space %s must be free to enter maintenance", xerrors.ErrConflict, number)
	}
	s.ClearReservation()
	s.Status = space.StatusMaintenance
	s.MaintenanceNotes = notes
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ClearMaintenance returns a space to service.
func (e *Engine) ClearMaintenance(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if s.Status != space.StatusMaintenance {
		return nil, fmt.Errorf("%w: space %s is not under maintenance", xerrors.ErrConflict, number)
	}
	s.Status = space.StatusFree
	s.MaintenanceNotes = ""
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// RequestClientReservation assigns the client a space in the lot:
// the lowest-numbered bookable regular space, falling back to VIP only
// when no regular space is left. The hold starts pending owner
// confirmation and expires at the end of the current day.
func (e *Engine) RequestClientReservation(ctx context.Context, lotID, clientID, plate string) (*space.ParkingSpace, error) {
	plate = space.NormalizePlate(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: vehicle plate is required", xerrors.ErrValidation)
	}

	spaces, err := e.gw.ListSpaces(ctx, lotID)
	if err != nil {
		return nil, err
	}
	sort.Slice(spaces, func(i, j int) bool { return spaces[i].Number < spaces[j].Number })

	target := pickBookable(spaces, false)
	if target == nil {
		target = pickBookable(spaces, true)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: no bookable space in lot %s", xerrors.ErrNoAvailability, lotID)
	}

	unlock := e.locks.acquire(target.ID)
	defer unlock()

	// Re-read under the lock: another request may have taken it.
	s, err := e.gw.GetSpace(ctx, lotID, target.Number)
	if err != nil {
		return nil, err
	}
	if !s.BookableForClients() {
		return nil, fmt.Errorf("%w: space %s was taken, retry", xerrors.ErrNoAvailability, s.Number)
	}

	now := e.clock.Now()
	s.Reservation = space.Reservation{
		Kind:         space.ReservationClient,
		ClientID:     clientID,
		Plate:        plate,
		Until:        endOfDay(now),
		Confirmation: space.ConfirmationPending,
	}
	s.UpdatedAt = now
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	e.logger.Info("client reservation requested",
		zap.String("lot_id", lotID),
		zap.String("space", s.Number),
		zap.String("client_id", clientID))
	return s, nil
}

func pickBookable(spaces []*space.ParkingSpace, vip bool) *space.ParkingSpace {
	for _, s := range spaces {
		if s.IsVIP == vip && s.BookableForClients() {
			return s
		}
	}
	return nil
}

// AcceptClientReservation confirms a pending request. The space must
// still be free with the request unexpired; an expired request cannot be
// accepted.
func (e *Engine) AcceptClientReservation(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if err := requirePendingClientHold(s); err != nil {
		return nil, err
	}
	if s.Reservation.ExpiredAt(e.clock.Now()) {
		return nil, fmt.Errorf("%w: reservation request on space %s has expired", xerrors.ErrExpired, number)
	}
	s.Reservation.Confirmation = space.ConfirmationConfirmed
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// RejectClientReservation declines a pending request. The hold's identity
// fields are retained so the client can see the decision; the space stays
// unavailable to new requests until the hold is cleared.
func (e *Engine) RejectClientReservation(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if err := requirePendingClientHold(s); err != nil {
		return nil, err
	}
	s.Reservation.Confirmation = space.ConfirmationRejected
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func requirePendingClientHold(s *space.ParkingSpace) error {
	if s.Status != space.StatusFree {
		return fmt.Errorf("%w: space %s is not free", xerrors.ErrConflict, s.Number)
	}
	if s.Reservation.Kind != space.ReservationClient || s.Reservation.Confirmation != space.ConfirmationPending {
		return fmt.Errorf("%w: space %s has no pending reservation request", xerrors.ErrConflict, s.Number)
	}
	return nil
}

// CancelClientReservation lets the requesting client withdraw a pending
// or confirmed hold. A rejected hold cannot be cancelled by the client.
func (e *Engine) CancelClientReservation(ctx context.Context, lotID, number, clientID string) (*space.ParkingSpace, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	if s.Reservation.Kind != space.ReservationClient || s.Reservation.ClientID != clientID {
		return nil, fmt.Errorf("%w: no reservation for this client on space %s", xerrors.ErrNotFound, number)
	}
	if s.Reservation.Confirmation == space.ConfirmationRejected {
		return nil, fmt.Errorf("%w: a rejected reservation can only be released by staff", xerrors.ErrConflict)
	}
	s.ClearReservation()
	s.UpdatedAt = e.clock.Now()
	if err := e.gw.SaveSpace(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListPendingReservations returns the spaces awaiting an owner decision
// whose request window has not yet passed.
func (e *Engine) ListPendingReservations(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	spaces, err := e.gw.ListSpaces(ctx, lotID)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	var out []*space.ParkingSpace
	for _, s := range spaces {
		if s.Reservation.Kind == space.ReservationClient &&
			s.Reservation.Confirmation == space.ConfirmationPending &&
			!s.Reservation.ExpiredAt(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListClientReservations returns the client's live holds across every
// lot: expired holds and holds on spaces no longer free are filtered
// out, rejected holds are kept so the client sees the decision.
func (e *Engine) ListClientReservations(ctx context.Context, clientID string) ([]*space.ParkingSpace, error) {
	spaces, err := e.gw.ListClientSpaces(ctx, clientID)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	var out []*space.ParkingSpace
	for _, s := range spaces {
		if s.Reservation.Kind != space.ReservationClient || s.Reservation.ClientID != clientID {
			continue
		}
		if s.Reservation.ExpiredAt(now) || s.Status == space.StatusOccupied {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
