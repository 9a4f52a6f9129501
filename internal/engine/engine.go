package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
	xerrors "parqueo-service/internal/pkg/errors"
)

// Engine drives the space state machine and the reservation workflow on
// top of a Gateway. All transitions for one space run under that space's
// lock, so guards and saves are atomic with respect to each other.
type Engine struct {
	gw     Gateway
	clock  Clock
	locks  *spaceLocks
	logger *zap.Logger
}

func New(gw Gateway, clock Clock, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		gw:     gw,
		clock:  clock,
		locks:  newSpaceLocks(),
		logger: logger,
	}
}

// EntryParams carries everything recorded at the gate when a vehicle
// enters.
type EntryParams struct {
	Plate           string
	VehicleType     pricing.VehicleType
	EmployeeID      string
	ConfirmOverride bool
}

// RegisterEntry admits a vehicle into a space and opens its transaction.
// A pending client hold always blocks entry, expired or not. A confirmed
// or manual hold for a different vehicle requires explicit override
// confirmation; entry then proceeds and every reservation field is
// cleared. The plate's owner, when registered, is attached to the
// transaction.
func (e *Engine) RegisterEntry(ctx context.Context, lotID, number string, p EntryParams) (*transaction.Transaction, *space.ParkingSpace, error) {
	if !p.VehicleType.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown vehicle type %q", xerrors.ErrValidation, p.VehicleType)
	}
	plate := space.NormalizePlate(p.Plate)
	if plate == "" {
		return nil, nil, fmt.Errorf("%w: vehicle plate is required", xerrors.ErrValidation)
	}

	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, nil, err
	}

	switch s.Status {
	case space.StatusOccupied:
		return nil, nil, fmt.Errorf("%w: space %s is already occupied", xerrors.ErrConflict, number)
	case space.StatusMaintenance:
		return nil, nil, fmt.Errorf("%w: space %s is under maintenance", xerrors.ErrConflict, number)
	}

	now := e.clock.Now()
	if s.Reservation.Active() {
		// A request awaiting the owner's decision blocks entry outright,
		// even past its expiry: the decision must land or staff must
		// clear the hold first.
		if s.Reservation.Kind == space.ReservationClient && s.Reservation.Confirmation == space.ConfirmationPending {
			return nil, nil, fmt.Errorf("%w: space %s has a reservation request awaiting owner decision", xerrors.ErrConflict, number)
		}
		if !s.Reservation.ExpiredAt(now) && !reservationMatchesPlate(s.Reservation, plate) && !p.ConfirmOverride {
			return nil, nil, xerrors.ErrOverrideRequired
		}
	}

	txn := transaction.Open(lotID, s.ID, s.Number, plate, p.VehicleType, s.IsVIP, p.EmployeeID, now)
	if cust, err := e.gw.FindCustomerByPlate(ctx, plate); err == nil {
		txn.AttachCustomer(cust.ID, cust.Name)
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, nil, err
	}

	s.Status = space.StatusOccupied
	s.Occupied = &space.Occupancy{Plate: plate, EntryTime: now, TransactionID: txn.ID}
	s.ClearReservation()
	s.UpdatedAt = now
	if err := e.gw.SaveEntry(ctx, txn, s); err != nil {
		return nil, nil, err
	}

	e.logger.Info("vehicle entry registered",
		zap.String("lot_id", lotID),
		zap.String("space", number),
		zap.String("plate", plate),
		zap.String("transaction_id", txn.ID))
	return txn, s, nil
}

// reservationMatchesPlate reports whether the entering vehicle is the one
// the hold was placed for. Manual holds store free text, so a manual hold
// matches when the text equals the plate. Comparison ignores case.
func reservationMatchesPlate(r space.Reservation, plate string) bool {
	switch r.Kind {
	case space.ReservationClient:
		return strings.EqualFold(r.Plate, plate)
	case space.ReservationManual:
		return strings.EqualFold(r.HeldFor, plate)
	}
	return false
}

// RegisterExit settles the fee for an occupied space, closes its
// transaction and frees the space. The stay is priced from the vehicle
// type recorded at entry; the caller supplies only an optional discount
// code or manual percentage.
func (e *Engine) RegisterExit(ctx context.Context, lotID, number string, discountCode string, discountPercent float64) (*transaction.Transaction, FeeBreakdown, error) {
	unlock := e.locks.acquire(space.SpaceID(lotID, number))
	defer unlock()

	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return nil, FeeBreakdown{}, err
	}
	if s.Status != space.StatusOccupied || s.Occupied == nil {
		return nil, FeeBreakdown{}, fmt.Errorf("%w: space %s has no vehicle to exit", xerrors.ErrConflict, number)
	}

	txn, err := e.gw.GetTransaction(ctx, s.Occupied.TransactionID)
	if err != nil {
		return nil, FeeBreakdown{}, err
	}

	now := e.clock.Now()
	breakdown, err := e.settle(ctx, txn, now.Sub(txn.EntryTime), discountCode, discountPercent)
	if err != nil {
		return nil, FeeBreakdown{}, err
	}

	txn.Close(now, breakdown.OriginalFee, breakdown.DiscountPercent, breakdown.FinalFee)

	s.Status = space.StatusFree
	s.Occupied = nil
	s.ClearReservation()
	s.UpdatedAt = now
	if err := e.gw.SaveExit(ctx, txn, s); err != nil {
		return nil, FeeBreakdown{}, err
	}

	e.logger.Info("vehicle exit settled",
		zap.String("lot_id", lotID),
		zap.String("space", number),
		zap.String("transaction_id", txn.ID),
		zap.Float64("final_fee", breakdown.FinalFee))
	return txn, breakdown, nil
}

// PreviewFee prices an occupied space as if the vehicle exited now,
// without changing any state.
func (e *Engine) PreviewFee(ctx context.Context, lotID, number string, discountCode string, discountPercent float64) (FeeBreakdown, error) {
	s, err := e.gw.GetSpace(ctx, lotID, number)
	if err != nil {
		return FeeBreakdown{}, err
	}
	if s.Status != space.StatusOccupied || s.Occupied == nil {
		return FeeBreakdown{}, fmt.Errorf("%w: space %s has no active stay to price", xerrors.ErrConflict, number)
	}
	txn, err := e.gw.GetTransaction(ctx, s.Occupied.TransactionID)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return e.settle(ctx, txn, e.clock.Now().Sub(txn.EntryTime), discountCode, discountPercent)
}

// settle computes the full breakdown for one stay against the lot's
// current pricing settings and the vehicle type recorded at entry.
func (e *Engine) settle(ctx context.Context, txn *transaction.Transaction, duration time.Duration, discountCode string, discountPercent float64) (FeeBreakdown, error) {
	settings, err := e.gw.GetPricing(ctx, txn.LotID)
	if err != nil {
		return FeeBreakdown{}, err
	}
	fee, mins, err := ComputeFee(settings, txn.VehicleType, duration, txn.IsVIPStay)
	if err != nil {
		return FeeBreakdown{}, err
	}
	pct, err := ResolveDiscount(discountCode, discountPercent)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return FeeBreakdown{
		BilledMinutes:   mins,
		OriginalFee:     fee,
		DiscountPercent: pct,
		FinalFee:        ApplyDiscount(fee, pct),
	}, nil
}
