package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/waitlist"
	"parqueo-service/internal/engine"
	"parqueo-service/internal/pkg/cache"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/postgres"
)

// ReservationService fronts the hold workflow: manual staff holds, the
// client request/accept/reject/cancel cycle, and the waiting list that
// catches clients when the lot is full.
type ReservationService struct {
	engine       *engine.Engine
	waitlistRepo *postgres.WaitlistRepository
	lotRepo      *postgres.LotRepository
	availability *cache.AvailabilityCache
	logger       *zap.Logger
}

func NewReservationService(eng *engine.Engine, waitlistRepo *postgres.WaitlistRepository, lotRepo *postgres.LotRepository, availability *cache.AvailabilityCache, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		engine:       eng,
		waitlistRepo: waitlistRepo,
		lotRepo:      lotRepo,
		availability: availability,
		logger:       logger,
	}
}

// RequestResult is either an assigned space or a waiting list position.
type RequestResult struct {
	Space    *space.View     `json:"space,omitempty"`
	Waitlist *waitlist.Entry `json:"waitlist,omitempty"`
}

// Request tries to hold a space for the client. When the lot has no
// bookable space the client is queued instead of refused outright.
func (s *ReservationService) Request(ctx context.Context, lotID string, req *space.ClientReservationRequest) (*RequestResult, error) {
	sp, err := s.engine.RequestClientReservation(ctx, lotID, req.ClientID, req.VehiclePlate)
	if err == nil {
		s.invalidateAvailability(ctx, lotID)
		v := space.ToView(sp)
		return &RequestResult{Space: &v}, nil
	}
	if !errors.Is(err, xerrors.ErrNoAvailability) {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &waitlist.Entry{
		ID:           waitlist.NewID(now),
		LotID:        lotID,
		ClientID:     req.ClientID,
		VehiclePlate: req.VehiclePlate,
		Status:       waitlist.StatusWaiting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("client queued on waiting list",
		zap.String("lot_id", lotID),
		zap.String("client_id", req.ClientID))
	return &RequestResult{Waitlist: entry}, nil
}

func (s *ReservationService) Accept(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	return s.engine.AcceptClientReservation(ctx, lotID, number)
}

func (s *ReservationService) Reject(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	return s.engine.RejectClientReservation(ctx, lotID, number)
}

func (s *ReservationService) Cancel(ctx context.Context, lotID, number, clientID string) (*space.ParkingSpace, error) {
	sp, err := s.engine.CancelClientReservation(ctx, lotID, number, clientID)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return sp, nil
}

func (s *ReservationService) SetManual(ctx context.Context, lotID, number string, req *space.ManualReservationRequest) (*space.ParkingSpace, error) {
	sp, err := s.engine.SetManualReservation(ctx, lotID, number, req.ReservedFor, req.ReservedUntil)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return sp, nil
}

func (s *ReservationService) Clear(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	sp, err := s.engine.ClearReservation(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)

	// A freed space can serve the next client in line.
	if err := s.promoteNext(ctx, lotID); err != nil {
		s.logger.Warn("failed to promote waiting client", zap.Error(err))
	}
	return sp, nil
}

func (s *ReservationService) ListPending(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	return s.engine.ListPendingReservations(ctx, lotID)
}

// ClientReservation is a client-facing hold with the lot it lives in.
type ClientReservation struct {
	space.View
	LotName string `json:"lotName"`
}

// ListForClient gathers the client's live holds across every lot and
// labels each with its lot name.
func (s *ReservationService) ListForClient(ctx context.Context, clientID string) ([]ClientReservation, error) {
	spaces, err := s.engine.ListClientReservations(ctx, clientID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	out := make([]ClientReservation, 0, len(spaces))
	for _, sp := range spaces {
		name, ok := names[sp.LotID]
		if !ok {
			l, err := s.lotRepo.GetByID(ctx, sp.LotID)
			if err != nil {
				return nil, err
			}
			name = l.Name
			names[sp.LotID] = name
		}
		out = append(out, ClientReservation{View: space.ToView(sp), LotName: name})
	}
	return out, nil
}

// promoteNext turns the oldest waiting entry into a live reservation
// request. Missing entries and full lots are both fine; the entry just
// stays queued.
func (s *ReservationService) promoteNext(ctx context.Context, lotID string) error {
	entry, err := s.waitlistRepo.NextWaiting(ctx, lotID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.engine.RequestClientReservation(ctx, lotID, entry.ClientID, entry.VehiclePlate); err != nil {
		if errors.Is(err, xerrors.ErrNoAvailability) {
			return nil
		}
		return err
	}
	if err := s.waitlistRepo.UpdateStatus(ctx, entry.ID, waitlist.StatusFulfilled); err != nil {
		return err
	}
	s.logger.Info("waiting client promoted to reservation",
		zap.String("lot_id", lotID),
		zap.String("client_id", entry.ClientID))
	return nil
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, lotID string) {
	if err := s.availability.Invalidate(ctx, lotID); err != nil {
		s.logger.Warn("failed to invalidate availability cache",
			zap.String("lot_id", lotID), zap.Error(err))
	}
}
