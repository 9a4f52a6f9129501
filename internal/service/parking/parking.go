package parking

import (
	"context"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
	"parqueo-service/internal/engine"
	"parqueo-service/internal/pkg/cache"
	"parqueo-service/internal/repository/postgres"
)

// ParkingService fronts the state machine for the staff-facing entry,
// exit and maintenance operations, and keeps the availability cache
// honest after every transition.
type ParkingService struct {
	engine       *engine.Engine
	spaceRepo    *postgres.SpaceRepository
	txnRepo      *postgres.TransactionRepository
	availability *cache.AvailabilityCache
	logger       *zap.Logger
}

func NewParkingService(eng *engine.Engine, spaceRepo *postgres.SpaceRepository, txnRepo *postgres.TransactionRepository, availability *cache.AvailabilityCache, logger *zap.Logger) *ParkingService {
	return &ParkingService{
		engine:       eng,
		spaceRepo:    spaceRepo,
		txnRepo:      txnRepo,
		availability: availability,
		logger:       logger,
	}
}

// ExitResult pairs the closed transaction with its fee breakdown.
type ExitResult struct {
	Transaction transaction.View   `json:"transaction"`
	Fee         engine.FeeBreakdown `json:"fee"`
}

func (s *ParkingService) RegisterEntry(ctx context.Context, lotID, number string, req *space.EntryRequest) (*transaction.Transaction, *space.ParkingSpace, error) {
	txn, sp, err := s.engine.RegisterEntry(ctx, lotID, number, engine.EntryParams{
		Plate:           req.Plate,
		VehicleType:     req.VehicleType,
		EmployeeID:      req.EmployeeID,
		ConfirmOverride: req.ConfirmOverride,
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return txn, sp, nil
}

func (s *ParkingService) RegisterExit(ctx context.Context, lotID, number string, req *pricing.ExitRequest) (*ExitResult, error) {
	txn, fee, err := s.engine.RegisterExit(ctx, lotID, number, req.DiscountCode, req.DiscountPercent)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return &ExitResult{Transaction: transaction.ToView(txn), Fee: fee}, nil
}

func (s *ParkingService) PreviewFee(ctx context.Context, lotID, number, discountCode string, discountPercent float64) (engine.FeeBreakdown, error) {
	return s.engine.PreviewFee(ctx, lotID, number, discountCode, discountPercent)
}

func (s *ParkingService) SetMaintenance(ctx context.Context, lotID, number, notes string) (*space.ParkingSpace, error) {
	sp, err := s.engine.SetMaintenance(ctx, lotID, number, notes)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return sp, nil
}

func (s *ParkingService) ClearMaintenance(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	sp, err := s.engine.ClearMaintenance(ctx, lotID, number)
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, lotID)
	return sp, nil
}

func (s *ParkingService) ListSpaces(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	return s.spaceRepo.List(ctx, lotID)
}

func (s *ParkingService) GetSpace(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	return s.spaceRepo.Get(ctx, lotID, number)
}

func (s *ParkingService) ListTransactions(ctx context.Context, lotID string, filter transaction.HistoryFilter) ([]*transaction.Transaction, error) {
	return s.txnRepo.List(ctx, lotID, filter)
}

func (s *ParkingService) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	return s.txnRepo.GetByID(ctx, id)
}

func (s *ParkingService) invalidateAvailability(ctx context.Context, lotID string) {
	if err := s.availability.Invalidate(ctx, lotID); err != nil {
		s.logger.Warn("failed to invalidate availability cache",
			zap.String("lot_id", lotID), zap.Error(err))
	}
}
