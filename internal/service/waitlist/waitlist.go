package waitlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/waitlist"
	"parqueo-service/internal/repository/postgres"
)

type WaitlistService struct {
	waitlistRepo *postgres.WaitlistRepository
	logger       *zap.Logger
}

func NewWaitlistService(waitlistRepo *postgres.WaitlistRepository, logger *zap.Logger) *WaitlistService {
	return &WaitlistService{waitlistRepo: waitlistRepo, logger: logger}
}

func (s *WaitlistService) Join(ctx context.Context, lotID string, req *waitlist.JoinRequest) (*waitlist.Entry, error) {
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
		s.logger.Error("failed to join waiting list", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (s *WaitlistService) ListByLot(ctx context.Context, lotID string) ([]*waitlist.Entry, error) {
	return s.waitlistRepo.ListByLot(ctx, lotID)
}

func (s *WaitlistService) Cancel(ctx context.Context, id string) error {
	return s.waitlistRepo.UpdateStatus(ctx, id, waitlist.StatusCancelled)
}
