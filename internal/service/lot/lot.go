package lot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/employee"
	"parqueo-service/internal/domain/lot"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/pkg/cache"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/postgres"
)

type LotService struct {
	lotRepo      *postgres.LotRepository
	spaceRepo    *postgres.SpaceRepository
	availability *cache.AvailabilityCache
	logger       *zap.Logger
}

func NewLotService(lotRepo *postgres.LotRepository, spaceRepo *postgres.SpaceRepository, availability *cache.AvailabilityCache, logger *zap.Logger) *LotService {
	return &LotService{
		lotRepo:      lotRepo,
		spaceRepo:    spaceRepo,
		availability: availability,
		logger:       logger,
	}
}

// CreateLot registers a lot and seeds its initial layout: twenty numbered
// spaces with the first five marked VIP, default pricing, and the owner
// as the first staff member.
func (s *LotService) CreateLot(ctx context.Context, req *lot.CreateRequest) (*lot.Lot, error) {
	now := time.Now().UTC()
	l := &lot.Lot{
		ID:        lot.NewID(now),
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	spaces := seedSpaces(l.ID, now)

	settings := pricing.DefaultSettings()
	settings.LotID = l.ID
	settings.UpdatedAt = now

	owner := &employee.Employee{
		ID:        employee.NewID(now),
		LotID:     l.ID,
		Name:      req.Name + " owner",
		Role:      employee.RoleOwner,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	layout := postgres.LotLayout{Spaces: spaces, Pricing: settings, DefaultEmployee: owner}
	if err := s.lotRepo.CreateWithLayout(ctx, l, layout); err != nil {
		s.logger.Error("failed to create lot", zap.Error(err))
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}

	s.logger.Info("lot created",
		zap.String("lot_id", l.ID),
		zap.String("owner_id", l.OwnerID),
		zap.Int("spaces", len(spaces)),
	)
	return l, nil
}

func seedSpaces(lotID string, now time.Time) []*space.ParkingSpace {
	spaces := make([]*space.ParkingSpace, 0, lot.SeedSpaceCount)
	for i := 1; i <= lot.SeedSpaceCount; i++ {
		sp := space.New(lotID, fmt.Sprintf("%02d", i), i <= lot.SeedVIPCount)
		sp.CreatedAt = now
		sp.UpdatedAt = now
		spaces = append(spaces, sp)
	}
	return spaces
}

// buildLayout numbers spaces 01..NN and marks the listed numbers VIP.
// A VIP number outside the range is a validation error.
func buildLayout(lotID string, total int, vipNumbers []string, now time.Time) ([]*space.ParkingSpace, error) {
	vip := make(map[string]bool, len(vipNumbers))
	for _, n := range vipNumbers {
		vip[n] = true
	}
	spaces := make([]*space.ParkingSpace, 0, total)
	for i := 1; i <= total; i++ {
		number := fmt.Sprintf("%02d", i)
		sp := space.New(lotID, number, vip[number])
		sp.CreatedAt = now
		sp.UpdatedAt = now
		spaces = append(spaces, sp)
		delete(vip, number)
	}
	if len(vip) > 0 {
		for n := range vip {
			return nil, fmt.Errorf("%w: VIP space %s is outside the lot's range", xerrors.ErrValidation, n)
		}
	}
	return spaces, nil
}

// ConfigureSpaces rebuilds the lot's layout from scratch: the requested
// count of spaces, VIP where listed. Current occupancy and holds on the
// old layout are discarded.
func (s *LotService) ConfigureSpaces(ctx context.Context, lotID string, req *lot.ConfigureSpacesRequest) ([]*space.ParkingSpace, error) {
	if _, err := s.lotRepo.GetByID(ctx, lotID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	spaces, err := buildLayout(lotID, req.TotalSpaces, req.VIPNumbers, now)
	if err != nil {
		return nil, err
	}
	if err := s.lotRepo.ReplaceSpaces(ctx, lotID, spaces); err != nil {
		return nil, err
	}
	if err := s.availability.Invalidate(ctx, lotID); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.Error(err))
	}

	s.logger.Info("lot layout reconfigured",
		zap.String("lot_id", lotID),
		zap.Int("spaces", len(spaces)),
		zap.Int("vip", len(req.VIPNumbers)),
	)
	return spaces, nil
}

func (s *LotService) GetLot(ctx context.Context, id string) (*lot.Lot, error) {
	return s.lotRepo.GetByID(ctx, id)
}

func (s *LotService) ListLotsByOwner(ctx context.Context, ownerID string) ([]*lot.Lot, error) {
	return s.lotRepo.ListByOwner(ctx, ownerID)
}

func (s *LotService) UpdateLot(ctx context.Context, id string, req *lot.UpdateRequest) (*lot.Lot, error) {
	l, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		l.Name = req.Name
	}
	if req.Address != "" {
		l.Address = req.Address
	}
	if err := s.lotRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Availability serves the aggregate occupancy picture, cached in redis
// for the polling interval.
func (s *LotService) Availability(ctx context.Context, lotID string) (*lot.AvailabilitySummary, error) {
	if cached, err := s.availability.Get(ctx, lotID); err == nil && cached != nil {
		return cached, nil
	}

	spaces, err := s.spaceRepo.List(ctx, lotID)
	if err != nil {
		return nil, err
	}
	summary := summarize(lotID, spaces)

	if err := s.availability.Set(ctx, summary); err != nil {
		s.logger.Warn("failed to cache availability", zap.Error(err))
	}
	return summary, nil
}

func summarize(lotID string, spaces []*space.ParkingSpace) *lot.AvailabilitySummary {
	summary := &lot.AvailabilitySummary{LotID: lotID, TotalSpaces: len(spaces)}
	for _, sp := range spaces {
		switch {
		case sp.Status == space.StatusOccupied:
			summary.OccupiedSpaces++
		case sp.Status == space.StatusMaintenance:
			summary.Maintenance++
		case sp.Reservation.Active():
			summary.ReservedSpaces++
		default:
			summary.FreeSpaces++
			if sp.IsVIP {
				summary.FreeVIP++
			}
		}
	}
	return summary
}
