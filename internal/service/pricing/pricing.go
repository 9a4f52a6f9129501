package pricing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/pricing"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/postgres"
)

type PricingService struct {
	pricingRepo *postgres.PricingRepository
	logger      *zap.Logger
}

func NewPricingService(pricingRepo *postgres.PricingRepository, logger *zap.Logger) *PricingService {
	return &PricingService{pricingRepo: pricingRepo, logger: logger}
}

func (s *PricingService) GetSettings(ctx context.Context, lotID string) (*pricing.Settings, error) {
	return s.pricingRepo.Get(ctx, lotID)
}

// UpdateSettings replaces the lot's pricing. Every known vehicle type
// must keep a rate so exits can always be priced.
func (s *PricingService) UpdateSettings(ctx context.Context, lotID string, req *pricing.UpdateSettingsRequest) (*pricing.Settings, error) {
	if req.VIPMultiplier < 1 {
		return nil, fmt.Errorf("%w: vip multiplier must be at least 1", xerrors.ErrValidation)
	}
	for _, vt := range []pricing.VehicleType{pricing.VehicleAuto, pricing.VehicleCamioneta, pricing.VehicleMoto} {
		rate, ok := req.Rates[vt]
		if !ok {
			return nil, fmt.Errorf("%w: missing rate for vehicle type %q", xerrors.ErrValidation, vt)
		}
		if rate.MinutelyRate < 0 || rate.FirstHourMinFee < 0 {
			return nil, fmt.Errorf("%w: rates for %q must not be negative", xerrors.ErrValidation, vt)
		}
	}
	for vt := range req.Rates {
		if !vt.Valid() {
			return nil, fmt.Errorf("%w: unknown vehicle type %q", xerrors.ErrValidation, vt)
		}
	}

	settings := &pricing.Settings{
		LotID:         lotID,
		VIPMultiplier: req.VIPMultiplier,
		Rates:         req.Rates,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.pricingRepo.Upsert(ctx, settings); err != nil {
		s.logger.Error("failed to update pricing", zap.String("lot_id", lotID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("pricing updated", zap.String("lot_id", lotID))
	return settings, nil
}

// ResetDefaults restores the stock rate table for a lot.
func (s *PricingService) ResetDefaults(ctx context.Context, lotID string) (*pricing.Settings, error) {
	settings := pricing.DefaultSettings()
	settings.LotID = lotID
	settings.UpdatedAt = time.Now().UTC()
	if err := s.pricingRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// DiscountCodes exposes the accepted codes and their percentages.
func (s *PricingService) DiscountCodes() map[string]float64 {
	return pricing.DiscountCodes
}
