package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parqueo-service/internal/domain/pricing"
	xerrors "parqueo-service/internal/pkg/errors"
)

type PricingRepository struct {
	db *pgxpool.Pool
}

func NewPricingRepository(db *pgxpool.Pool) *PricingRepository {
	return &PricingRepository{db: db}
}

// Get loads the lot's pricing. The rate table lives in a jsonb column
// keyed by vehicle type.
func (r *PricingRepository) Get(ctx context.Context, lotID string) (*pricing.Settings, error) {
	query := `SELECT lot_id, vip_multiplier, rates, updated_at FROM lot_pricing WHERE lot_id = $1`

	var s pricing.Settings
	var ratesJSON []byte
	err := r.db.QueryRow(ctx, query, lotID).Scan(&s.LotID, &s.VIPMultiplier, &ratesJSON, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no pricing configured for lot %s", xerrors.ErrConfiguration, lotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing: %w", err)
	}
	if err := json.Unmarshal(ratesJSON, &s.Rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rates: %w", err)
	}
	return &s, nil
}

func (r *PricingRepository) Upsert(ctx context.Context, s *pricing.Settings) error {
	ratesJSON, err := json.Marshal(s.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	query := `
		INSERT INTO lot_pricing (lot_id, vip_multiplier, rates, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lot_id) DO UPDATE SET
			vip_multiplier = EXCLUDED.vip_multiplier,
			rates = EXCLUDED.rates,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, query, s.LotID, s.VIPMultiplier, ratesJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert pricing: %w", err)
	}
	return nil
}

// InsertTx seeds the default pricing inside the lot-creation transaction.
func (r *PricingRepository) InsertTx(ctx context.Context, tx pgx.Tx, s *pricing.Settings) error {
	ratesJSON, err := json.Marshal(s.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	query := `INSERT INTO lot_pricing (lot_id, vip_multiplier, rates, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, s.LotID, s.VIPMultiplier, ratesJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to insert pricing: %w", err)
	}
	return nil
}
