package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"parqueo-service/internal/domain/customer"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
)

// Gateway binds the engine's persistence surface to the postgres
// repositories. Entry and exit pair a transaction write with the space
// write in one database transaction.
type Gateway struct {
	db        *DB
	spaces    *SpaceRepository
	txns      *TransactionRepository
	pricing   *PricingRepository
	customers *CustomerRepository
}

func NewGateway(db *DB, spaces *SpaceRepository, txns *TransactionRepository, pricing *PricingRepository, customers *CustomerRepository) *Gateway {
	return &Gateway{db: db, spaces: spaces, txns: txns, pricing: pricing, customers: customers}
}

func (g *Gateway) GetSpace(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	return g.spaces.Get(ctx, lotID, number)
}

func (g *Gateway) SaveSpace(ctx context.Context, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return g.spaces.Save(ctx, s)
}

func (g *Gateway) ListSpaces(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	return g.spaces.List(ctx, lotID)
}

func (g *Gateway) ListClientSpaces(ctx context.Context, clientID string) ([]*space.ParkingSpace, error) {
	return g.spaces.ListByClient(ctx, clientID)
}

func (g *Gateway) SaveEntry(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return g.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := g.txns.CreateTx(ctx, tx, t); err != nil {
			return err
		}
		return g.spaces.SaveTx(ctx, tx, s)
	})
}

func (g *Gateway) SaveExit(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return g.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := g.txns.UpdateTx(ctx, tx, t); err != nil {
			return err
		}
		return g.spaces.SaveTx(ctx, tx, s)
	})
}

func (g *Gateway) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	return g.txns.GetByID(ctx, id)
}

func (g *Gateway) GetPricing(ctx context.Context, lotID string) (*pricing.Settings, error) {
	return g.pricing.Get(ctx, lotID)
}

func (g *Gateway) FindCustomerByPlate(ctx context.Context, plate string) (*customer.Customer, error) {
	return g.customers.FindByPlate(ctx, plate)
}
