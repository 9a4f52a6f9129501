// Package memory provides an in-process Gateway used by tests and local
// development. It stores deep copies so callers cannot mutate stored
// state without going through a save.
package memory

import (
	"context"
	"fmt"
	"sync"

	"parqueo-service/internal/domain/customer"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
	xerrors "parqueo-service/internal/pkg/errors"
)

type Gateway struct {
	mu        sync.RWMutex
	spaces    map[string]*space.ParkingSpace
	txns      map[string]*transaction.Transaction
	pricing   map[string]*pricing.Settings
	customers map[string]*customer.Customer
}

func NewGateway() *Gateway {
	return &Gateway{
		spaces:    make(map[string]*space.ParkingSpace),
		txns:      make(map[string]*transaction.Transaction),
		pricing:   make(map[string]*pricing.Settings),
		customers: make(map[string]*customer.Customer),
	}
}

func (g *Gateway) GetSpace(ctx context.Context, lotID, number string) (*space.ParkingSpace, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.spaces[space.SpaceID(lotID, number)]
	if !ok {
		return nil, fmt.Errorf("%w: space %s in lot %s", xerrors.ErrNotFound, number, lotID)
	}
	return copySpace(s), nil
}

func (g *Gateway) SaveSpace(ctx context.Context, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spaces[s.ID] = copySpace(s)
	return nil
}

func (g *Gateway) ListSpaces(ctx context.Context, lotID string) ([]*space.ParkingSpace, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*space.ParkingSpace
	for _, s := range g.spaces {
		if s.LotID == lotID {
			out = append(out, copySpace(s))
		}
	}
	return out, nil
}

// ListClientSpaces returns every space, in any lot, currently holding a
// client reservation for the given client.
func (g *Gateway) ListClientSpaces(ctx context.Context, clientID string) ([]*space.ParkingSpace, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*space.ParkingSpace
	for _, s := range g.spaces {
		if s.Reservation.Kind == space.ReservationClient && s.Reservation.ClientID == clientID {
			out = append(out, copySpace(s))
		}
	}
	return out, nil
}

// SaveEntry records an entry: the opened transaction and the occupied
// space are written together, so a validation failure on the space
// leaves no orphan transaction behind.
func (g *Gateway) SaveEntry(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.txns[t.ID]; exists {
		return fmt.Errorf("%w: transaction %s already exists", xerrors.ErrConflict, t.ID)
	}
	cp := *t
	g.txns[t.ID] = &cp
	g.spaces[s.ID] = copySpace(s)
	return nil
}

// SaveExit records an exit: the settled transaction and the freed space
// are written together.
func (g *Gateway) SaveExit(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.txns[t.ID]; !exists {
		return fmt.Errorf("%w: transaction %s", xerrors.ErrNotFound, t.ID)
	}
	cp := *t
	g.txns[t.ID] = &cp
	g.spaces[s.ID] = copySpace(s)
	return nil
}

func (g *Gateway) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.txns[t.ID]; exists {
		return fmt.Errorf("%w: transaction %s already exists", xerrors.ErrConflict, t.ID)
	}
	cp := *t
	g.txns[t.ID] = &cp
	return nil
}

func (g *Gateway) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.txns[t.ID]; !exists {
		return fmt.Errorf("%w: transaction %s", xerrors.ErrNotFound, t.ID)
	}
	cp := *t
	g.txns[t.ID] = &cp
	return nil
}

func (g *Gateway) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.txns[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", xerrors.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (g *Gateway) GetPricing(ctx context.Context, lotID string) (*pricing.Settings, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.pricing[lotID]
	if !ok {
		return nil, fmt.Errorf("%w: no pricing configured for lot %s", xerrors.ErrConfiguration, lotID)
	}
	return copyPricing(p), nil
}

// SavePricing stores the lot's pricing settings.
func (g *Gateway) SavePricing(ctx context.Context, p *pricing.Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pricing[p.LotID] = copyPricing(p)
	return nil
}

// SaveCustomer stores a customer profile for plate lookups.
func (g *Gateway) SaveCustomer(ctx context.Context, c *customer.Customer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *c
	cp.Plates = append([]string(nil), c.Plates...)
	g.customers[c.ID] = &cp
	return nil
}

func (g *Gateway) FindCustomerByPlate(ctx context.Context, plate string) (*customer.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.customers {
		if c.HasPlate(plate) {
			cp := *c
			cp.Plates = append([]string(nil), c.Plates...)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: no customer with plate %s", xerrors.ErrNotFound, plate)
}

func copySpace(s *space.ParkingSpace) *space.ParkingSpace {
	cp := *s
	if s.Occupied != nil {
		occ := *s.Occupied
		cp.Occupied = &occ
	}
	return &cp
}

func copyPricing(p *pricing.Settings) *pricing.Settings {
	cp := *p
	cp.Rates = make(map[pricing.VehicleType]pricing.Rate, len(p.Rates))
	for k, v := range p.Rates {
		cp.Rates[k] = v
	}
	return &cp
}
