package engine

import (
	"context"
	"time"

	"parqueo-service/internal/domain/customer"
	"parqueo-service/internal/domain/pricing"
	"parqueo-service/internal/domain/space"
	"parqueo-service/internal/domain/transaction"
)

// Gateway is the persistence surface the engine runs against. Production
// binds it to postgres; tests bind it to the in-memory store. SaveSpace
// persists the full record, so a transition that fails before saving
// leaves the stored state untouched. SaveEntry and SaveExit persist the
// transaction and the space as one unit: either both land or neither.
type Gateway interface {
	GetSpace(ctx context.Context, lotID, number string) (*space.ParkingSpace, error)
	SaveSpace(ctx context.Context, s *space.ParkingSpace) error
	ListSpaces(ctx context.Context, lotID string) ([]*space.ParkingSpace, error)
	ListClientSpaces(ctx context.Context, clientID string) ([]*space.ParkingSpace, error)

	SaveEntry(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error
	SaveExit(ctx context.Context, t *transaction.Transaction, s *space.ParkingSpace) error
	GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error)

	GetPricing(ctx context.Context, lotID string) (*pricing.Settings, error)
	FindCustomerByPlate(ctx context.Context, plate string) (*customer.Customer, error)
}

// Clock supplies current time so transitions and fee computations are
// testable against fixed instants.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// endOfDay returns the last instant of t's calendar day in t's location.
// Client reservations expire at this boundary.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
