package lot

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Lot is one parking facility owned by an operator.
type Lot struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initial layout applied to every newly created lot.
const (
	SeedSpaceCount = 20
	SeedVIPCount   = 5
)

// NewID mints a lot identifier.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "lot_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
