package customer

import (
	"database/sql"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Customer is a registered client who can reserve spaces online.
// Plates holds every vehicle plate the customer has registered.
type Customer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     sql.NullString `json:"email"`
	Phone     sql.NullString `json:"phone"`
	Plates    []string       `json:"plates"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewID mints a customer identifier.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "cust_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// HasPlate reports whether the plate is registered to this customer.
// Matching ignores case so gate-side lookups never miss on it.
func (c *Customer) HasPlate(plate string) bool {
	for _, p := range c.Plates {
		if strings.EqualFold(p, plate) {
			return true
		}
	}
	return false
}
