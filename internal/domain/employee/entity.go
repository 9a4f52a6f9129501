package employee

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role within a lot.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleOperator Role = "operator"
)

// Employee is a staff member attached to one lot.
type Employee struct {
	ID        string    `json:"id"`
	LotID     string    `json:"lot_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID mints an employee identifier.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "emp_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleOperator
}
