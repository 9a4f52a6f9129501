package waitlist

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Status of a waiting-list entry.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// Entry queues a client for a lot that currently has no bookable space.
// Entries are served in creation order.
type Entry struct {
	ID           string    `json:"id"`
	LotID        string    `json:"lot_id"`
	ClientID     string    `json:"client_id"`
	VehiclePlate string    `json:"vehicle_plate"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewID mints a waiting-list entry identifier.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "wait_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
