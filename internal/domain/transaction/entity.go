package transaction

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"parqueo-service/internal/domain/pricing"
)

// Status of a parking transaction.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Transaction is one stay: opened at vehicle entry, closed with the
// computed fee at exit. The vehicle type, attending employee and the
// resolved customer are captured at entry so the exit can be priced and
// audited from the stored record alone. Fee columns stay NULL while the
// stay is active.
type Transaction struct {
	ID              string              `json:"id"`
	LotID           string              `json:"lot_id"`
	SpaceID         string              `json:"space_id"`
	SpaceNumber     string              `json:"space_number"`
	VehiclePlate    string              `json:"vehicle_plate"`
	VehicleType     pricing.VehicleType `json:"vehicle_type"`
	IsVIPStay       bool                `json:"is_vip_stay"`
	EmployeeID      sql.NullString      `json:"employee_id"`
	CustomerID      sql.NullString      `json:"customer_id"`
	CustomerName    sql.NullString      `json:"customer_name"`
	EntryTime       time.Time           `json:"entry_time"`
	ExitTime        sql.NullTime        `json:"exit_time"`
	OriginalFee     sql.NullFloat64     `json:"original_fee"`
	DiscountPercent sql.NullFloat64     `json:"discount_percent"`
	FinalFee        sql.NullFloat64     `json:"final_fee"`
	Status          Status              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// NewID mints a lexically sortable transaction identifier.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "txn_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Open starts a stay for the given vehicle and space.
func Open(lotID, spaceID, spaceNumber, plate string, vt pricing.VehicleType, isVIP bool, employeeID string, entry time.Time) *Transaction {
	return &Transaction{
		ID:           NewID(entry),
		LotID:        lotID,
		SpaceID:      spaceID,
		SpaceNumber:  spaceNumber,
		VehiclePlate: plate,
		VehicleType:  vt,
		IsVIPStay:    isVIP,
		EmployeeID:   sql.NullString{String: employeeID, Valid: employeeID != ""},
		EntryTime:    entry,
		Status:       StatusActive,
		CreatedAt:    entry,
	}
}

// AttachCustomer records the resolved owner of the plate.
func (t *Transaction) AttachCustomer(id, name string) {
	t.CustomerID = sql.NullString{String: id, Valid: id != ""}
	t.CustomerName = sql.NullString{String: name, Valid: name != ""}
}

// Close stamps the exit time and settled fee figures.
func (t *Transaction) Close(exit time.Time, originalFee, discountPercent, finalFee float64) {
	t.ExitTime = sql.NullTime{Time: exit, Valid: true}
	t.OriginalFee = sql.NullFloat64{Float64: originalFee, Valid: true}
	t.DiscountPercent = sql.NullFloat64{Float64: discountPercent, Valid: true}
	t.FinalFee = sql.NullFloat64{Float64: finalFee, Valid: true}
	t.Status = StatusCompleted
}
