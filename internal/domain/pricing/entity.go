package pricing

import "time"

// VehicleType keys the per-lot rate table. Values match the labels the
// operator-facing clients have always used.
type VehicleType string

const (
	VehicleAuto      VehicleType = "Auto"
	VehicleCamioneta VehicleType = "Camioneta"
	VehicleMoto      VehicleType = "Moto"
)

// Valid reports whether vt is one of the known vehicle types.
func (vt VehicleType) Valid() bool {
	switch vt {
	case VehicleAuto, VehicleCamioneta, VehicleMoto:
		return true
	}
	return false
}

// Rate is the tariff for one vehicle type: a flat fee covering any stay of
// up to one hour, and a per-minute rate that replaces it entirely for
// longer stays.
type Rate struct {
	MinutelyRate    float64 `json:"minutely_rate"`
	FirstHourMinFee float64 `json:"first_hour_min_fee"`
}

// Settings is the per-lot pricing configuration.
type Settings struct {
	LotID         string               `json:"lot_id,omitempty"`
	VIPMultiplier float64              `json:"vip_multiplier"`
	Rates         map[VehicleType]Rate `json:"rates"`
	UpdatedAt     time.Time            `json:"updated_at,omitempty"`
}

// DefaultSettings returns the pricing a newly created lot starts with.
func DefaultSettings() *Settings {
	return &Settings{
		VIPMultiplier: 1.5,
		Rates: map[VehicleType]Rate{
			VehicleAuto:      {MinutelyRate: 0.5, FirstHourMinFee: 30},
			VehicleCamioneta: {MinutelyRate: 0.7, FirstHourMinFee: 42},
			VehicleMoto:      {MinutelyRate: 0.3, FirstHourMinFee: 18},
		},
	}
}

// DiscountCodes is the fixed code-to-percent table honored at exit. An
// unknown code is a validation error, not a zero discount.
var DiscountCodes = map[string]float64{
	"NITU10":  10,
	"SAVE20":  20,
	"PROMO50": 50,
}
