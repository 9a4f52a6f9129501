package transaction

import (
	"time"

	"parqueo-service/internal/domain/pricing"
)

// View is the wire shape of a transaction. Nullable columns become
// omitted fields while the stay is active.
type View struct {
	ID              string              `json:"id"`
	LotID           string              `json:"lotId"`
	SpaceID         string              `json:"spaceId"`
	SpaceNumber     string              `json:"spaceNumber"`
	VehiclePlate    string              `json:"vehiclePlate"`
	VehicleType     pricing.VehicleType `json:"vehicleType"`
	IsVIPStay       bool                `json:"isVipStay"`
	EmployeeID      string              `json:"employeeId,omitempty"`
	CustomerID      string              `json:"customerId,omitempty"`
	CustomerName    string              `json:"customerName,omitempty"`
	EntryTime       time.Time           `json:"entryTime"`
	ExitTime        *time.Time          `json:"exitTime,omitempty"`
	OriginalFee     *float64            `json:"originalFee,omitempty"`
	DiscountPercent *float64            `json:"discountPercent,omitempty"`
	FinalFee        *float64            `json:"finalFee,omitempty"`
	Status          Status              `json:"status"`
}

// ToView projects the entity onto the wire shape.
func ToView(t *Transaction) View {
	v := View{
		ID:           t.ID,
		LotID:        t.LotID,
		SpaceID:      t.SpaceID,
		SpaceNumber:  t.SpaceNumber,
		VehiclePlate: t.VehiclePlate,
		VehicleType:  t.VehicleType,
		IsVIPStay:    t.IsVIPStay,
		EntryTime:    t.EntryTime,
		Status:       t.Status,
	}
	if t.EmployeeID.Valid {
		v.EmployeeID = t.EmployeeID.String
	}
	if t.CustomerID.Valid {
		v.CustomerID = t.CustomerID.String
	}
	if t.CustomerName.Valid {
		v.CustomerName = t.CustomerName.String
	}
	if t.ExitTime.Valid {
		et := t.ExitTime.Time
		v.ExitTime = &et
	}
	if t.OriginalFee.Valid {
		f := t.OriginalFee.Float64
		v.OriginalFee = &f
	}
	if t.DiscountPercent.Valid {
		d := t.DiscountPercent.Float64
		v.DiscountPercent = &d
	}
	if t.FinalFee.Valid {
		f := t.FinalFee.Float64
		v.FinalFee = &f
	}
	return v
}

// ToViews projects a slice.
func ToViews(txns []*Transaction) []View {
	out := make([]View, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToView(t))
	}
	return out
}

// HistoryFilter narrows the transaction listing. From and To bound the
// entry time; zero values leave the bound open.
type HistoryFilter struct {
	Plate      string    `form:"plate"`
	Status     Status    `form:"status"`
	EmployeeID string    `form:"employeeId"`
	From       time.Time `form:"from" time_format:"2006-01-02"`
	To         time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int       `form:"limit"`
}
