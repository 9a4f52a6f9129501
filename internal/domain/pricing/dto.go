package pricing

// UpdateSettingsRequest replaces a lot's pricing configuration.
type UpdateSettingsRequest struct {
	VIPMultiplier float64              `json:"vipMultiplier" binding:"required,gte=1"`
	Rates         map[VehicleType]Rate `json:"rates" binding:"required"`
}

// ExitRequest settles an occupied space. The stay is priced from the
// vehicle type recorded at entry; the discount code, when given,
// overrides the manual percentage.
type ExitRequest struct {
	DiscountCode    string  `json:"discountCode"`
	DiscountPercent float64 `json:"discountPercent" binding:"gte=0,lte=100"`
}

// FeePreviewRequest quotes the current fee for an occupied space without
// closing its transaction.
type FeePreviewRequest struct {
	DiscountCode    string  `json:"discountCode"`
	DiscountPercent float64 `json:"discountPercent" binding:"gte=0,lte=100"`
}
