package lot

// CreateRequest registers a new parking lot. The lot is seeded with its
// initial spaces and default pricing on creation.
type CreateRequest struct {
	OwnerID string `json:"ownerId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// UpdateRequest renames or re-addresses a lot.
type UpdateRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ConfigureSpacesRequest rebuilds the lot's space layout from scratch:
// TotalSpaces numbered slots with the listed numbers marked VIP. Current
// occupancy and reservations are discarded.
type ConfigureSpacesRequest struct {
	TotalSpaces int      `json:"totalSpaces" binding:"required,gte=1"`
	VIPNumbers  []string `json:"vipNumbers"`
}

// AvailabilitySummary is the aggregate occupancy picture served to
// polling clients.
type AvailabilitySummary struct {
	LotID          string `json:"lotId"`
	TotalSpaces    int    `json:"totalSpaces"`
	FreeSpaces     int    `json:"freeSpaces"`
	OccupiedSpaces int    `json:"occupiedSpaces"`
	ReservedSpaces int    `json:"reservedSpaces"`
	Maintenance    int    `json:"maintenanceSpaces"`
	FreeVIP        int    `json:"freeVipSpaces"`
}
