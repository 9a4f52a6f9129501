package waitlist

// JoinRequest queues a client for the next bookable space in a lot.
type JoinRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	VehiclePlate string `json:"vehiclePlate" binding:"required"`
}
