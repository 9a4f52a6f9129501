package employee

// CreateRequest adds a staff member to a lot.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
	Role Role   `json:"role" binding:"required"`
}

// UpdateRequest edits a staff member. Active toggles account status.
type UpdateRequest struct {
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Active *bool  `json:"active"`
}
