package customer

// RegisterRequest creates a customer profile.
type RegisterRequest struct {
	Name   string   `json:"name" binding:"required"`
	Email  string   `json:"email" binding:"omitempty,email"`
	Phone  string   `json:"phone"`
	Plates []string `json:"plates"`
}

// UpdateRequest edits profile details. Empty fields are left untouched;
// Plates replaces the registered set when provided.
type UpdateRequest struct {
	Name   string   `json:"name"`
	Email  string   `json:"email" binding:"omitempty,email"`
	Phone  string   `json:"phone"`
	Plates []string `json:"plates"`
}

// View is the wire shape of a customer.
type View struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Plates []string `json:"plates"`
}

// ToView projects the entity onto the wire shape.
func ToView(c *Customer) View {
	v := View{ID: c.ID, Name: c.Name, Plates: c.Plates}
	if c.Email.Valid {
		v.Email = c.Email.String
	}
	if c.Phone.Valid {
		v.Phone = c.Phone.String
	}
	if v.Plates == nil {
		v.Plates = []string{}
	}
	return v
}
