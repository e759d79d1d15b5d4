package domain

import "time"

type Airline struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	EnterpriseID int64     `json:"enterprise_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnedBy reports whether the enterprise user owns the airline.
func (a Airline) OwnedBy(u User) bool {
	return u.IsEnterprise() && a.EnterpriseID == u.ID
}

// Airport is keyed by its three-letter IATA code.
type Airport struct {
	Code      string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Airplane is keyed by its registration plate.
type Airplane struct {
	Plate     string    `json:"plate"`
	Model     string    `json:"model"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
