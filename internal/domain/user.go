package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account kinds. Only clients hold bookings,
// only enterprises own airlines and flights.
type Role int

const (
	RoleClient Role = iota + 1
	RoleEnterprise
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "client":
		return RoleClient, nil
	case "enterprise":
		return RoleEnterprise, nil
	default:
		return 0, fmt.Errorf("unknown user type %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleEnterprise:
		return "enterprise"
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case RoleClient, RoleEnterprise:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsClient() bool {
	switch u.Role {
	case RoleClient:
		return true
	case RoleEnterprise:
		return false
	default:
		return false
	}
}

func (u User) IsEnterprise() bool {
	switch u.Role {
	case RoleEnterprise:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}
