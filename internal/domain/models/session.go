package models

import "time"

// Role is the coarse access level chosen at login.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOwner
}

// Session is the explicit per-client login state handed to role-gated components.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsOwner reports whether the session may manage products, sales and cash.
func (s *Session) IsOwner() bool {
	return s != nil && s.Role == RoleOwner
}
