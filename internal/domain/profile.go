package domain

import "time"

// Role represents the access level of a profile.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Profile is the internal account record linked to an external identity.
// Every other entity references a profile by id.
type Profile struct {
	ID         string
	ExternalID string
	Role       Role
	Name       string
	SchoolName string
	CreatedAt  time.Time
}

// IsAdmin reports whether the profile may use admin overrides.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
