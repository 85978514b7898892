package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the application role carried on a profile.
// A newly created profile has RoleUnset until the user (or an admin)
// picks one during onboarding.
type Role string

const (
	RoleUnset  Role = ""
	RoleClient Role = "client"
	RoleTech   Role = "tech"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string from user input.
// RoleUnset is not accepted here: it is a creation default, not something
// a caller may assign explicitly.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleTech, RoleAdmin:
		return Role(s), nil
	}
	return RoleUnset, fmt.Errorf("invalid role %q: must be client, tech, or admin", s)
}

// Valid reports whether the role is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleTech || r == RoleAdmin
}

// Profile is the application-owned record for an identity.
// There is at most one profile per identity (IdentityID is the primary key).
type Profile struct {
	IdentityID  uuid.UUID `json:"identity_id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
