// Package gate decides, per route render, whether the current session may
// proceed, and enforces the decision over HTTP.
package gate

import (
	"turnready/internal/profile"
	"turnready/internal/session"
)

// Decision is the outcome of evaluating a session against a route's
// allowed roles.
type Decision int

const (
	// Checking: the session is still resolving; no redirect decision yet.
	Checking Decision = iota
	// Unauthenticated: no identity, no profile, or no role. Send to login.
	Unauthenticated
	// Forbidden: a role is present but not allowed here. Send home.
	Forbidden
	// Authorized: render the protected content.
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Checking:
		return "checking"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// RoleSatisfies reports whether a role grants access to a route with the
// given allow-list. The admin elevation rule lives here and only here:
// admin satisfies every restricted route without being listed on each one.
// An unset or invalid role satisfies nothing.
func RoleSatisfies(role profile.Role, allowed []profile.Role) bool {
	if !role.Valid() {
		return false
	}
	if role == profile.RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Evaluate runs the access decision for a session state against a route's
// allowed roles. An identity without a profile, or a profile without a
// role, is treated the same as never having logged in: the user is sent
// back through login/onboarding rather than shown an error.
func Evaluate(state session.State, allowed []profile.Role) Decision {
	if state.Loading {
		return Checking
	}
	if state.Identity == nil || state.Profile == nil || !state.Profile.Role.Valid() {
		return Unauthenticated
	}
	if !RoleSatisfies(state.Profile.Role, allowed) {
		return Forbidden
	}
	return Authorized
}
