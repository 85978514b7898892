// Package routes is the static route composition: every mounted path
// pattern paired with the roles allowed to reach it. Configuration only; the
// server consults this table when mounting handlers so the access policy
// lives in one place.
package routes

import (
	"strings"

	"turnready/internal/profile"
)

// Access is the gating mode for a route.
type Access int

const (
	// Public routes are reachable without a session.
	Public Access = iota
	// Identity routes require a signed-in identity but no role (onboarding).
	Identity
	// Restricted routes require one of the listed roles.
	Restricted
)

// Route pairs a path pattern with its access policy.
type Route struct {
	Pattern string
	Access  Access
	Allowed []profile.Role
}

// table is the complete route composition. Admin is never listed on
// restricted routes: the elevation rule lives in gate.RoleSatisfies.
var table = []Route{
	{Pattern: "/health", Access: Public},
	{Pattern: "/metrics", Access: Public},
	{Pattern: "/api/auth", Access: Public},

	{Pattern: "/api/me", Access: Identity},

	{Pattern: "/api/properties", Access: Restricted, Allowed: []profile.Role{profile.RoleClient}},
	{Pattern: "/api/jobs", Access: Restricted, Allowed: []profile.Role{profile.RoleClient, profile.RoleTech}},
	{Pattern: "/api/part-requests", Access: Restricted, Allowed: []profile.Role{profile.RoleClient, profile.RoleTech}},
	{Pattern: "/api/reviews", Access: Restricted, Allowed: []profile.Role{profile.RoleClient, profile.RoleTech}},

	{Pattern: "/api/admin", Access: Restricted, Allowed: []profile.Role{profile.RoleAdmin}},
}

// Table returns the route composition. The returned slice is shared; callers
// must not mutate it.
func Table() []Route {
	return table
}

// Match returns the route entry governing a request path, longest pattern
// first. Unmatched paths fall through to not-found handling.
func Match(path string) (Route, bool) {
	var best Route
	found := false
	for _, r := range table {
		if path == r.Pattern || strings.HasPrefix(path, r.Pattern+"/") {
			if !found || len(r.Pattern) > len(best.Pattern) {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// AllowedFor returns the allow-list for a pattern, or false if the pattern
// is not in the table.
func AllowedFor(pattern string) ([]profile.Role, bool) {
	for _, r := range table {
		if r.Pattern == pattern {
			return r.Allowed, true
		}
	}
	return nil, false
}
