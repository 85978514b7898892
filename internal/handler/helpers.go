package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"turnready/internal/gate"
	"turnready/internal/profile"
	"turnready/internal/session"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"message": message,
		},
	})
}

// parseID extracts a UUID path parameter from the request.
func parseID(r *http.Request, param string) (uuid.UUID, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return uuid.Nil, errors.New("missing " + param)
	}
	return uuid.Parse(idStr)
}

// caller returns the session state the gate attached to the request.
// The bool is false only when a handler is reached without passing the
// gate, which is a wiring bug.
func caller(w http.ResponseWriter, r *http.Request) (session.State, bool) {
	state, ok := gate.FromContext(r.Context())
	if !ok || state.Identity == nil {
		slog.Error("handler reached without gated session", slog.String("path", r.URL.Path))
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return session.State{}, false
	}
	return state, true
}

// callerHasRole reports whether the caller holds exactly the given role.
// Action-level checks are exact on purpose: the gate's admin elevation
// grants route access, not the right to act as a client or tech.
func callerHasRole(state session.State, role profile.Role) bool {
	return state.Profile != nil && state.Profile.Role == role
}

func callerIsAdmin(state session.State) bool {
	return callerHasRole(state, profile.RoleAdmin)
}

// parseUUIDField parses a UUID carried in a JSON request body.
func parseUUIDField(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, errors.New("missing ID")
	}
	return uuid.Parse(s)
}

// queryInt reads an integer query parameter, zero when absent or bad.
// Managers apply their own bounds.
func queryInt(r *http.Request, param string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(param))
	return n
}
