package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"turnready/internal/profile"
)

// MeHandler serves the caller's own identity and profile. It sits behind
// the identity gate, not the role gate, so freshly signed-up accounts can
// reach it to finish onboarding.
type MeHandler struct {
	profiles *profile.Manager
}

// NewMeHandler creates a new me handler.
func NewMeHandler(profiles *profile.Manager) *MeHandler {
	return &MeHandler{profiles: profiles}
}

// meResponse is the JSON response for the caller's own account.
// Profile is null until onboarding creates one.
type meResponse struct {
	Identity any              `json:"identity"`
	Profile  *profile.Profile `json:"profile"`
}

// Get handles GET /api/me
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.GetByIdentity(r.Context(), state.Identity.ID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		slog.Error("failed to load profile", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Identity: state.Identity, Profile: p})
}

// upsertProfileRequest is the JSON request for creating or updating the
// caller's profile. Role is optional on update; an empty role keeps the
// current one.
type upsertProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

// Upsert handles PUT /api/me
func (h *MeHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	role := profile.RoleUnset
	if req.Role != "" {
		parsed, err := profile.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Self-service onboarding never grants admin.
		if parsed == profile.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role cannot be self-assigned")
			return
		}
		role = parsed
	}

	p := &profile.Profile{
		IdentityID:  state.Identity.ID,
		Role:        role,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Email:       state.Identity.Email,
	}

	if err := h.profiles.Upsert(r.Context(), p); err != nil {
		if errors.Is(err, profile.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "display name is required")
			return
		}
		slog.Error("failed to upsert profile", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	saved, err := h.profiles.GetByIdentity(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("failed to load saved profile", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Identity: state.Identity, Profile: saved})
}
