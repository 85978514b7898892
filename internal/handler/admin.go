package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"turnready/internal/profile"
)

// AdminHandler handles the admin surface: listing profiles and
// assigning roles. The route gate only admits admins here.
type AdminHandler struct {
	profiles *profile.Manager
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(profiles *profile.Manager) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// ListProfiles handles GET /api/admin/profiles
func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		slog.Error("failed to list profiles", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// setRoleRequest is the JSON request for assigning a role.
type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PUT /api/admin/profiles/{id}/role
// This is the only place an admin role can be granted.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile ID")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	role, err := profile.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.SetRole(r.Context(), id, role); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to set role", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to set role")
		return
	}

	p, err := h.profiles.GetByIdentity(r.Context(), id)
	if err != nil {
		slog.Error("failed to load updated profile", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeleteProfile handles DELETE /api/admin/profiles/{id}
func (h *AdminHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile ID")
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to delete profile", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
