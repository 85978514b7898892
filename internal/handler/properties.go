package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"turnready/internal/property"
)

// PropertiesHandler handles a client's property CRUD. Ownership is
// enforced in the manager; the handler only supplies the caller.
type PropertiesHandler struct {
	manager *property.Manager
}

// NewPropertiesHandler creates a new properties handler.
func NewPropertiesHandler(manager *property.Manager) *PropertiesHandler {
	return &PropertiesHandler{manager: manager}
}

// propertyRequest is the JSON request for creating or updating a property.
type propertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Create handles POST /api/properties
func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := h.manager.Create(r.Context(), state.Identity.ID, req.Name, req.Address, req.Notes)
	if err != nil {
		if errors.Is(err, property.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		slog.Error("failed to create property", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to create property")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// List handles GET /api/properties
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	properties, err := h.manager.ListByOwner(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("failed to list properties", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list properties")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"properties": properties,
		"count":      len(properties),
	})
}

// Get handles GET /api/properties/{id}
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid property ID")
		return
	}

	p, err := h.manager.GetOwned(r.Context(), id, state.Identity.ID)
	if err != nil {
		h.writePropertyError(w, err, "failed to get property")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/properties/{id}
func (h *PropertiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid property ID")
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p := &property.Property{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := h.manager.Update(r.Context(), state.Identity.ID, p); err != nil {
		if errors.Is(err, property.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		h.writePropertyError(w, err, "failed to update property")
		return
	}

	updated, err := h.manager.GetOwned(r.Context(), id, state.Identity.ID)
	if err != nil {
		h.writePropertyError(w, err, "failed to get property")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/properties/{id}
func (h *PropertiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid property ID")
		return
	}

	if err := h.manager.Delete(r.Context(), id, state.Identity.ID); err != nil {
		h.writePropertyError(w, err, "failed to delete property")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writePropertyError maps manager errors to HTTP responses. Another
// owner's property reads as not found so IDs are not probeable.
func (h *PropertiesHandler) writePropertyError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, property.ErrNotFound) || errors.Is(err, property.ErrNotOwner) {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	slog.Error(fallback, slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, fallback)
}
