package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"turnready/internal/job"
	"turnready/internal/partreq"
	"turnready/internal/profile"
)

// PartRequestsHandler handles part requests: techs raise them against
// jobs they hold, the owning client (or an admin) decides them.
type PartRequestsHandler struct {
	manager *partreq.Manager
}

// NewPartRequestsHandler creates a new part requests handler.
func NewPartRequestsHandler(manager *partreq.Manager) *PartRequestsHandler {
	return &PartRequestsHandler{manager: manager}
}

// createPartRequestRequest is the JSON request for raising a part request.
type createPartRequestRequest struct {
	JobID       string `json:"job_id"`
	Description string `json:"description"`
}

// Create handles POST /api/part-requests
func (h *PartRequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}
	if !callerHasRole(state, profile.RoleTech) {
		writeError(w, http.StatusForbidden, "only techs can request parts")
		return
	}

	var req createPartRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	jobID, err := parseUUIDField(req.JobID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	pr, err := h.manager.Create(r.Context(), jobID, state.Identity.ID, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, partreq.ErrEmptyDescription):
			writeError(w, http.StatusBadRequest, "description is required")
		case errors.Is(err, partreq.ErrNotJobTech):
			writeError(w, http.StatusForbidden, "job is not claimed by you")
		case errors.Is(err, job.ErrNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		default:
			slog.Error("failed to create part request", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create part request")
		}
		return
	}

	writeJSON(w, http.StatusCreated, pr)
}

// ListByJob handles GET /api/part-requests/job/{jobID}
func (h *PartRequestsHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	jobID, err := parseID(r, "jobID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	requests, err := h.manager.ListByJob(r.Context(), jobID, state.Identity.ID, callerIsAdmin(state))
	if err != nil {
		switch {
		case errors.Is(err, partreq.ErrNotJobClient):
			writeError(w, http.StatusForbidden, "not a participant on this job")
		case errors.Is(err, job.ErrNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		default:
			slog.Error("failed to list part requests", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to list part requests")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"part_requests": requests,
		"count":         len(requests),
	})
}

// Approve handles POST /api/part-requests/{id}/approve
func (h *PartRequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// Reject handles POST /api/part-requests/{id}/reject
func (h *PartRequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *PartRequestsHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid part request ID")
		return
	}

	pr, err := h.manager.Decide(r.Context(), id, state.Identity.ID, callerIsAdmin(state), approve)
	if err != nil {
		switch {
		case errors.Is(err, partreq.ErrNotFound):
			writeError(w, http.StatusNotFound, "part request not found")
		case errors.Is(err, partreq.ErrNotJobClient):
			writeError(w, http.StatusForbidden, "only the job's client can decide this")
		case errors.Is(err, partreq.ErrAlreadyDecided):
			writeError(w, http.StatusConflict, "part request has already been decided")
		case errors.Is(err, job.ErrNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		default:
			slog.Error("failed to decide part request", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to decide part request")
		}
		return
	}

	writeJSON(w, http.StatusOK, pr)
}
