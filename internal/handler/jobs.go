package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"turnready/internal/job"
	"turnready/internal/profile"
)

// JobsHandler handles the job lifecycle: clients post, techs claim and
// complete. The route gate admits clients and techs; per-action role
// checks live here.
type JobsHandler struct {
	manager *job.Manager
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(manager *job.Manager) *JobsHandler {
	return &JobsHandler{manager: manager}
}

// createJobRequest is the JSON request for posting a job.
type createJobRequest struct {
	PropertyID   string     `json:"property_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// Create handles POST /api/jobs
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}
	if !callerHasRole(state, profile.RoleClient) {
		writeError(w, http.StatusForbidden, "only clients can post jobs")
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	propertyID, err := parseUUIDField(req.PropertyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid property ID")
		return
	}

	j, err := h.manager.Create(r.Context(), state.Identity.ID, propertyID, req.Title, req.Description, req.ScheduledFor)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrEmptyTitle):
			writeError(w, http.StatusBadRequest, "title is required")
		case errors.Is(err, job.ErrNotFound):
			writeError(w, http.StatusNotFound, "property not found")
		default:
			slog.Error("failed to create job", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create job")
		}
		return
	}

	writeJSON(w, http.StatusCreated, j)
}

// ListOpen handles GET /api/jobs/open — the browse board for techs.
func (h *JobsHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	jobs, err := h.manager.ListOpen(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		slog.Error("failed to list open jobs", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	writeJobs(w, jobs)
}

// List handles GET /api/jobs — the caller's own jobs: posted for
// clients, claimed for techs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	var (
		jobs []*job.Job
		err  error
	)
	switch {
	case callerHasRole(state, profile.RoleTech):
		jobs, err = h.manager.ListByTech(r.Context(), state.Identity.ID)
	default:
		jobs, err = h.manager.ListByClient(r.Context(), state.Identity.ID)
	}
	if err != nil {
		slog.Error("failed to list jobs", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	writeJobs(w, jobs)
}

// Get handles GET /api/jobs/{id}
// Open jobs are visible to anyone on the route; claimed and done jobs
// only to their participants and admins.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	j, err := h.manager.GetByID(r.Context(), id)
	if err != nil {
		h.writeJobError(w, err, "failed to get job")
		return
	}

	visible := j.Status == job.StatusOpen ||
		j.ClientID == state.Identity.ID ||
		(j.TechID != nil && *j.TechID == state.Identity.ID) ||
		callerIsAdmin(state)
	if !visible {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// Claim handles POST /api/jobs/{id}/claim
func (h *JobsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}
	if !callerHasRole(state, profile.RoleTech) {
		writeError(w, http.StatusForbidden, "only techs can claim jobs")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	j, err := h.manager.Claim(r.Context(), id, state.Identity.ID)
	if err != nil {
		if errors.Is(err, job.ErrNotClaimable) {
			writeError(w, http.StatusConflict, "job is not open for claiming")
			return
		}
		h.writeJobError(w, err, "failed to claim job")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

// Complete handles POST /api/jobs/{id}/complete
func (h *JobsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}
	if !callerHasRole(state, profile.RoleTech) {
		writeError(w, http.StatusForbidden, "only techs can complete jobs")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	j, err := h.manager.Complete(r.Context(), id, state.Identity.ID)
	if err != nil {
		if errors.Is(err, job.ErrNotHolder) {
			writeError(w, http.StatusConflict, "job is not claimed by you")
			return
		}
		h.writeJobError(w, err, "failed to complete job")
		return
	}

	writeJSON(w, http.StatusOK, j)
}

func (h *JobsHandler) writeJobError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, job.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	slog.Error(fallback, slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, fallback)
}

func writeJobs(w http.ResponseWriter, jobs []*job.Job) {
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
