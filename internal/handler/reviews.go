package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"turnready/internal/job"
	"turnready/internal/profile"
	"turnready/internal/review"
)

// ReviewsHandler handles reviews: the client who owned a completed job
// rates its tech, once.
type ReviewsHandler struct {
	manager *review.Manager
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(manager *review.Manager) *ReviewsHandler {
	return &ReviewsHandler{manager: manager}
}

// createReviewRequest is the JSON request for leaving a review.
type createReviewRequest struct {
	JobID   string `json:"job_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/reviews
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	state, ok := caller(w, r)
	if !ok {
		return
	}
	if !callerHasRole(state, profile.RoleClient) {
		writeError(w, http.StatusForbidden, "only clients can leave reviews")
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	jobID, err := parseUUIDField(req.JobID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	rev, err := h.manager.Create(r.Context(), jobID, state.Identity.ID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		case errors.Is(err, review.ErrNotJobClient):
			writeError(w, http.StatusForbidden, "only the job's client can leave a review")
		case errors.Is(err, review.ErrJobNotDone):
			writeError(w, http.StatusConflict, "job is not done yet")
		case errors.Is(err, review.ErrNoTech), errors.Is(err, review.ErrAlreadyReviewed):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, job.ErrNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		default:
			slog.Error("failed to create review", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create review")
		}
		return
	}

	writeJSON(w, http.StatusCreated, rev)
}

// ListByTech handles GET /api/reviews/tech/{techID}
// Any client or tech on the route can read a tech's reviews.
func (h *ReviewsHandler) ListByTech(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	techID, err := parseID(r, "techID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tech ID")
		return
	}

	reviews, err := h.manager.ListByTech(r.Context(), techID)
	if err != nil {
		slog.Error("failed to list reviews", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
