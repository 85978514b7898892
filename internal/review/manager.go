package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"turnready/internal/job"
)

// Domain errors
var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotJobClient    = errors.New("only the job's client can leave a review")
	ErrJobNotDone      = errors.New("job must be done before it can be reviewed")
	ErrAlreadyReviewed = errors.New("job has already been reviewed")
	ErrNoTech          = errors.New("job has no tech to review")
)

// JobStore is the slice of the job manager this package depends on.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// Manager handles business logic for reviews.
type Manager struct {
	ds   *Datastore
	jobs JobStore
}

// NewManager creates a new review manager.
func NewManager(ds *Datastore, jobs JobStore) *Manager {
	return &Manager{ds: ds, jobs: jobs}
}

// Create leaves a review on a completed job. Only the client who posted
// the job may review, once, and only after the job is done.
func (m *Manager) Create(ctx context.Context, jobID, authorID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	j, err := m.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.ClientID != authorID {
		return nil, ErrNotJobClient
	}
	if j.Status != job.StatusDone {
		return nil, ErrJobNotDone
	}
	if j.TechID == nil {
		return nil, ErrNoTech
	}

	exists, err := m.ds.ExistsForJobAndAuthor(ctx, jobID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	r := &Review{
		JobID:    jobID,
		AuthorID: authorID,
		TechID:   *j.TechID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}

	if err := m.ds.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return r, nil
}

// ListByTech retrieves the reviews left for a tech.
func (m *Manager) ListByTech(ctx context.Context, techID uuid.UUID) ([]*Review, error) {
	return m.ds.ListByTech(ctx, techID)
}
