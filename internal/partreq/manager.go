package partreq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"turnready/internal/job"
)

// Domain errors
var (
	ErrNotFound         = errors.New("part request not found")
	ErrEmptyDescription = errors.New("part description is required")
	ErrNotJobTech       = errors.New("only the tech holding the job can request parts")
	ErrNotJobClient     = errors.New("only the job's client can decide a part request")
	ErrAlreadyDecided   = errors.New("part request has already been decided")
)

// JobStore is the slice of the job manager this package depends on.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// Manager handles business logic for part requests.
type Manager struct {
	ds   *Datastore
	jobs JobStore
}

// NewManager creates a new part request manager.
func NewManager(ds *Datastore, jobs JobStore) *Manager {
	return &Manager{ds: ds, jobs: jobs}
}

// Create raises a part request against a job the tech holds.
func (m *Manager) Create(ctx context.Context, jobID, techID uuid.UUID, description string) (*PartRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	j, err := m.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.TechID == nil || *j.TechID != techID {
		return nil, ErrNotJobTech
	}

	pr := &PartRequest{
		JobID:       jobID,
		TechID:      techID,
		Description: description,
	}

	if err := m.ds.Create(ctx, pr); err != nil {
		return nil, fmt.Errorf("failed to create part request: %w", err)
	}
	return pr, nil
}

// ListByJob retrieves the part requests for a job, visible to its client
// and its tech. isAdmin callers skip the participant check.
func (m *Manager) ListByJob(ctx context.Context, jobID, callerID uuid.UUID, isAdmin bool) ([]*PartRequest, error) {
	j, err := m.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	participant := j.ClientID == callerID || (j.TechID != nil && *j.TechID == callerID)
	if !participant && !isAdmin {
		return nil, ErrNotJobClient
	}

	return m.ds.ListByJob(ctx, jobID)
}

// Decide approves or rejects a pending part request. Only the client who
// owns the job (or an admin) may decide.
func (m *Manager) Decide(ctx context.Context, id, callerID uuid.UUID, isAdmin bool, approve bool) (*PartRequest, error) {
	pr, err := m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	j, err := m.jobs.GetByID(ctx, pr.JobID)
	if err != nil {
		return nil, err
	}
	if j.ClientID != callerID && !isAdmin {
		return nil, ErrNotJobClient
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	rowsAffected, err := m.ds.SetStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to decide part request: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrAlreadyDecided
	}

	return m.getByID(ctx, id)
}

func (m *Manager) getByID(ctx context.Context, id uuid.UUID) (*PartRequest, error) {
	pr, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get part request: %w", err)
	}
	return pr, nil
}
