package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound     = errors.New("job not found")
	ErrEmptyTitle   = errors.New("job title is required")
	ErrNotClaimable = errors.New("job is not open for claiming")
	ErrNotHolder    = errors.New("job is claimed by another tech")
)

// PropertyChecker verifies that a property exists and belongs to an owner.
// Satisfied by property.Manager.
type PropertyChecker interface {
	OwnerOf(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error)
}

// Manager handles business logic for jobs.
type Manager struct {
	ds         *Datastore
	properties PropertyChecker
}

// NewManager creates a new job manager.
func NewManager(ds *Datastore, properties PropertyChecker) *Manager {
	return &Manager{ds: ds, properties: properties}
}

// Create posts a new job against one of the client's properties.
func (m *Manager) Create(ctx context.Context, clientID, propertyID uuid.UUID, title, description string, scheduledFor *time.Time) (*Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	ownerID, err := m.properties.OwnerOf(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if ownerID != clientID {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}

	j := &Job{
		PropertyID:   propertyID,
		ClientID:     clientID,
		Title:        title,
		Description:  description,
		ScheduledFor: scheduledFor,
	}

	if err := m.ds.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// GetByID retrieves a job.
func (m *Manager) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListOpen retrieves the open job board for techs.
func (m *Manager) ListOpen(ctx context.Context, limit, offset int) ([]*Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return m.ds.ListOpen(ctx, limit, offset)
}

// ListByClient retrieves jobs the client posted.
func (m *Manager) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Job, error) {
	return m.ds.ListByClient(ctx, clientID)
}

// ListByTech retrieves jobs the tech has claimed.
func (m *Manager) ListByTech(ctx context.Context, techID uuid.UUID) ([]*Job, error) {
	return m.ds.ListByTech(ctx, techID)
}

// Claim assigns an open job to the calling tech.
func (m *Manager) Claim(ctx context.Context, id, techID uuid.UUID) (*Job, error) {
	rowsAffected, err := m.ds.Claim(ctx, id, techID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}
	if rowsAffected == 0 {
		// Either the job does not exist or someone claimed it first.
		if _, err := m.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotClaimable
	}
	return m.GetByID(ctx, id)
}

// Complete marks the tech's claimed job as done.
func (m *Manager) Complete(ctx context.Context, id, techID uuid.UUID) (*Job, error) {
	rowsAffected, err := m.ds.Complete(ctx, id, techID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete job: %w", err)
	}
	if rowsAffected == 0 {
		j, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if j.TechID == nil || *j.TechID != techID {
			return nil, ErrNotHolder
		}
		return nil, fmt.Errorf("job %s is %s, not claimed", id, j.Status)
	}
	return m.GetByID(ctx, id)
}
