package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrNotFound    = errors.New("profile not found")
	ErrInvalidRole = errors.New("invalid role")
	ErrEmptyName   = errors.New("display name is required")
)

// Store is the read interface the session loader depends on.
// Defined here so tests can substitute a fake without a database.
type Store interface {
	GetByIdentity(ctx context.Context, identityID uuid.UUID) (*Profile, error)
}

// Manager handles business logic for profiles.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new profile manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// GetByIdentity retrieves the profile for an identity.
func (m *Manager) GetByIdentity(ctx context.Context, identityID uuid.UUID) (*Profile, error) {
	p, err := m.ds.GetByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Upsert creates or updates the profile for an identity.
// A zero Role leaves any previously assigned role intact.
func (m *Manager) Upsert(ctx context.Context, p *Profile) error {
	if p.Role != RoleUnset && !p.Role.Valid() {
		return ErrInvalidRole
	}

	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		return ErrEmptyName
	}

	if err := m.ds.Upsert(ctx, p); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// SetRole assigns a role to an identity's profile.
func (m *Manager) SetRole(ctx context.Context, identityID uuid.UUID, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	rowsAffected, err := m.ds.SetRole(ctx, identityID, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves profiles with pagination. Admin surface only.
func (m *Manager) List(ctx context.Context, limit, offset int) ([]*Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return m.ds.List(ctx, limit, offset)
}

// Delete removes the profile for an identity.
func (m *Manager) Delete(ctx context.Context, identityID uuid.UUID) error {
	rowsAffected, err := m.ds.Delete(ctx, identityID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
