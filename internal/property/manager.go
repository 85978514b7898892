package property

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
	ErrNotFound  = errors.New("property not found")
	ErrNotOwner  = errors.New("property belongs to another owner")
	ErrEmptyName = errors.New("property name is required")
)

// Manager handles business logic for properties.
type Manager struct {
	ds *Datastore
}

// NewManager creates a new property manager.
func NewManager(ds *Datastore) *Manager {
	return &Manager{ds: ds}
}

// Create validates and inserts a property for the given owner.
func (m *Manager) Create(ctx context.Context, ownerID uuid.UUID, name, address, notes string) (*Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	p := &Property{
		OwnerID: ownerID,
		Name:    name,
		Address: strings.TrimSpace(address),
		Notes:   notes,
	}

	if err := m.ds.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return p, nil
}

// GetOwned retrieves a property and verifies it belongs to the caller.
func (m *Manager) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*Property, error) {
	p, err := m.ds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// OwnerOf returns the owner of a property. Used by the job manager to
// verify a posting targets the caller's own property.
func (m *Manager) OwnerOf(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error) {
	p, err := m.ds.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p.OwnerID, nil
}

// ListByOwner retrieves the caller's properties.
func (m *Manager) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Property, error) {
	return m.ds.ListByOwner(ctx, ownerID)
}

// Update rewrites a property's mutable fields after an ownership check.
func (m *Manager) Update(ctx context.Context, ownerID uuid.UUID, p *Property) error {
	existing, err := m.GetOwned(ctx, p.ID, ownerID)
	if err != nil {
		return err
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrEmptyName
	}
	p.OwnerID = existing.OwnerID

	rowsAffected, err := m.ds.Update(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a property after an ownership check.
func (m *Manager) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := m.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}

	rowsAffected, err := m.ds.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
