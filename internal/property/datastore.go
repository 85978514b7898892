package property

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for properties.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new property datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Create inserts a new property.
func (ds *Datastore) Create(ctx context.Context, p *Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()

	query := `
		INSERT INTO properties (id, owner_id, name, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Address, p.Notes, now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a property by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	query := `
		SELECT id, owner_id, name, address, notes, created_at, updated_at
		FROM properties WHERE id = $1`

	p := &Property{}
	err := ds.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOwner retrieves all properties owned by an identity.
func (ds *Datastore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Property, error) {
	query := `
		SELECT id, owner_id, name, address, notes, created_at, updated_at
		FROM properties WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := ds.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*Property
	for rows.Next() {
		p := &Property{}
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update rewrites the mutable fields of a property.
func (ds *Datastore) Update(ctx context.Context, p *Property) (int64, error) {
	query := `
		UPDATE properties
		SET name = $2, address = $3, notes = $4, updated_at = $5
		WHERE id = $1`

	result, err := ds.db.ExecContext(ctx, query, p.ID, p.Name, p.Address, p.Notes, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a property.
func (ds *Datastore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM properties WHERE id = $1`
	result, err := ds.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
