package profile

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

// Datastore handles database operations for profiles.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new profile datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// GetByIdentity retrieves the profile for an identity.
func (ds *Datastore) GetByIdentity(ctx context.Context, identityID uuid.UUID) (*Profile, error) {
	query := `
		SELECT identity_id, role, display_name, phone, email, created_at, updated_at
		FROM profiles WHERE identity_id = $1`

	p := &Profile{}
	err := ds.db.QueryRowContext(ctx, query, identityID).Scan(
		&p.IdentityID, &p.Role, &p.DisplayName, &p.Phone, &p.Email,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert creates or updates the profile for an identity.
// Role is only written when the incoming profile carries one: an upsert from
// a setup flow must not wipe a role an admin already assigned.
func (ds *Datastore) Upsert(ctx context.Context, p *Profile) error {
	now := time.Now()

	query := `
		INSERT INTO profiles (identity_id, role, display_name, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identity_id)
		DO UPDATE SET
			role = CASE WHEN EXCLUDED.role = '' THEN profiles.role ELSE EXCLUDED.role END,
			display_name = EXCLUDED.display_name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING role, created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		p.IdentityID, p.Role, p.DisplayName, p.Phone, p.Email, now, now,
	).Scan(&p.Role, &p.CreatedAt, &p.UpdatedAt)
}

// SetRole sets the role for an identity's profile.
func (ds *Datastore) SetRole(ctx context.Context, identityID uuid.UUID, role Role) (int64, error) {
	query := `UPDATE profiles SET role = $2, updated_at = $3 WHERE identity_id = $1`
	result, err := ds.db.ExecContext(ctx, query, identityID, role, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// List retrieves profiles ordered by creation time, newest first.
func (ds *Datastore) List(ctx context.Context, limit, offset int) ([]*Profile, error) {
	query := `
		SELECT identity_id, role, display_name, phone, email, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := ds.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(
			&p.IdentityID, &p.Role, &p.DisplayName, &p.Phone, &p.Email,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes the profile for an identity.
func (ds *Datastore) Delete(ctx context.Context, identityID uuid.UUID) (int64, error) {
	query := `DELETE FROM profiles WHERE identity_id = $1`
	result, err := ds.db.ExecContext(ctx, query, identityID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
