package authn

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// credential is an identity row including its password hash.
// It never leaves this package.
type credential struct {
	Identity
	PasswordHash string
}

// Datastore handles database operations for identities.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new identity datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// CreateIdentity inserts a new identity with its password hash.
func (ds *Datastore) CreateIdentity(ctx context.Context, email, passwordHash string) (*Identity, error) {
	now := time.Now()
	identity := &Identity{ID: uuid.New(), Email: email}

	query := `
		INSERT INTO identities (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := ds.db.QueryRowContext(ctx, query,
		identity.ID, email, passwordHash, now, now,
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// getByEmail retrieves an identity and its password hash by email.
func (ds *Datastore) getByEmail(ctx context.Context, email string) (*credential, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities WHERE email = $1`

	c := &credential{}
	err := ds.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves an identity by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	query := `
		SELECT id, email, created_at, updated_at
		FROM identities WHERE id = $1`

	identity := &Identity{}
	err := ds.db.QueryRowContext(ctx, query, id).Scan(
		&identity.ID, &identity.Email, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// EmailExists checks whether an email is already registered.
func (ds *Datastore) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM identities WHERE email = $1)`
	var exists bool
	err := ds.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}
