package job

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

// Datastore handles database operations for jobs.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new job datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const jobColumns = `id, property_id, client_id, tech_id, title, description, status, scheduled_for, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	j := &Job{}
	err := row.Scan(
		&j.ID, &j.PropertyID, &j.ClientID, &j.TechID, &j.Title, &j.Description,
		&j.Status, &j.ScheduledFor, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts a new open job.
func (ds *Datastore) Create(ctx context.Context, j *Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	j.Status = StatusOpen
	now := time.Now()

	query := `
		INSERT INTO jobs (id, property_id, client_id, title, description, status, scheduled_for, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		j.ID, j.PropertyID, j.ClientID, j.Title, j.Description, j.Status,
		j.ScheduledFor, now, now,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
}

// GetByID retrieves a job by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(ds.db.QueryRowContext(ctx, query, id))
}

// ListOpen retrieves open jobs, oldest first so early postings get seen.
func (ds *Datastore) ListOpen(ctx context.Context, limit, offset int) ([]*Job, error) {
	query := `
		SELECT ` + jobColumns + ` FROM jobs
		WHERE status = 'open'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`
	return ds.list(ctx, query, limit, offset)
}

// ListByClient retrieves jobs posted by a client, newest first.
func (ds *Datastore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Job, error) {
	query := `
		SELECT ` + jobColumns + ` FROM jobs
		WHERE client_id = $1
		ORDER BY created_at DESC`
	return ds.list(ctx, query, clientID)
}

// ListByTech retrieves jobs claimed by a tech, newest first.
func (ds *Datastore) ListByTech(ctx context.Context, techID uuid.UUID) ([]*Job, error) {
	query := `
		SELECT ` + jobColumns + ` FROM jobs
		WHERE tech_id = $1
		ORDER BY created_at DESC`
	return ds.list(ctx, query, techID)
}

func (ds *Datastore) list(ctx context.Context, query string, args ...any) ([]*Job, error) {
	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Claim atomically assigns an open job to a tech. The status guard in the
// WHERE clause makes two racing claims resolve to a single winner.
func (ds *Datastore) Claim(ctx context.Context, id, techID uuid.UUID) (int64, error) {
	query := `
		UPDATE jobs
		SET tech_id = $2, status = 'claimed', updated_at = $3
		WHERE id = $1 AND status = 'open'`

	result, err := ds.db.ExecContext(ctx, query, id, techID, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Complete marks a claimed job done, but only for the tech holding it.
func (ds *Datastore) Complete(ctx context.Context, id, techID uuid.UUID) (int64, error) {
	query := `
		UPDATE jobs
		SET status = 'done', updated_at = $3
		WHERE id = $1 AND tech_id = $2 AND status = 'claimed'`

	result, err := ds.db.ExecContext(ctx, query, id, techID, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
