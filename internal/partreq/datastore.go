package partreq

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

// Datastore handles database operations for part requests.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new part request datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Create inserts a new pending part request.
func (ds *Datastore) Create(ctx context.Context, pr *PartRequest) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	pr.Status = StatusPending
	now := time.Now()

	query := `
		INSERT INTO part_requests (id, job_id, tech_id, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		pr.ID, pr.JobID, pr.TechID, pr.Description, pr.Status, now, now,
	).Scan(&pr.CreatedAt, &pr.UpdatedAt)
}

// GetByID retrieves a part request by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*PartRequest, error) {
	query := `
		SELECT id, job_id, tech_id, description, status, created_at, updated_at
		FROM part_requests WHERE id = $1`

	pr := &PartRequest{}
	err := ds.db.QueryRowContext(ctx, query, id).Scan(
		&pr.ID, &pr.JobID, &pr.TechID, &pr.Description, &pr.Status,
		&pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// ListByJob retrieves all part requests raised against a job.
func (ds *Datastore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*PartRequest, error) {
	query := `
		SELECT id, job_id, tech_id, description, status, created_at, updated_at
		FROM part_requests WHERE job_id = $1
		ORDER BY created_at ASC`

	rows, err := ds.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*PartRequest
	for rows.Next() {
		pr := &PartRequest{}
		if err := rows.Scan(
			&pr.ID, &pr.JobID, &pr.TechID, &pr.Description, &pr.Status,
			&pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

// SetStatus moves a pending request to approved or rejected.
func (ds *Datastore) SetStatus(ctx context.Context, id uuid.UUID, status Status) (int64, error) {
	query := `
		UPDATE part_requests
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`

	result, err := ds.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
