package review

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

// Datastore handles database operations for reviews.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new review datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Create inserts a new review.
func (ds *Datastore) Create(ctx context.Context, r *Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	query := `
		INSERT INTO reviews (id, job_id, author_id, tech_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return ds.db.QueryRowContext(ctx, query,
		r.ID, r.JobID, r.AuthorID, r.TechID, r.Rating, r.Comment, time.Now(),
	).Scan(&r.CreatedAt)
}

// ListByTech retrieves reviews for a tech, newest first.
func (ds *Datastore) ListByTech(ctx context.Context, techID uuid.UUID) ([]*Review, error) {
	query := `
		SELECT id, job_id, author_id, tech_id, rating, comment, created_at
		FROM reviews WHERE tech_id = $1
		ORDER BY created_at DESC`

	rows, err := ds.db.QueryContext(ctx, query, techID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(
			&r.ID, &r.JobID, &r.AuthorID, &r.TechID, &r.Rating, &r.Comment, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ExistsForJobAndAuthor checks whether the author already reviewed this job.
func (ds *Datastore) ExistsForJobAndAuthor(ctx context.Context, jobID, authorID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE job_id = $1 AND author_id = $2)`
	var exists bool
	err := ds.db.QueryRowContext(ctx, query, jobID, authorID).Scan(&exists)
	return exists, err
}
