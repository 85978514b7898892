package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"turnready/internal/job"
)

// mockJobs implements JobStore.
type mockJobs struct {
	getFunc func(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

func (m *mockJobs) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, job.ErrNotFound
}

func doneJob(id, clientID, techID uuid.UUID) *job.Job {
	return &job.Job{ID: id, ClientID: clientID, TechID: &techID, Status: job.StatusDone}
}

func newTestManager(t *testing.T, jobs JobStore) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(NewDatastore(db), jobs), mock
}

func TestManager_Create(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	techID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return doneJob(jobID, clientID, techID), nil
		},
	}
	mgr, mock := newTestManager(t, jobs)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(jobID, clientID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), jobID, clientID, techID, 5, "Great turn", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	r, err := mgr.Create(context.Background(), jobID, clientID, 5, " Great turn ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TechID != techID {
		t.Errorf("expected review to target tech %s, got %s", techID, r.TechID)
	}
}

func TestManager_Create_InvalidRating(t *testing.T) {
	mgr, _ := newTestManager(t, &mockJobs{})

	for _, rating := range []int{0, -1, 6} {
		_, err := mgr.Create(context.Background(), uuid.New(), uuid.New(), rating, "")
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestManager_Create_JobNotDone(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	techID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			j := doneJob(jobID, clientID, techID)
			j.Status = job.StatusClaimed
			return j, nil
		},
	}
	mgr, _ := newTestManager(t, jobs)

	_, err := mgr.Create(context.Background(), jobID, clientID, 4, "")
	if !errors.Is(err, ErrJobNotDone) {
		t.Errorf("expected ErrJobNotDone, got %v", err)
	}
}

func TestManager_Create_NotClient(t *testing.T) {
	jobID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return doneJob(jobID, uuid.New(), uuid.New()), nil
		},
	}
	mgr, _ := newTestManager(t, jobs)

	_, err := mgr.Create(context.Background(), jobID, uuid.New(), 4, "")
	if !errors.Is(err, ErrNotJobClient) {
		t.Errorf("expected ErrNotJobClient, got %v", err)
	}
}

func TestManager_Create_AlreadyReviewed(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	techID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return doneJob(jobID, clientID, techID), nil
		},
	}
	mgr, mock := newTestManager(t, jobs)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(jobID, clientID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := mgr.Create(context.Background(), jobID, clientID, 4, "")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
}
