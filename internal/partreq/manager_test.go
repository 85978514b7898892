package partreq

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

func claimedJob(id, clientID, techID uuid.UUID) *job.Job {
	return &job.Job{
		ID:       id,
		ClientID: clientID,
		TechID:   &techID,
		Status:   job.StatusClaimed,
	}
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
	techID := uuid.New()
	clientID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return claimedJob(jobID, clientID, techID), nil
		},
	}
	mgr, mock := newTestManager(t, jobs)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO part_requests`).
		WithArgs(sqlmock.AnyArg(), jobID, techID, "HVAC filter 20x25", StatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	pr, err := mgr.Create(context.Background(), jobID, techID, " HVAC filter 20x25 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pr.Status != StatusPending {
		t.Errorf("expected pending status, got %q", pr.Status)
	}
}

func TestManager_Create_NotHoldingTech(t *testing.T) {
	jobID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return claimedJob(jobID, uuid.New(), uuid.New()), nil
		},
	}
	mgr, _ := newTestManager(t, jobs)

	_, err := mgr.Create(context.Background(), jobID, uuid.New(), "filter")
	if !errors.Is(err, ErrNotJobTech) {
		t.Errorf("expected ErrNotJobTech, got %v", err)
	}
}

func TestManager_Create_EmptyDescription(t *testing.T) {
	mgr, _ := newTestManager(t, &mockJobs{})

	_, err := mgr.Create(context.Background(), uuid.New(), uuid.New(), "  ")
	if !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestManager_Decide_Approve(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	techID := uuid.New()
	prID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return claimedJob(jobID, clientID, techID), nil
		},
	}
	mgr, mock := newTestManager(t, jobs)
	now := time.Now()

	pendingRow := func(status Status) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "job_id", "tech_id", "description", "status", "created_at", "updated_at"}).
			AddRow(prID, jobID, techID, "filter", status, now, now)
	}

	mock.ExpectQuery(`SELECT id, job_id`).WithArgs(prID).WillReturnRows(pendingRow(StatusPending))
	mock.ExpectExec(`UPDATE part_requests`).
		WithArgs(prID, StatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, job_id`).WithArgs(prID).WillReturnRows(pendingRow(StatusApproved))

	pr, err := mgr.Decide(context.Background(), prID, clientID, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pr.Status != StatusApproved {
		t.Errorf("expected approved, got %q", pr.Status)
	}
}

func TestManager_Decide_NotClient(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	techID := uuid.New()
	prID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return claimedJob(jobID, clientID, techID), nil
		},
	}
	mgr, mock := newTestManager(t, jobs)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, job_id`).
		WithArgs(prID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "tech_id", "description", "status", "created_at", "updated_at"}).
			AddRow(prID, jobID, techID, "filter", StatusPending, now, now))

	_, err := mgr.Decide(context.Background(), prID, uuid.New(), false, true)
	if !errors.Is(err, ErrNotJobClient) {
		t.Errorf("expected ErrNotJobClient, got %v", err)
	}
}

func TestManager_ListByJob_NonParticipant(t *testing.T) {
	jobID := uuid.New()
	jobs := &mockJobs{
		getFunc: func(ctx context.Context, id uuid.UUID) (*job.Job, error) {
			return claimedJob(jobID, uuid.New(), uuid.New()), nil
		},
	}
	mgr, _ := newTestManager(t, jobs)

	_, err := mgr.ListByJob(context.Background(), jobID, uuid.New(), false)
	if !errors.Is(err, ErrNotJobClient) {
		t.Errorf("expected ErrNotJobClient, got %v", err)
	}
}
