package property

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newTestManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(NewDatastore(db)), mock
}

func propertyRow(id, ownerID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_id", "name", "address", "notes", "created_at", "updated_at"}).
		AddRow(id, ownerID, "Unit 4B", "12 Shore Rd", "", now, now)
}

func TestManager_Create(t *testing.T) {
	mgr, mock := newTestManager(t)
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO properties`).
		WithArgs(sqlmock.AnyArg(), ownerID, "Unit 4B", "12 Shore Rd", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p, err := mgr.Create(context.Background(), ownerID, "  Unit 4B ", "12 Shore Rd", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Unit 4B" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.ID == uuid.Nil {
		t.Error("expected a generated property ID")
	}
}

func TestManager_Create_EmptyName(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(context.Background(), uuid.New(), "   ", "addr", "")
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestManager_GetOwned_WrongOwner(t *testing.T) {
	mgr, mock := newTestManager(t)
	id := uuid.New()
	realOwner := uuid.New()

	mock.ExpectQuery(`SELECT id, owner_id`).
		WithArgs(id).
		WillReturnRows(propertyRow(id, realOwner))

	_, err := mgr.GetOwned(context.Background(), id, uuid.New())
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestManager_GetOwned_NotFound(t *testing.T) {
	mgr, mock := newTestManager(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, owner_id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "address", "notes", "created_at", "updated_at"}))

	_, err := mgr.GetOwned(context.Background(), id, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	mgr, mock := newTestManager(t)
	id := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT id, owner_id`).
		WithArgs(id).
		WillReturnRows(propertyRow(id, ownerID))
	mock.ExpectExec(`DELETE FROM properties`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mgr.Delete(context.Background(), id, ownerID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
