package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestManager_GetByIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	ds := NewDatastore(db)
	mgr := NewManager(ds)
	ctx := context.Background()

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT identity_id, role, display_name, phone, email, created_at, updated_at`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"identity_id", "role", "display_name", "phone", "email", "created_at", "updated_at"},
		).AddRow(id, "tech", "Pat Rivera", "555-0100", "pat@example.com", now, now))

	p, err := mgr.GetByIdentity(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Role != RoleTech {
		t.Errorf("expected role tech, got %q", p.Role)
	}
	if p.DisplayName != "Pat Rivera" {
		t.Errorf("expected display name 'Pat Rivera', got %q", p.DisplayName)
	}
}

func TestManager_GetByIdentity_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	ds := NewDatastore(db)
	mgr := NewManager(ds)

	id := uuid.New()

	// An empty result set surfaces as sql.ErrNoRows from QueryRowContext.
	mock.ExpectQuery(`SELECT identity_id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"identity_id", "role", "display_name", "phone", "email", "created_at", "updated_at"},
		))

	_, err = mgr.GetByIdentity(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	ds := NewDatastore(db)
	mgr := NewManager(ds)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(id, RoleClient, "Dana Ortiz", "555-0101", "dana@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"role", "created_at", "updated_at"}).AddRow("client", now, now))

	p := &Profile{
		IdentityID:  id,
		Role:        RoleClient,
		DisplayName: "Dana Ortiz",
		Phone:       "555-0101",
		Email:       "dana@example.com",
	}

	if err := mgr.Upsert(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManager_Upsert_EmptyName(t *testing.T) {
	ds := NewDatastore(nil) // nil db is fine, we won't hit it
	mgr := NewManager(ds)

	p := &Profile{
		IdentityID:  uuid.New(),
		DisplayName: "   ",
	}

	err := mgr.Upsert(context.Background(), p)
	if err != ErrEmptyName {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestManager_Upsert_InvalidRole(t *testing.T) {
	ds := NewDatastore(nil)
	mgr := NewManager(ds)

	p := &Profile{
		IdentityID:  uuid.New(),
		Role:        Role("owner"),
		DisplayName: "Dana Ortiz",
	}

	err := mgr.Upsert(context.Background(), p)
	if err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestManager_SetRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	ds := NewDatastore(db)
	mgr := NewManager(ds)

	id := uuid.New()
	mock.ExpectExec(`UPDATE profiles SET role`).
		WithArgs(id, RoleTech, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mgr.SetRole(context.Background(), id, RoleTech); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManager_SetRole_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	ds := NewDatastore(db)
	mgr := NewManager(ds)

	id := uuid.New()
	mock.ExpectExec(`UPDATE profiles SET role`).
		WithArgs(id, RoleAdmin, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = mgr.SetRole(context.Background(), id, RoleAdmin)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_SetRole_InvalidRole(t *testing.T) {
	ds := NewDatastore(nil)
	mgr := NewManager(ds)

	err := mgr.SetRole(context.Background(), uuid.New(), RoleUnset)
	if err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
