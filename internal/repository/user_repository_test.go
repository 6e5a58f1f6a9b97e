package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
	"github.com/fathima-sithara/chat-data/internal/store/memstore"
)

func newUserRepo() (*UserRepository, *memstore.Memory) {
	mem := memstore.New()
	return NewUserRepository(mem, zap.NewNop().Sugar()), mem
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func i64Ptr(n int64) *int64   { return &n }

func TestAddAndGetUser(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	want := models.User{
		ID:              "u1",
		DisplayName:     "Alice",
		Email:           "alice@example.com",
		ProfileImageURL: "https://cdn/img.png",
		IsOnline:        true,
		LastSeen:        1700000000000,
		CreatedAt:       1690000000000,
		UpdatedAt:       1700000000000,
	}
	if err := repo.Add(ctx, &want); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if *got != want {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestUserInvalidArguments(t *testing.T) {
	repo, mem := newUserRepo()
	ctx := context.Background()

	calls := []struct {
		name string
		err  error
	}{
		{"GetByID empty", func() error { _, err := repo.GetByID(ctx, ""); return err }()},
		{"Add nil", repo.Add(ctx, nil)},
		{"Add no id", repo.Add(ctx, &models.User{Email: "x@x.io"})},
		{"Update nil", repo.Update(ctx, nil)},
		{"Update no id", repo.Update(ctx, &models.UserPatch{DisplayName: strPtr("x")})},
		{"Delete empty", repo.Delete(ctx, "")},
		{"GetByEmail empty", func() error { _, err := repo.GetByEmail(ctx, ""); return err }()},
	}
	for _, c := range calls {
		if !errors.Is(c.err, apperr.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", c.name, c.err)
		}
	}
	if mem.Len(store.Users) != 0 {
		t.Errorf("Invalid calls left %d documents behind", mem.Len(store.Users))
	}
}

func TestUpdateUserMerge(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	repo.Add(ctx, &models.User{
		ID:          "u1",
		DisplayName: "Alice",
		Email:       "alice@example.com",
		IsOnline:    true,
		LastSeen:    1000,
	})

	// Only the fields carried by the patch may change; IsOnline=false is an
	// explicit write, not a zero value.
	err := repo.Update(ctx, &models.UserPatch{
		ID:          "u1",
		DisplayName: strPtr("Alicia"),
		IsOnline:    boolPtr(false),
		LastSeen:    i64Ptr(2000),
		UpdatedAt:   i64Ptr(2000),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "u1")
	if got.DisplayName != "Alicia" {
		t.Errorf("Expected display name 'Alicia', got %q", got.DisplayName)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Untouched email changed: %q", got.Email)
	}
	if got.IsOnline {
		t.Errorf("Expected explicit IsOnline=false to be applied")
	}
	if got.LastSeen != 2000 {
		t.Errorf("Expected last seen 2000, got %d", got.LastSeen)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	repo, _ := newUserRepo()

	err := repo.Update(context.Background(), &models.UserPatch{ID: "ghost", DisplayName: strPtr("x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	repo.Add(ctx, &models.User{ID: "u1", Email: "a@x.io"})
	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing user, got %v", err)
	}
}

func TestGetAllUsers(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	repo.Add(ctx, &models.User{ID: "u1", Email: "a@x.io"})
	repo.Add(ctx, &models.User{ID: "u2", Email: "b@x.io"})

	users, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}
}

func TestGetByEmail(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	repo.Add(ctx, &models.User{ID: "u1", Email: "alice@example.com"})

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("Expected u1, got %s", got.ID)
	}

	// Exact, case-sensitive match only.
	if _, err := repo.GetByEmail(ctx, "ALICE@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for differently-cased email, got %v", err)
	}
}

func TestGetByEmailDuplicateDeterministic(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	repo.Add(ctx, &models.User{ID: "u1", Email: "dup@example.com"})
	repo.Add(ctx, &models.User{ID: "u2", Email: "dup@example.com"})

	first, err := repo.GetByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	second, err := repo.GetByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed on repeat: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Duplicate email lookup is not deterministic: %s vs %s", first.ID, second.ID)
	}
}
