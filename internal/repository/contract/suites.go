package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
)

// UserFactory builds a fresh, empty repository for one subtest.
type UserFactory func(t *testing.T) (repository.UserRepository, func())

func strPtr(s string) *string { return &s }

// RunUserRepositoryContract exercises the record store semantics every backend must share.
func RunUserRepositoryContract(t *testing.T, makeRepo UserFactory) {
	t.Helper()

	t.Run("create_assigns_id", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.User{ID: "caller-chosen", FirstName: "Ada", LastName: "Lovelace"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == "" || created.ID == "caller-chosen" {
			t.Fatalf("expected store-generated id, got %q", created.ID)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != created {
			t.Fatalf("mismatch: got %+v want %+v", got, created)
		}
	})

	t.Run("ids_unique", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			u, err := repo.Create(ctx, model.User{FirstName: "F", LastName: fmt.Sprint(i)})
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			if seen[u.ID] {
				t.Fatalf("duplicate id %q", u.ID)
			}
			seen[u.ID] = true
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), "missing")
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_merges_partial", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.User{FirstName: "A", LastName: "B"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		updated, err := repo.Update(ctx, created.ID, model.UserPatch{LastName: strPtr("C")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		want := model.User{ID: created.ID, FirstName: "A", LastName: "C"}
		if updated != want {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		got, _ := repo.GetByID(ctx, created.ID)
		if got != want {
			t.Fatalf("update not persisted: %+v", got)
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Update(context.Background(), "missing", model.UserPatch{FirstName: strPtr("X")})
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_idempotent", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.User{FirstName: "A", LastName: "B"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		removed, err := repo.Delete(ctx, created.ID)
		if err != nil || !removed {
			t.Fatalf("first delete: removed=%v err=%v", removed, err)
		}
		removed, err = repo.Delete(ctx, created.ID)
		if err != nil || removed {
			t.Fatalf("second delete: removed=%v err=%v", removed, err)
		}
		all, _ := repo.All(ctx)
		if len(all) != 0 {
			t.Fatalf("expected empty collection, got %d", len(all))
		}
	})

	t.Run("all_keeps_insertion_order", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var ids []string
		for i := 0; i < 5; i++ {
			u, err := repo.Create(ctx, model.User{FirstName: "U", LastName: fmt.Sprint(i)})
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			ids = append(ids, u.ID)
		}
		if _, err := repo.Delete(ctx, ids[2]); err != nil {
			t.Fatalf("delete: %v", err)
		}
		all, err := repo.All(ctx)
		if err != nil {
			t.Fatalf("all: %v", err)
		}
		want := []string{ids[0], ids[1], ids[3], ids[4]}
		if len(all) != len(want) {
			t.Fatalf("unexpected len %d", len(all))
		}
		for i, u := range all {
			if u.ID != want[i] {
				t.Fatalf("order mismatch at %d: %s != %s", i, u.ID, want[i])
			}
		}
	})

	t.Run("all_returns_snapshot", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, _ := repo.Create(ctx, model.User{FirstName: "A", LastName: "B"})
		snap, _ := repo.All(ctx)
		snap[0].FirstName = "mutated"
		got, _ := repo.GetByID(ctx, created.ID)
		if got.FirstName != "A" {
			t.Fatalf("snapshot aliased store state: %+v", got)
		}
	})
}
