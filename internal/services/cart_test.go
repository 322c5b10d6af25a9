package services_test

import (
	"context"
	"testing"

	"github.com/freshplate/storefront/internal/services"
	"github.com/freshplate/storefront/internal/testutil"
)

func newCartRepo(t *testing.T) services.CartRepository {
	t.Helper()
	store := testutil.NewStore(t)
	repo, err := services.NewSQLiteCartRepository(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSQLiteCartRepository: %v", err)
	}
	return repo
}

func TestSQLiteCartRepository_SetAndGet(t *testing.T) {
	repo := newCartRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "cart:v1:a@x.com", `{"1":{"count":1}}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := repo.Get(ctx, "cart:v1:a@x.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"1":{"count":1}}` {
		t.Errorf("Get = %q, want %q", got, `{"1":{"count":1}}`)
	}
}

func TestSQLiteCartRepository_GetMissing(t *testing.T) {
	repo := newCartRepo(t)

	_, err := repo.Get(context.Background(), "cart:v1:nobody@x.com")
	if err != services.ErrNotFound {
		t.Errorf("Get missing key error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCartRepository_SetOverwrites(t *testing.T) {
	repo := newCartRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "cart:v1:a@x.com", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "cart:v1:a@x.com", "second"); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}

	got, err := repo.Get(ctx, "cart:v1:a@x.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Errorf("Get after overwrite = %q, want %q", got, "second")
	}
}

func TestSQLiteCartRepository_KeysIndependent(t *testing.T) {
	repo := newCartRepo(t)
	ctx := context.Background()

	repo.Set(ctx, "cart:v1:a@x.com", "alice")
	repo.Set(ctx, "cart:v1:b@y.com", "bob")

	if got, _ := repo.Get(ctx, "cart:v1:a@x.com"); got != "alice" {
		t.Errorf("a@x.com = %q, want %q", got, "alice")
	}
	if got, _ := repo.Get(ctx, "cart:v1:b@y.com"); got != "bob" {
		t.Errorf("b@y.com = %q, want %q", got, "bob")
	}
}

func TestSQLiteCartRepository_Delete(t *testing.T) {
	repo := newCartRepo(t)
	ctx := context.Background()

	repo.Set(ctx, "cart:v1:a@x.com", "alice")
	if err := repo.Delete(ctx, "cart:v1:a@x.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "cart:v1:a@x.com"); err != services.ErrNotFound {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "cart:v1:a@x.com"); err != services.ErrNotFound {
		t.Errorf("Delete missing key error = %v, want ErrNotFound", err)
	}
}
