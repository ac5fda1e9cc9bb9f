package sqlite_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/artpar/themedesigner/adapters/sqlite"
	"github.com/artpar/themedesigner/ports"
)

func setupTestDB(t *testing.T) (*sqlite.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "themedesigner-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := sqlite.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(path)
	}

	return db, cleanup
}

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	applied, err := db.Applied(context.Background())
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if !applied["001_init"] {
		t.Errorf("expected 001_init to be recorded, got %v", applied)
	}
}

func TestPing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

// -----------------------------------------------------------------------------
// MetaStore Tests
// -----------------------------------------------------------------------------

func TestMetaStore_GetMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewMetaStore(db)

	got, err := store.Get(context.Background(), "42", "thds_theme_setting_version")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Errorf("value = %q, want empty", got)
	}
}

func TestMetaStore_SetReplaceDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewMetaStore(db)
	ctx := context.Background()
	key := "thds_theme_setting_version"

	if err := store.Set(ctx, "42", key, "1.0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "42", key, "1.1"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := store.Get(ctx, "42", key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "1.1" {
		t.Errorf("value = %q, want 1.1", got)
	}

	if err := store.Delete(ctx, "42", key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = store.Get(ctx, "42", key)
	if got != "" {
		t.Errorf("value after delete = %q, want empty", got)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, "42", key); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestMetaStore_ListScopedToRecord(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewMetaStore(db)
	ctx := context.Background()

	store.Set(ctx, "1", "a", "x")
	store.Set(ctx, "1", "b", "y")
	store.Set(ctx, "2", "a", "z")

	values, err := store.List(ctx, "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("len = %d, want 2", len(values))
	}
	if values["a"] != "x" || values["b"] != "y" {
		t.Errorf("values = %v", values)
	}

	empty, err := store.List(ctx, "missing")
	if err != nil {
		t.Fatalf("list missing: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no values, got %v", empty)
	}
}

// -----------------------------------------------------------------------------
// SettingsStore Tests
// -----------------------------------------------------------------------------

func TestSettingsStore_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewSettingsStore(db)

	_, err := store.Get(context.Background(), "thds_settings")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSettingsStore_Upsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewSettingsStore(db)
	ctx := context.Background()

	if err := store.Set(ctx, "thds_settings", `{"menu_title":"Themes"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "thds_settings", `{"menu_title":"Gallery"}`); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := store.Get(ctx, "thds_settings")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Key != "thds_settings" {
		t.Errorf("Key = %q", got.Key)
	}
	if got.Value != `{"menu_title":"Gallery"}` {
		t.Errorf("Value = %q", got.Value)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}

	if err := store.Delete(ctx, "thds_settings"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "thds_settings"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}
