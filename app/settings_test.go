package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/artpar/themedesigner/adapters/memory"
	"github.com/artpar/themedesigner/app"
	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
	"github.com/rs/zerolog"
)

// mockSettingsStore wraps the memory store with injectable failures.
type mockSettingsStore struct {
	*memory.SettingsStore
	getErr error
	setErr error
	delErr error
	sets   int
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{SettingsStore: memory.NewSettingsStore()}
}

func (m *mockSettingsStore) Get(ctx context.Context, key string) (settings.Setting, error) {
	if m.getErr != nil {
		return settings.Setting{}, m.getErr
	}
	return m.SettingsStore.Get(ctx, key)
}

func (m *mockSettingsStore) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	return m.SettingsStore.Set(ctx, key, value)
}

func (m *mockSettingsStore) Delete(ctx context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	return m.SettingsStore.Delete(ctx, key)
}

// tagStripper removes <b> tags only.
type tagStripper struct{}

func (tagStripper) StripTags(s string) string {
	return strings.NewReplacer("<b>", "", "</b>", "").Replace(s)
}

func (tagStripper) FilterPost(s string) string { return s }

func newSettingsService(store *mockSettingsStore) (*app.SettingsService, *recorder) {
	rec := &recorder{}
	return app.NewSettingsService(app.SettingsDeps{
		Store:    store,
		Markup:   tagStripper{},
		Recorder: rec,
		Logger:   zerolog.Nop(),
	}), rec
}

func TestSettingsService_DefaultsBeforeLoad(t *testing.T) {
	svc, _ := newSettingsService(newMockSettingsStore())

	if svc.Get() != settings.Defaults() {
		t.Errorf("Get() = %+v, want defaults", svc.Get())
	}
}

func TestSettingsService_LoadMissingKeepsDefaults(t *testing.T) {
	svc, _ := newSettingsService(newMockSettingsStore())

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if svc.Get() != settings.Defaults() {
		t.Errorf("Get() = %+v, want defaults", svc.Get())
	}
}

func TestSettingsService_LoadPartialBlob(t *testing.T) {
	store := newMockSettingsStore()
	store.SettingsStore.Set(context.Background(), settings.OptionName, `{"menu_title":"Gallery"}`)
	svc, _ := newSettingsService(store)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := svc.Get()
	if got.MenuTitle != "Gallery" {
		t.Errorf("MenuTitle = %q, want Gallery", got.MenuTitle)
	}
	if got.ThemesPerPage != settings.DefaultThemesPerPage {
		t.Errorf("ThemesPerPage = %d, want default", got.ThemesPerPage)
	}
}

func TestSettingsService_LoadErrors(t *testing.T) {
	store := newMockSettingsStore()
	store.getErr = errors.New("db down")
	svc, _ := newSettingsService(store)

	if err := svc.Load(context.Background()); !errors.Is(err, store.getErr) {
		t.Errorf("err = %v, want wrapped db down", err)
	}

	store = newMockSettingsStore()
	store.SettingsStore.Set(context.Background(), settings.OptionName, "{not json")
	svc, _ = newSettingsService(store)
	if err := svc.Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestSettingsService_Update(t *testing.T) {
	store := newMockSettingsStore()
	svc, rec := newSettingsService(store)
	ctx := context.Background()

	opts, res, err := svc.Update(ctx, settings.Settings{
		settings.KeyMenuTitle:      "<b>Gallery</b>",
		settings.KeyThemesPerPage:  "12",
		settings.KeyWporgTransient: "30",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if opts.MenuTitle != "Gallery" || opts.ThemesPerPage != 12 || opts.WporgTransient != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if len(res.Applied) != 2 {
		t.Errorf("Applied = %v, want two rules", res.Applied)
	}
	if store.sets != 1 {
		t.Errorf("sets = %d, want a single write", store.sets)
	}
	if svc.Get() != opts {
		t.Error("cache not updated")
	}

	stored, err := store.Get(ctx, settings.OptionName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var decoded settings.Options
	if err := json.Unmarshal([]byte(stored.Value), &decoded); err != nil {
		t.Fatalf("stored blob is not JSON: %v", err)
	}
	if decoded != opts {
		t.Errorf("stored = %+v, want %+v", decoded, opts)
	}

	if len(rec.saves) != 1 || rec.saves[0] != "ok" {
		t.Errorf("saves = %v", rec.saves)
	}
	if len(rec.conflicts) != 2 {
		t.Errorf("conflicts = %v", rec.conflicts)
	}
}

func TestSettingsService_UpdateStoreErrorKeepsCache(t *testing.T) {
	store := newMockSettingsStore()
	store.setErr = errors.New("disk full")
	svc, rec := newSettingsService(store)

	_, _, err := svc.Update(context.Background(), settings.Settings{settings.KeyMenuTitle: "New"})
	if !errors.Is(err, store.setErr) {
		t.Fatalf("err = %v, want wrapped disk full", err)
	}
	if svc.Get() != settings.Defaults() {
		t.Error("cache changed after failed save")
	}
	if len(rec.saves) != 1 || rec.saves[0] != "error" {
		t.Errorf("saves = %v", rec.saves)
	}
}

func TestSettingsService_ValidateDoesNotPersist(t *testing.T) {
	store := newMockSettingsStore()
	svc, _ := newSettingsService(store)

	opts, res := svc.Validate(settings.Settings{settings.KeyThemeRewriteBase: "t"})
	if opts.ThemeRewriteBase != "t" {
		t.Errorf("ThemeRewriteBase = %q", opts.ThemeRewriteBase)
	}
	if len(res.Applied) != 1 || res.Applied[0] != settings.RuleSubjectAuthor {
		t.Errorf("Applied = %v", res.Applied)
	}
	if store.sets != 0 {
		t.Errorf("Validate wrote %d times", store.sets)
	}
}

func TestSettingsService_Reset(t *testing.T) {
	store := newMockSettingsStore()
	svc, rec := newSettingsService(store)
	ctx := context.Background()

	if _, _, err := svc.Update(ctx, settings.Settings{settings.KeyMenuTitle: "Skins"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	opts, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if opts != settings.Defaults() || svc.Get() != settings.Defaults() {
		t.Errorf("options after reset = %+v", svc.Get())
	}
	if _, err := store.Get(ctx, settings.OptionName); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("blob still stored: %v", err)
	}
	if rec.saves[len(rec.saves)-1] != "reset" {
		t.Errorf("saves = %v", rec.saves)
	}

	// A fresh load after a reset also sees the defaults.
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if svc.Get() != settings.Defaults() {
		t.Errorf("options after load = %+v", svc.Get())
	}
}

func TestSettingsService_ResetStoreErrorKeepsCache(t *testing.T) {
	store := newMockSettingsStore()
	svc, _ := newSettingsService(store)
	ctx := context.Background()

	if _, _, err := svc.Update(ctx, settings.Settings{settings.KeyMenuTitle: "Skins"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	store.delErr = errors.New("read-only database")
	if _, err := svc.Reset(ctx); !errors.Is(err, store.delErr) {
		t.Fatalf("err = %v, want wrapped read-only database", err)
	}
	if svc.Get().MenuTitle != "Skins" {
		t.Errorf("cache changed after failed reset: %q", svc.Get().MenuTitle)
	}
}
