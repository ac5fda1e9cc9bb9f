package bootstrap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/themedesigner/adapters/cache"
	"github.com/artpar/themedesigner/bootstrap"
	"github.com/artpar/themedesigner/config"
	"github.com/artpar/themedesigner/domain/field"
)

const testConfig = `
database:
  driver: sqlite
  dsn: %DB%
admin:
  username: editor
  password_hash: "%HASH%"
fields:
  namespace: thds
  managers:
    - name: theme
      fields:
        - name: version
          sanitize: [strip_tags, trim]
          color: blue
        - name: released
          type: date
logging:
  level: warn
metrics:
  enabled: true
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "themedesigner.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func setupApp(t *testing.T) (*bootstrap.App, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	dir := t.TempDir()
	body := strings.NewReplacer(
		"%DB%", filepath.Join(dir, "test.db"),
		"%HASH%", string(hash),
	).Replace(testConfig)
	path := writeConfig(t, dir, body)

	a, err := bootstrap.New(bootstrap.Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a, path
}

func TestBootstrap_Integration(t *testing.T) {
	a, _ := setupApp(t)

	if a.Stores == nil || a.HTTPServer == nil || a.Settings == nil || a.Fields == nil {
		t.Fatal("expected all components to be initialized")
	}
	if a.Admin == nil {
		t.Fatal("admin API should be enabled when a password hash is set")
	}
	if a.Metrics == nil {
		t.Fatal("metrics should be enabled")
	}

	managers := a.Fields.Managers()
	if len(managers) != 1 || len(managers[0].Settings()) != 2 {
		t.Fatalf("unexpected managers: %d", len(managers))
	}
	st, _ := managers[0].Setting("released")
	if st.Kind() != field.KindDate {
		t.Errorf("expected date field, got %s", st.Kind())
	}
}

func TestBootstrap_SaveThroughHTTP(t *testing.T) {
	a, _ := setupApp(t)
	srv := httptest.NewServer(a.HTTPServer.Handler)
	defer srv.Close()

	form := url.Values{"thds_theme_setting_version": {"  <em>1.4</em> "}}
	req, _ := http.NewRequest("POST", srv.URL+"/admin/records/7/fields/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("editor", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got, err := a.Stores.Meta.Get(context.Background(), "7", "version")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "1.4" {
		t.Errorf("expected sanitized 1.4, got %q", got)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected metrics 200, got %d", resp.StatusCode)
	}
}

func TestBootstrap_EnvOnlyMemory(t *testing.T) {
	t.Setenv("THEMEDESIGNER_DATABASE_DRIVER", "memory")
	t.Setenv("THEMEDESIGNER_LOG_LEVEL", "error")

	a, err := bootstrap.New(bootstrap.Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	defer a.Shutdown()

	if a.Admin != nil {
		t.Error("admin API should be disabled without a password hash")
	}
	if a.Metrics != nil {
		t.Error("metrics should be disabled by default")
	}

	srv := httptest.NewServer(a.HTTPServer.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/settings")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 with admin disabled, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/health/ready")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected ready, got %d", resp.StatusCode)
	}
}

func TestBootstrap_SettingsPersistAcrossRestart(t *testing.T) {
	a, path := setupApp(t)

	if _, _, err := a.Settings.Update(context.Background(), map[string]string{"menu_title": "Skins"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	a.Shutdown()

	b, err := bootstrap.New(bootstrap.Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer b.Shutdown()

	if b.Settings.Get().MenuTitle != "Skins" {
		t.Errorf("expected stored menu title, got %q", b.Settings.Get().MenuTitle)
	}
}

func TestBootstrap_ReloadFieldManagers(t *testing.T) {
	a, path := setupApp(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	updated := strings.Replace(string(data), "    - name: theme\n", "    - name: theme\n      fields:\n        - name: author\n    - name: old\n", 1)
	// The previous field list now belongs to "old".
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(a.Fields.Managers()) == 2 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	managers := a.Fields.Managers()
	if len(managers) != 2 {
		t.Fatalf("expected 2 managers after reload, got %d", len(managers))
	}
	if _, ok := managers[0].Setting("author"); !ok {
		t.Error("expected theme.author after reload")
	}
}

func TestBuildRegistry_UnknownSanitizer(t *testing.T) {
	cfg := config.FieldsConfig{
		Namespace: "thds",
		Managers: []config.ManagerConfig{{
			Name: "theme",
			Fields: []config.FieldConfig{{
				Name: "version",
				Type: "text",
				Args: map[string]any{"sanitize": "nope"},
			}},
		}},
	}

	if _, err := bootstrap.BuildRegistry(cfg, field.DefaultSanitizers(nil), zerolog.Nop()); err == nil {
		t.Error("expected error for unknown sanitizer")
	}
}

func TestOpenStores_Cache(t *testing.T) {
	ctx := context.Background()

	stores, err := bootstrap.OpenStores(ctx, config.DatabaseConfig{
		Driver:    "sqlite",
		DSN:       filepath.Join(t.TempDir(), "cache.db"),
		CacheSize: 8,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stores.Close()

	if _, ok := stores.Meta.(*cache.MetaStore); !ok {
		t.Fatalf("expected cached meta store, got %T", stores.Meta)
	}

	if err := stores.Meta.Set(ctx, "1", "version", "2.0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := stores.Meta.Get(ctx, "1", "version")
	if err != nil || got != "2.0" {
		t.Errorf("expected 2.0, got %q (%v)", got, err)
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	if _, err := bootstrap.OpenStores(context.Background(), config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
