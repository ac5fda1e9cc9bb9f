package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/themedesigner/config"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 5s

database:
  driver: "sqlite"
  dsn: ":memory:"

fields:
  namespace: "gal"
  managers:
    - name: "theme"
      fields:
        - name: "version"
          label: "Version"
          sanitize: [trim, strip_tags]
        - name: "released"
          type: "date"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Fields.Namespace != "gal" {
		t.Errorf("Fields.Namespace = %s, want gal", cfg.Fields.Namespace)
	}
	if len(cfg.Fields.Managers) != 1 {
		t.Fatalf("len(Managers) = %d, want 1", len(cfg.Fields.Managers))
	}

	fields := cfg.Fields.Managers[0].Fields
	if len(fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(fields))
	}
	if fields[0].Type != "text" {
		t.Errorf("Fields[0].Type = %s, want text (default)", fields[0].Type)
	}
	if fields[0].Args["label"] != "Version" {
		t.Errorf("Fields[0].Args[label] = %v, want Version", fields[0].Args["label"])
	}
	if _, ok := fields[0].Args["sanitize"].([]any); !ok {
		t.Errorf("Fields[0].Args[sanitize] = %T, want a list", fields[0].Args["sanitize"])
	}
	if _, ok := fields[0].Args["name"]; ok {
		t.Error("name should not be collected into Args")
	}
	if fields[1].Type != "date" {
		t.Errorf("Fields[1].Type = %s, want date", fields[1].Type)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "")

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("default WriteTimeout = %v, want 60s", cfg.Server.WriteTimeout)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "themedesigner.db" {
		t.Errorf("default Database = %+v", cfg.Database)
	}
	if cfg.Admin.Username != "admin" {
		t.Errorf("default Admin.Username = %s, want admin", cfg.Admin.Username)
	}
	if cfg.Fields.Namespace != "thds" {
		t.Errorf("default Fields.Namespace = %s, want thds", cfg.Fields.Namespace)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %s, want /metrics", cfg.Metrics.Path)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")

	cfg := writeAndLoad(t, `
database:
  dsn: "${TEST_DB_PATH}"
`)

	if cfg.Database.DSN != "/tmp/expanded.db" {
		t.Errorf("DSN = %s, want /tmp/expanded.db", cfg.Database.DSN)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown driver",
			content: "database:\n  driver: mysql\n",
			want:    "database.driver",
		},
		{
			name:    "postgres without dsn",
			content: "database:\n  driver: postgres\n",
			want:    "database.dsn",
		},
		{
			name:    "negative cache size",
			content: "database:\n  cache_size: -1\n",
			want:    "database.cache_size",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			want:    "logging.level",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			want:    "logging.format",
		},
		{
			name:    "plaintext password",
			content: "admin:\n  password_hash: hunter2\n",
			want:    "admin.password_hash",
		},
		{
			name:    "manager without name",
			content: "fields:\n  managers:\n    - fields: []\n",
			want:    "fields.managers[0].name",
		},
		{
			name:    "duplicate manager",
			content: "fields:\n  managers:\n    - name: theme\n    - name: theme\n",
			want:    "duplicate manager",
		},
		{
			name:    "duplicate field",
			content: "fields:\n  managers:\n    - name: theme\n      fields:\n        - name: a\n        - name: a\n",
			want:    "duplicate field",
		},
		{
			name:    "unknown field type",
			content: "fields:\n  managers:\n    - name: theme\n      fields:\n        - name: a\n          type: color\n",
			want:    "type must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writeAndLoadErr(t, tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_BcryptHashAccepted(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cfg := writeAndLoad(t, "admin:\n  username: root\n  password_hash: '"+string(hash)+"'\n")

	if cfg.Admin.Username != "root" {
		t.Errorf("Username = %s, want root", cfg.Admin.Username)
	}
	if cfg.Admin.PasswordHash != string(hash) {
		t.Errorf("PasswordHash = %s", cfg.Admin.PasswordHash)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("THEMEDESIGNER_SERVER_PORT", "9999")
	t.Setenv("THEMEDESIGNER_DATABASE_DRIVER", "memory")
	t.Setenv("THEMEDESIGNER_LOG_LEVEL", "debug")
	t.Setenv("THEMEDESIGNER_LOG_FORMAT", "console")
	t.Setenv("THEMEDESIGNER_METRICS_ENABLED", "true")
	t.Setenv("THEMEDESIGNER_OPENAPI_ENABLED", "yes")
	t.Setenv("THEMEDESIGNER_FIELDS_NAMESPACE", "gal")
	t.Setenv("THEMEDESIGNER_DATABASE_CACHE_SIZE", "256")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("Database.Driver = %s, want memory", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || !cfg.OpenAPI.Enabled {
		t.Errorf("Metrics.Enabled = %v, OpenAPI.Enabled = %v", cfg.Metrics.Enabled, cfg.OpenAPI.Enabled)
	}
	if cfg.Fields.Namespace != "gal" {
		t.Errorf("Fields.Namespace = %s, want gal", cfg.Fields.Namespace)
	}
	if cfg.Database.CacheSize != 256 {
		t.Errorf("Database.CacheSize = %d, want 256", cfg.Database.CacheSize)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("THEMEDESIGNER_SERVER_PORT", "7777")
	t.Setenv("THEMEDESIGNER_DATABASE_DSN", "/tmp/override.db")

	cfg := writeAndLoad(t, `
server:
  port: 9090
database:
  dsn: "file.db"
`)

	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d, want 7777 (env override)", cfg.Server.Port)
	}
	if cfg.Database.DSN != "/tmp/override.db" {
		t.Errorf("DSN = %s, want /tmp/override.db", cfg.Database.DSN)
	}
}

func TestEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("THEMEDESIGNER_SERVER_PORT", "not-a-port")
	t.Setenv("THEMEDESIGNER_SERVER_READ_TIMEOUT", "soon")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want default 30s", cfg.Server.ReadTimeout)
	}
}

func TestLoadWithFallback(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9191\n")

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191 from file", cfg.Server.Port)
	}

	cfg, err = config.LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback (missing file) error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestHasEnvConfig(t *testing.T) {
	t.Setenv("THEMEDESIGNER_DATABASE_DSN", "")
	t.Setenv("THEMEDESIGNER_DATABASE_DRIVER", "")
	if config.HasEnvConfig() {
		t.Error("HasEnvConfig() = true with no env set")
	}

	t.Setenv("THEMEDESIGNER_DATABASE_DRIVER", "memory")
	if !config.HasEnvConfig() {
		t.Error("HasEnvConfig() = false with driver set")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := writeAndLoadErr(t, "server: [unclosed"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := config.Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// Helpers

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := writeAndLoadErr(t, content)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func writeAndLoadErr(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	return config.Load(writeConfig(t, content))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
