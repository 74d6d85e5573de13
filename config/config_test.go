package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 15s
database:
  dsn: /tmp/custodian-test.db
auth:
  jwt_secret: topsecret
  token_expiry: 2h
uploads:
  max_bytes: 1048576
logging:
  level: debug
  format: console
metrics:
  enabled: true
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("readTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Database.DSN != "/tmp/custodian-test.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Auth.JWTSecret != "topsecret" || cfg.Auth.TokenExpiry != 2*time.Hour {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Uploads.MaxBytes != 1<<20 {
		t.Errorf("maxBytes = %d", cfg.Uploads.MaxBytes)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "custodian.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Auth.TokenExpiry != 24*time.Hour {
		t.Errorf("tokenExpiry = %v", cfg.Auth.TokenExpiry)
	}
	if cfg.Uploads.MaxBytes != 16<<20 {
		t.Errorf("maxBytes = %d", cfg.Uploads.MaxBytes)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path = %q", cfg.Metrics.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
logging:
  level: debug
`)

	t.Setenv("CUSTODIAN_SERVER_PORT", "7070")
	t.Setenv("CUSTODIAN_LOG_LEVEL", "warn")
	t.Setenv("CUSTODIAN_AUTH_TOKEN_EXPIRY", "30m")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, env should override file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, env should override file", cfg.Logging.Level)
	}
	if cfg.Auth.TokenExpiry != 30*time.Minute {
		t.Errorf("tokenExpiry = %v", cfg.Auth.TokenExpiry)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad driver", "database:\n  driver: postgres\n", "database.driver"},
		{"bad log level", "logging:\n  level: verbose\n", "logging.level"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"short expiry", "auth:\n  token_expiry: 5s\n", "auth.token_expiry"},
		{"tiny upload cap", "uploads:\n  max_bytes: 10\n", "uploads.max_bytes"},
		{"bootstrap email without password", "auth:\n  bootstrap_email: a@b.c\n", "bootstrap_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CUSTODIAN_DATABASE_DSN", "/data/custodian.db")
	t.Setenv("CUSTODIAN_SERVER_HOST", "10.0.0.5")
	t.Setenv("CUSTODIAN_METRICS_ENABLED", "false")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("load from env: %v", err)
	}

	if cfg.Database.DSN != "/data/custodian.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Server.Host != "10.0.0.5" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled via env")
	}
}

func TestLoadWithFallback(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9999\n")

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("fallback with file: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, file should win", cfg.Server.Port)
	}

	cfg, err = config.LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("fallback without file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
}

func TestHasEnvConfig(t *testing.T) {
	if config.HasEnvConfig() {
		t.Skip("CUSTODIAN_* variables present in environment")
	}
	t.Setenv("CUSTODIAN_DATABASE_DSN", "x.db")
	if !config.HasEnvConfig() {
		t.Error("HasEnvConfig should detect CUSTODIAN_ variables")
	}
}

func TestExpandEnvInFile(t *testing.T) {
	t.Setenv("TEST_CUSTODIAN_SECRET", "expanded-secret")
	path := writeConfigFile(t, "auth:\n  jwt_secret: ${TEST_CUSTODIAN_SECRET}\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "expanded-secret" {
		t.Errorf("secret = %q", cfg.Auth.JWTSecret)
	}
}
