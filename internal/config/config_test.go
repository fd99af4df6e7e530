package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("BLOG_JWT_SECRET", "")
	os.Unsetenv("BLOG_JWT_SECRET")
	t.Setenv("BLOG_DEV", "false")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without JWT secret")
	}
}

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("BLOG_DEV", "true")
	t.Setenv("BLOG_JWT_SECRET", "")
	os.Unsetenv("BLOG_JWT_SECRET")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != devSecret {
		t.Fatalf("expected dev secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Addr != ":3333" || cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_IniThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.ini")
	content := `
[server]
addr = :8080
diag_addr = :8081

[database]
url = sqlite3:test.sqlite3

[auth]
jwt_secret = from-file
token_ttl = 1h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write ini: %v", err)
	}
	t.Setenv("BLOG_ADDR", ":9090")
	t.Setenv("BLOG_DEV", "false")
	t.Setenv("BLOG_JWT_SECRET", "")
	os.Unsetenv("BLOG_JWT_SECRET")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("env should override file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.DiagAddr != ":8081" || cfg.Database.URL != "sqlite3:test.sqlite3" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "from-file" || cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("auth section not applied: %+v", cfg.Auth)
	}
	if strings.Contains(cfg.String(), "from-file") {
		t.Fatalf("String must mask the secret: %s", cfg.String())
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("BLOG_DEV", "true")
	t.Setenv("BLOG_TOKEN_TTL", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
