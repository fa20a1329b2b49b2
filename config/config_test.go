package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APPS_SCRIPT_URL", "STORE_DRIVER", "MULTI_ITEM", "REQUEST_TIMEOUT", "PHOTO_MAX_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	if !cfg.DemoMode() {
		t.Fatalf("expected demo mode with placeholder endpoint, got %q", cfg.AppsScriptURL)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
	if !cfg.MultiItem {
		t.Fatalf("expected multi-item mode by default")
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.PhotoMaxBytes != 10*1024*1024 {
		t.Fatalf("PhotoMaxBytes = %d", cfg.PhotoMaxBytes)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APPS_SCRIPT_URL", "https://script.example.com/exec")
	t.Setenv("MULTI_ITEM", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()
	if cfg.DemoMode() {
		t.Fatalf("expected configured endpoint")
	}
	if cfg.MultiItem {
		t.Fatalf("expected single-item mode")
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestGetEnvFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_PASSWORD_FILE", path)
	t.Setenv("DB_PASSWORD", "ignored")
	if got := getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""); got != "s3cret" {
		t.Fatalf("getEnvFromFile = %q", got)
	}
}

func TestIsDemoEndpoint(t *testing.T) {
	cases := map[string]bool{
		"":                                 true,
		"  ":                               true,
		DemoEndpoint:                       true,
		"https://script.google.com/x/exec": false,
	}
	for in, want := range cases {
		if got := IsDemoEndpoint(in); got != want {
			t.Fatalf("IsDemoEndpoint(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{TimeZone: "UTC"}
	if cfg.Location().String() != "UTC" {
		t.Fatalf("Location = %s", cfg.Location())
	}
	cfg.TimeZone = "Nowhere/Invalid"
	if cfg.Location() != time.Local {
		t.Fatalf("expected fallback to local")
	}
}
