package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("AMAZON_SERVICE_URL", "")
	os.Unsetenv("AMAZON_SERVICE_URL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Partner.BaseURL != "http://amazon:8080" {
		t.Errorf("BaseURL = %q, want default", cfg.Partner.BaseURL)
	}
	if cfg.Partner.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Partner.MaxAttempts)
	}
	if cfg.World.WarehouseThreshold != 10 {
		t.Errorf("WarehouseThreshold = %d, want 10", cfg.World.WarehouseThreshold)
	}
	if cfg.Tracking.Retention != 7*24*time.Hour {
		t.Errorf("Retention = %v, want 168h", cfg.Tracking.Retention)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upsbridge.yaml")
	data := []byte(`
world:
  host: world.local
  port: 23456
  world_id: 7
partner:
  retry_delay: 250ms
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.World.Address() != "world.local:23456" {
		t.Errorf("Address = %q", cfg.World.Address())
	}
	if cfg.World.WorldID != 7 {
		t.Errorf("WorldID = %d, want 7", cfg.World.WorldID)
	}
	if cfg.Partner.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.Partner.RetryDelay)
	}
	// untouched fields keep defaults
	if cfg.World.SimSpeed != 100 {
		t.Errorf("SimSpeed = %d, want 100", cfg.World.SimSpeed)
	}
}

func TestEnvOverridesPartnerURL(t *testing.T) {
	t.Setenv("AMAZON_SERVICE_URL", "http://partner.test:9000")
	t.Setenv("WORLD_PORT", "4444")

	cfg := Defaults()
	if err := ApplyEnv(cfg, ""); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Partner.BaseURL != "http://partner.test:9000" {
		t.Errorf("BaseURL = %q", cfg.Partner.BaseURL)
	}
	if cfg.World.Port != 4444 {
		t.Errorf("World.Port = %d, want 4444", cfg.World.Port)
	}
}

func TestDotenvFileIsApplied(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("WORLD_HOST=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORLD_HOST", "")
	os.Unsetenv("WORLD_HOST")
	t.Cleanup(func() { os.Unsetenv("WORLD_HOST") })

	cfg := Defaults()
	if err := ApplyEnv(cfg, dotenv); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.World.Host != "from-dotenv" {
		t.Errorf("World.Host = %q, want from-dotenv", cfg.World.Host)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Partner.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero max attempts")
	}

	cfg = Defaults()
	cfg.Messaging.Backend = "nats"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown messaging backend")
	}

	cfg = Defaults()
	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
