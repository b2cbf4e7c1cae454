package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	yml := `
server:
  port: 9999
backend:
  progressURL: http://localhost:8080/progress
  shipmentURL: http://localhost:8080/shipments
live:
  feedURL: ws://localhost:8080/shipment
  reconnectAttempts: 5
tracking:
  tickIntervalMS: 250
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadAppConfig(); err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if Config.Server.Port != 9999 {
		t.Errorf("port: expected 9999, got %d", Config.Server.Port)
	}
	if Config.Live.ReconnectAttempts != 5 {
		t.Errorf("reconnectAttempts: expected 5, got %d", Config.Live.ReconnectAttempts)
	}
	// unset knobs take defaults
	if Config.Live.ReconnectIntervalMS != 3000 {
		t.Errorf("reconnectIntervalMS default: expected 3000, got %d", Config.Live.ReconnectIntervalMS)
	}
	if Config.Live.HeartbeatIntervalMS != 30000 {
		t.Errorf("heartbeatIntervalMS default: expected 30000, got %d", Config.Live.HeartbeatIntervalMS)
	}
	if Config.Tracking.TickIntervalMS != 250 {
		t.Errorf("tickIntervalMS: expected 250, got %d", Config.Tracking.TickIntervalMS)
	}
	if Config.Tracking.CacheDir == "" {
		t.Error("cacheDir should default to a non-empty path")
	}
}

func TestLoadAppConfigInvalidURL(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	yml := `
backend:
  progressURL: "not a url"
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadAppConfig(); err == nil {
		t.Fatal("expected validation error for malformed progressURL")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg AppConfig
	ApplyDefaults(&cfg)
	if cfg.Server.Port == 0 {
		t.Error("port default missing")
	}
	if cfg.Live.ReconnectAttempts != 10 || cfg.Live.ReconnectIntervalMS != 3000 {
		t.Errorf("reconnect defaults: got %d attempts at %dms", cfg.Live.ReconnectAttempts, cfg.Live.ReconnectIntervalMS)
	}
	if cfg.Tracking.TickIntervalMS != 1000 {
		t.Errorf("tick default: got %d", cfg.Tracking.TickIntervalMS)
	}
}
