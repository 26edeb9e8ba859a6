package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Discord.ClientID == "" {
		t.Error("default client id must be set")
	}
	if cfg.Discord.ReconnectDelay != time.Minute {
		t.Errorf("reconnect delay: got %v", cfg.Discord.ReconnectDelay)
	}
	if cfg.Media.PollInterval != 15*time.Second {
		t.Errorf("poll interval: got %v", cfg.Media.PollInterval)
	}
	if cfg.Media.LoginRetryDelay != 30*time.Second {
		t.Errorf("login retry delay: got %v", cfg.Media.LoginRetryDelay)
	}
	if cfg.Media.SessionInactivity != 60*time.Second {
		t.Errorf("session inactivity: got %v", cfg.Media.SessionInactivity)
	}
	if cfg.Media.EndOfMediaBuffer != 1500*time.Millisecond {
		t.Errorf("end of media buffer: got %v", cfg.Media.EndOfMediaBuffer)
	}
	if cfg.StorePath == "" {
		t.Error("store path must default to a usable location")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
debug: true
store_path: /var/lib/jellycord/store.dat
discord:
  client_id: "42"
  reconnect_delay: 10s
media_server:
  poll_interval: 5s
  device_icon_url: https://example.com/icon.png
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("debug not applied")
	}
	if cfg.StorePath != "/var/lib/jellycord/store.dat" {
		t.Errorf("store path: got %q", cfg.StorePath)
	}
	if cfg.Discord.ClientID != "42" || cfg.Discord.ReconnectDelay != 10*time.Second {
		t.Errorf("discord section: got %+v", cfg.Discord)
	}
	if cfg.Media.PollInterval != 5*time.Second {
		t.Errorf("poll interval: got %v", cfg.Media.PollInterval)
	}
	if cfg.Media.DeviceIconURL != "https://example.com/icon.png" {
		t.Errorf("device icon url: got %q", cfg.Media.DeviceIconURL)
	}
	// Untouched keys keep their defaults
	if cfg.Media.LoginRetryDelay != 30*time.Second {
		t.Errorf("login retry delay: got %v", cfg.Media.LoginRetryDelay)
	}
}

func TestLoad_RejectsEmptyClientID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("discord:\n  client_id: \"\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path, zap.NewNop()); err == nil {
		t.Fatal("expected an error for an empty client id")
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("discord: [not a map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path, zap.NewNop()); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}

func TestDefaultPath_HonorsEnv(t *testing.T) {
	t.Setenv("JELLYCORD_CONFIG", "/etc/jellycord/config.yaml")
	if got := DefaultPath(); got != "/etc/jellycord/config.yaml" {
		t.Errorf("DefaultPath: got %q", got)
	}
}
