package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AppName identifies this daemon to the media server and the log output
const AppName = "jellycord"

const (
	// defaultClientID is the Discord application id the presence is
	// published under.
	defaultClientID = "1069834284587454546"

	defaultReconnectDelay    = time.Minute
	defaultLoginRetryDelay   = 30 * time.Second
	defaultPollInterval      = 15 * time.Second
	defaultSessionInactivity = 60 * time.Second
	defaultEndOfMediaBuffer  = 1500 * time.Millisecond
)

// DiscordConfig configures the presence channel
type DiscordConfig struct {
	// ClientID is the Discord application id used during the IPC handshake
	ClientID string `yaml:"client_id"`
	// ReconnectDelay is the fixed delay between reconnect attempts after an
	// unexpected transport closure
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// MediaServerConfig configures polling against the selected media server
type MediaServerConfig struct {
	// LoginRetryDelay is the fixed delay between login attempts while the
	// server is unreachable or rejecting credentials
	LoginRetryDelay time.Duration `yaml:"login_retry_delay"`
	// PollInterval is the fallback cadence between presence updates
	PollInterval time.Duration `yaml:"poll_interval"`
	// SessionInactivity is the maximum inactivity window for a session to
	// still be returned by a poll
	SessionInactivity time.Duration `yaml:"session_inactivity"`
	// EndOfMediaBuffer is added past the expected media end when
	// rescheduling, to avoid racing the boundary
	EndOfMediaBuffer time.Duration `yaml:"end_of_media_buffer"`
	// DeviceIconURL, when set, is registered as the device icon shown on
	// the server's devices page
	DeviceIconURL string `yaml:"device_icon_url"`
}

// Config is the daemon configuration, loaded from an optional yaml file with
// defaults filled in first. Paths may be overridden through JELLYCORD_CONFIG
// and JELLYCORD_STORE.
type Config struct {
	// StorePath is the location of the encrypted server registry
	StorePath string `yaml:"store_path"`
	// LogPath, when set, routes logs to a JSON file instead of the console
	LogPath string `yaml:"log_path"`
	// Debug enables debug-level logging
	Debug bool `yaml:"debug"`

	Discord DiscordConfig     `yaml:"discord"`
	Media   MediaServerConfig `yaml:"media_server"`
}

// DefaultPath returns the config file location honored when no explicit path
// is given: $JELLYCORD_CONFIG, else ~/.config/jellycord/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("JELLYCORD_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", AppName, "config.yaml")
}

func defaults() *Config {
	storePath := os.Getenv("JELLYCORD_STORE")
	if storePath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			storePath = filepath.Join(home, ".config", AppName, "settings.dat")
		} else {
			storePath = "settings.dat"
		}
	}

	return &Config{
		StorePath: storePath,
		Discord: DiscordConfig{
			ClientID:       defaultClientID,
			ReconnectDelay: defaultReconnectDelay,
		},
		Media: MediaServerConfig{
			LoginRetryDelay:   defaultLoginRetryDelay,
			PollInterval:      defaultPollInterval,
			SessionInactivity: defaultSessionInactivity,
			EndOfMediaBuffer:  defaultEndOfMediaBuffer,
		},
	}
}

// Load reads the configuration from path. A missing file is not an error;
// defaults apply.
func Load(path string, logger *zap.Logger) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No config file found, using defaults", zap.String("path", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Discord.ClientID == "" {
		return nil, fmt.Errorf("discord.client_id must not be empty")
	}

	logger.Info("Configuration loaded",
		zap.String("path", path),
		zap.String("store", cfg.StorePath),
		zap.Duration("pollInterval", cfg.Media.PollInterval))

	return cfg, nil
}
