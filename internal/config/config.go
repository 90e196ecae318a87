package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is shared by both binaries; each reads the fields it needs.
type Config struct {
	// APIBaseURL is the ChronoFlow store endpoint.
	APIBaseURL string `yaml:"api_base_url"`

	// Email identifies the account whose events are polled.
	Email string `yaml:"email"`

	// Token, if set, is passed through to the store as a bearer credential.
	Token string `yaml:"token,omitempty"`

	// PollIntervalSeconds is the check cadence. The due window is fixed at
	// 60s, so raising this past 60 will miss events.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// BridgeListen is where the watcher serves its play-sound bridge.
	BridgeListen string `yaml:"bridge_listen"`

	// BridgeURL is where agents subscribe to the bridge.
	BridgeURL string `yaml:"bridge_url"`

	// Autostart installs the agent as a login item.
	Autostart bool `yaml:"autostart"`

	// Icon is an optional notification icon name or path.
	Icon string `yaml:"icon,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:          "http://localhost:5000",
		PollIntervalSeconds: 60,
		BridgeListen:        "127.0.0.1:7643",
		BridgeURL:           "ws://127.0.0.1:7643/bridge",
	}
}

// PollInterval returns the check cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:5000"
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 60
	}
	if c.BridgeListen == "" {
		c.BridgeListen = "127.0.0.1:7643"
	}
	if c.BridgeURL == "" {
		c.BridgeURL = "ws://" + c.BridgeListen + "/bridge"
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "chronoflow.yaml"
	}
	return filepath.Join(dir, "chronoflow", "config.yaml")
}

// Load reads the YAML config at path. On first run the default config is
// written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".chronoflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
