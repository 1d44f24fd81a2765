package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	BaseURL        string `toml:"base_url"`
	TokenPath      string `toml:"token_path"`
	Token          string `toml:"token"`
	Iface          string `toml:"iface"`
	TickInterval   string `toml:"tick_interval"`
	SpawnTicks     int    `toml:"spawn_ticks"`
	StopTicks      int    `toml:"stop_ticks"`
	HTTPTimeout    string `toml:"http_timeout"`
	IncludeRetired *bool  `toml:"include_retired"`
	JSON           *bool  `toml:"json"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.htbctl/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".htbctl", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("token-path", fc.TokenPath, &cfg.TokenPath)
	s.setString("token", fc.Token, &cfg.Token)
	s.setString("iface", fc.Iface, &cfg.Iface)

	if err := s.setDuration("tick", fc.TickInterval, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("spawn-ticks", fc.SpawnTicks, &cfg.SpawnTicks)
	s.setInt("stop-ticks", fc.StopTicks, &cfg.StopTicks)

	s.setBool("retired", fc.IncludeRetired, &cfg.IncludeRetired)
	s.setBool("json", fc.JSON, &cfg.JSON)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
