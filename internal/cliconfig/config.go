// Package cliconfig holds the CLI configuration for htbctl: defaults, TOML
// config file, environment overrides, and credential resolution, with
// flag > env > file > default precedence.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// Defaults for the provisioning API and the local environment.
const (
	// DefaultBaseURL is the production provisioning API.
	DefaultBaseURL = "https://labs.hackthebox.com/api/v4"

	// DefaultTokenPath is the system location of the API credential file.
	DefaultTokenPath = "/etc/hackthebox/api-token.txt"

	// DefaultIface is the VPN tunnel interface name.
	DefaultIface = "tun0"

	// TokenEnv is the environment fallback for the API credential.
	TokenEnv = "HTB_TOKEN"
)

// Config holds CLI configuration for htbctl.
type Config struct {
	BaseURL   string
	TokenPath string
	Token     string
	Iface     string

	TickInterval time.Duration
	SpawnTicks   int
	StopTicks    int
	HTTPTimeout  time.Duration

	IncludeRetired bool
	JSON           bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		TokenPath:      DefaultTokenPath,
		Iface:          DefaultIface,
		TickInterval:   time.Second,
		SpawnTicks:     300,
		StopTicks:      60,
		HTTPTimeout:    15 * time.Second,
		IncludeRetired: true,
	}
}

// Validate checks the configuration for errors and normalizes derived
// values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	// Ensure no trailing slash
	if c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}
	if c.Iface == "" {
		c.Iface = DefaultIface
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.SpawnTicks <= 0 || c.StopTicks <= 0 {
		return fmt.Errorf("poll tick budgets must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if
// valid. Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
