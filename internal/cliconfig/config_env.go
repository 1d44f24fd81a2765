package cliconfig

import "os"

// Environment variable names. These override file config but are overridden
// by flags (checked via the changed map).
const (
	envBaseURL        = "HTBCTL_BASE_URL"
	envTokenPath      = "HTBCTL_TOKEN_PATH"
	envIface          = "HTBCTL_IFACE"
	envTickInterval   = "HTBCTL_TICK_INTERVAL"
	envSpawnTicks     = "HTBCTL_SPAWN_TICKS"
	envStopTicks      = "HTBCTL_STOP_TICKS"
	envHTTPTimeout    = "HTBCTL_HTTP_TIMEOUT"
	envIncludeRetired = "HTBCTL_INCLUDE_RETIRED"
)

// ApplyEnvConfig applies HTBCTL_* environment variables to the Config.
// The HTB_TOKEN credential fallback is handled by LoadToken, not here.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", os.Getenv(envBaseURL), &cfg.BaseURL)
	s.setString("token-path", os.Getenv(envTokenPath), &cfg.TokenPath)
	s.setString("iface", os.Getenv(envIface), &cfg.Iface)

	if err := s.setDuration("tick", os.Getenv(envTickInterval), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv(envHTTPTimeout), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("spawn-ticks", os.Getenv(envSpawnTicks), &cfg.SpawnTicks); err != nil {
		return err
	}
	if err := s.setIntFromString("stop-ticks", os.Getenv(envStopTicks), &cfg.StopTicks); err != nil {
		return err
	}

	s.setBoolFromString("retired", os.Getenv(envIncludeRetired), &cfg.IncludeRetired)

	return nil
}
