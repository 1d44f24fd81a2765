package cliconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/bft-labs/htbctl/internal/domain"
)

// LoadToken resolves the API credential into cfg.Token: an already-set
// token wins, then the credential file, then the HTB_TOKEN environment
// variable. It runs before any upstream call and fails fast when nothing
// yields a credential.
//
// A permission error on the credential file is its own failure mode: the
// default path is root-readable, so the fix is privilege, not configuration.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	b, err := os.ReadFile(c.TokenPath)
	switch {
	case err == nil:
		c.Token = strings.TrimSpace(string(b))
		if c.Token == "" {
			return fmt.Errorf("credential file %s is empty: %w", c.TokenPath, domain.ErrNoCredential)
		}
		return nil
	case os.IsPermission(err):
		return fmt.Errorf("credential file %s is not readable, run as an administrator: %w", c.TokenPath, err)
	case !os.IsNotExist(err):
		return fmt.Errorf("read credential file %s: %w", c.TokenPath, err)
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		c.Token = token
		return nil
	}
	return fmt.Errorf("no credential file at %s and %s is unset: %w", c.TokenPath, TokenEnv, domain.ErrNoCredential)
}
