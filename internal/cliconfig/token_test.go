package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bft-labs/htbctl/internal/domain"
)

func TestLoadToken_ExplicitTokenWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token = "already-set"
	cfg.TokenPath = filepath.Join(t.TempDir(), "absent.txt")

	if err := cfg.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if cfg.Token != "already-set" {
		t.Errorf("Token = %q", cfg.Token)
	}
}

func TestLoadToken_ReadsAndTrimsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-token.txt")
	if err := os.WriteFile(path, []byte("  tok-abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.TokenPath = path
	if err := cfg.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if cfg.Token != "tok-abc123" {
		t.Errorf("Token = %q, want whitespace trimmed", cfg.Token)
	}
}

func TestLoadToken_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-token.txt")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.TokenPath = path
	err := cfg.LoadToken()
	if !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("LoadToken() error = %v, want ErrNoCredential", err)
	}
}

func TestLoadToken_EnvFallback(t *testing.T) {
	t.Setenv(TokenEnv, " tok-from-env ")

	cfg := DefaultConfig()
	cfg.TokenPath = filepath.Join(t.TempDir(), "absent.txt")
	if err := cfg.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if cfg.Token != "tok-from-env" {
		t.Errorf("Token = %q, want the trimmed env value", cfg.Token)
	}
}

func TestLoadToken_NothingAvailable(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg := DefaultConfig()
	cfg.TokenPath = filepath.Join(t.TempDir(), "absent.txt")
	err := cfg.LoadToken()
	if !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("LoadToken() error = %v, want ErrNoCredential", err)
	}
	if !strings.Contains(err.Error(), TokenEnv) {
		t.Errorf("error %q should name the env fallback", err)
	}
}

func TestLoadToken_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file modes do not bind root")
	}
	path := filepath.Join(t.TempDir(), "api-token.txt")
	if err := os.WriteFile(path, []byte("tok"), 0o000); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.TokenPath = path
	err := cfg.LoadToken()
	if err == nil {
		t.Fatal("LoadToken() should fail on an unreadable file")
	}
	if !strings.Contains(err.Error(), "administrator") {
		t.Errorf("error %q should point at privilege, not configuration", err)
	}
}
