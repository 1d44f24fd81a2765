// Package htbctl provides a lifecycle controller for a HackTheBox lab
// machine: catalog search, spawn with address polling, stop, reset, and
// flag submission.
//
// Example usage:
//
//	cfg := htbctl.DefaultConfig()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	ctrl, err := htbctl.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ref, err := ctrl.Resolve(ctx, "lame", 0, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := ctrl.Start(ctx, ref)
package htbctl

import (
	"net/http"

	"github.com/bft-labs/htbctl/internal/adapters/htb"
	"github.com/bft-labs/htbctl/internal/app"
	"github.com/bft-labs/htbctl/internal/cliconfig"
	"github.com/bft-labs/htbctl/internal/domain"
)

// Config holds the configuration for the controller.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Controller drives the account's single active machine slot.
type Controller = app.Controller

// Option configures the controller.
type Option = app.Option

// MachineRef identifies a catalog entry.
type MachineRef = domain.MachineRef

// OperationOutcome is the terminal result of a lifecycle operation.
type OperationOutcome = domain.OperationOutcome

// ProofSubmission pairs a flag with a difficulty rating.
type ProofSubmission = domain.ProofSubmission

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// New builds a controller over the production API. It resolves the API
// credential (token file, then HTB_TOKEN) and fails before any upstream
// call if none is found.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.LoadToken(); err != nil {
		return nil, err
	}
	client := htb.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, nil, cfg.BaseURL, cfg.Token)
	opts = append([]Option{
		app.WithTickInterval(cfg.TickInterval),
		app.WithPollBudgets(cfg.SpawnTicks, cfg.StopTicks),
	}, opts...)
	return app.NewController(client, opts...), nil
}

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = cliconfig.DefaultBaseURL
