package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/htbctl/internal/domain"
	"github.com/bft-labs/htbctl/internal/ports"
)

// Controller drives the single account-wide machine slot through its
// lifecycle. It owns all state transitions and the two polling loops; the
// upstream remains authoritative for the at-most-one-active invariant, the
// controller only detects and reports violations.
type Controller struct {
	catalog ports.CatalogClient
	logger  ports.Logger
	clock   ports.Clock

	tick       time.Duration
	spawnTicks int
	stopTicks  int
}

// NewController creates a controller over the given catalog client.
func NewController(catalog ports.CatalogClient, opts ...Option) *Controller {
	c := &Controller{
		catalog:    catalog,
		logger:     noopLogger{},
		clock:      systemClock{},
		tick:       DefaultTickInterval,
		spawnTicks: DefaultSpawnTicks,
		stopTicks:  DefaultStopTicks,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// noopLogger is the default logger when none is configured.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field) {}
func (noopLogger) Info(msg string, fields ...ports.Field)  {}
func (noopLogger) Warn(msg string, fields ...ports.Field)  {}
func (noopLogger) Error(msg string, fields ...ports.Field) {}

// Search returns all catalog entries matching query. A query matching
// nothing is an error: the caller asked about a machine that does not exist.
func (c *Controller) Search(ctx context.Context, query string, includeRetired bool) ([]domain.MachineRef, error) {
	matches, err := c.catalog.FindByName(ctx, query, includeRetired)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no machines found for query %q: %w", query, domain.ErrNotFound)
	}
	return matches, nil
}

// Resolve narrows a query to exactly one catalog entry for an operation that
// needs a single target. A non-zero id either looks the machine up directly
// (empty query) or filters an ambiguous name match. Multiple matches without
// a usable id are never auto-selected.
func (c *Controller) Resolve(ctx context.Context, query string, id int, includeRetired bool) (domain.MachineRef, error) {
	if query == "" {
		return c.catalog.FindByID(ctx, id)
	}
	matches, err := c.catalog.FindByName(ctx, query, includeRetired)
	if err != nil {
		return domain.MachineRef{}, fmt.Errorf("search %q: %w", query, err)
	}
	switch {
	case len(matches) == 0:
		return domain.MachineRef{}, fmt.Errorf("no machines found for query %q: %w", query, domain.ErrNotFound)
	case len(matches) == 1:
		return matches[0], nil
	}
	if id != 0 {
		for _, m := range matches {
			if m.ID == id {
				return m, nil
			}
		}
		// The id filter excluded every match; report it rather than
		// silently doing nothing.
		return domain.MachineRef{}, fmt.Errorf("no match for query %q with id %d: %w", query, id, domain.ErrNotFound)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return domain.MachineRef{}, &domain.AmbiguousQueryError{Query: query, Matches: names}
}

// Start spawns an instance of ref and polls until it is assigned an address.
// A spawn that is still settling counts as accepted; a conflict with an
// already-active machine is a normal outcome, not a fault. The address poll
// swallows busy ticks: provisioning legitimately passes through a
// transitional state.
func (c *Controller) Start(ctx context.Context, ref domain.MachineRef) (domain.OperationOutcome, error) {
	err := c.catalog.Spawn(ctx, ref)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSpawnPending):
		// Accepted; the instance is still being provisioned.
	case errors.Is(err, domain.ErrAlreadyActive):
		return domain.OperationOutcome{Kind: domain.OutcomeAlreadyActive, Machine: ref.Name}, nil
	case errors.Is(err, domain.ErrUpstreamBusy):
		return domain.OperationOutcome{Kind: domain.OutcomeBusy, Machine: ref.Name}, nil
	default:
		return domain.OperationOutcome{}, fmt.Errorf("spawn %s: %w", ref.Name, err)
	}

	accepted := c.clock.Now()
	c.logger.Info("instance started, waiting for address",
		ports.String("machine", ref.Name),
		ports.Int("ticks", c.spawnTicks))

	address, ok, err := c.poll(ctx, c.spawnTicks, c.probeAddressAssigned)
	if err != nil {
		return domain.OperationOutcome{}, fmt.Errorf("start %s: %w", ref.Name, err)
	}
	elapsed := c.clock.Now().Sub(accepted)
	if !ok {
		return domain.OperationOutcome{Kind: domain.OutcomeTimedOut, Machine: ref.Name, Elapsed: elapsed}, nil
	}
	return domain.OperationOutcome{Kind: domain.OutcomeResulted, Machine: ref.Name, Address: address, Elapsed: elapsed}, nil
}

// Stop tears down the active instance and polls until its address clears.
// Unlike Start, a busy upstream during the teardown poll is not waited out:
// it means the stop could not be confirmed, and the caller needs to know.
func (c *Controller) Stop(ctx context.Context) (domain.OperationOutcome, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return domain.OperationOutcome{Kind: domain.OutcomeBusy}, nil
		}
		return domain.OperationOutcome{}, fmt.Errorf("stop: %w", err)
	}
	if active == nil {
		return domain.OperationOutcome{Kind: domain.OutcomeNotFound}, nil
	}
	name := active.Ref.Name

	if err := c.catalog.Stop(ctx, active); err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return domain.OperationOutcome{Kind: domain.OutcomeBusy, Machine: name}, nil
		}
		return domain.OperationOutcome{}, fmt.Errorf("stop %s: %w", name, err)
	}

	accepted := c.clock.Now()
	c.logger.Info("instance stopping, waiting for teardown",
		ports.String("machine", name),
		ports.Int("ticks", c.stopTicks))

	_, ok, err := c.poll(ctx, c.stopTicks, c.probeAddressCleared)
	elapsed := c.clock.Now().Sub(accepted)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return domain.OperationOutcome{Kind: domain.OutcomeBusy, Machine: name, Elapsed: elapsed}, nil
		}
		return domain.OperationOutcome{}, fmt.Errorf("stop %s: %w", name, err)
	}
	if !ok {
		return domain.OperationOutcome{Kind: domain.OutcomeTimedOut, Machine: name, Elapsed: elapsed}, nil
	}
	return domain.OperationOutcome{Kind: domain.OutcomeStopped, Machine: name, Elapsed: elapsed}, nil
}

// Reset requests a fresh provisioning cycle for the active instance and
// polls for the new address with the same busy-swallowing loop as Start,
// since a reset is a new provisioning cycle with a new address.
func (c *Controller) Reset(ctx context.Context) (domain.OperationOutcome, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return domain.OperationOutcome{Kind: domain.OutcomeBusy}, nil
		}
		return domain.OperationOutcome{}, fmt.Errorf("reset: %w", err)
	}
	if active == nil {
		return domain.OperationOutcome{Kind: domain.OutcomeNotFound}, nil
	}
	name := active.Ref.Name

	err = c.catalog.Reset(ctx, active)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSpawnPending):
		// Accepted; the replacement instance is still being provisioned.
	case errors.Is(err, domain.ErrUpstreamBusy):
		return domain.OperationOutcome{Kind: domain.OutcomeBusy, Machine: name}, nil
	default:
		return domain.OperationOutcome{}, fmt.Errorf("reset %s: %w", name, err)
	}

	accepted := c.clock.Now()
	c.logger.Info("instance resetting, waiting for new address",
		ports.String("machine", name),
		ports.Int("ticks", c.spawnTicks))

	address, ok, err := c.poll(ctx, c.spawnTicks, c.probeAddressAssigned)
	if err != nil {
		return domain.OperationOutcome{}, fmt.Errorf("reset %s: %w", name, err)
	}
	elapsed := c.clock.Now().Sub(accepted)
	if !ok {
		return domain.OperationOutcome{Kind: domain.OutcomeTimedOut, Machine: name, Elapsed: elapsed}, nil
	}
	return domain.OperationOutcome{Kind: domain.OutcomeResulted, Machine: name, Address: address, Elapsed: elapsed}, nil
}

// SubmitProof validates the submission locally, then submits it for the
// active instance. Validation failures are outcomes produced before any
// upstream call.
func (c *Controller) SubmitProof(ctx context.Context, proof domain.ProofSubmission) (domain.OperationOutcome, error) {
	if err := proof.Validate(); err != nil {
		return domain.OperationOutcome{Kind: domain.OutcomeInvalid, Message: err.Error()}, nil
	}

	active, err := c.catalog.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return domain.OperationOutcome{Kind: domain.OutcomeBusy}, nil
		}
		return domain.OperationOutcome{}, fmt.Errorf("submit proof: %w", err)
	}
	if active == nil {
		return domain.OperationOutcome{Kind: domain.OutcomeNotFound}, nil
	}

	message, err := c.catalog.SubmitProof(ctx, active, proof)
	if err != nil {
		return domain.OperationOutcome{}, fmt.Errorf("submit proof for %s: %w", active.Ref.Name, err)
	}
	return domain.OperationOutcome{Kind: domain.OutcomeSubmitted, Machine: active.Ref.Name, Message: message}, nil
}

// Target returns the active instance's address. No operation is in flight to
// justify masking a busy upstream, so domain.ErrUpstreamBusy propagates.
// Returns domain.ErrNotFound when no instance is active, and an empty
// address when one is active but not yet reachable.
func (c *Controller) Target(ctx context.Context) (string, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		return "", err
	}
	if active == nil {
		return "", domain.ErrNotFound
	}
	return active.Address, nil
}

// Describe returns the full descriptor of the active instance. Like Target,
// a busy upstream propagates.
func (c *Controller) Describe(ctx context.Context) (*domain.Descriptor, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domain.ErrNotFound
	}
	details, err := c.catalog.Details(ctx, active.Ref.ID)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", active.Ref.Name, err)
	}
	return &domain.Descriptor{Active: *active, Details: details}, nil
}

// probeAddressAssigned observes the active slot, waiting for an address.
// Busy is a normal transitional state here.
func (c *Controller) probeAddressAssigned(ctx context.Context) (string, pollStep, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamBusy) {
			return "", stepNotYet, nil
		}
		return "", stepFailed, err
	}
	if !active.HasAddress() {
		return "", stepNotYet, nil
	}
	return active.Address, stepReady, nil
}

// probeAddressCleared observes the active slot, waiting for the address to
// clear. Busy is not swallowed: the stop must be confirmable.
func (c *Controller) probeAddressCleared(ctx context.Context) (string, pollStep, error) {
	active, err := c.catalog.Active(ctx)
	if err != nil {
		return "", stepFailed, err
	}
	if active.HasAddress() {
		return "", stepNotYet, nil
	}
	return "", stepReady, nil
}
