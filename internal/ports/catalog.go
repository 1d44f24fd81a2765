package ports

import (
	"context"

	"github.com/bft-labs/htbctl/internal/domain"
)

// CatalogClient is the provisioning API surface the lifecycle controller
// drives. Implementations translate upstream faults into the typed errors in
// the domain package; message-text discrimination stays inside the adapter.
type CatalogClient interface {
	// FindByName returns catalog entries whose name contains query,
	// case-insensitively. includeRetired widens the search to the retired
	// catalog. An empty slice and nil error means no match.
	FindByName(ctx context.Context, query string, includeRetired bool) ([]domain.MachineRef, error)

	// FindByID returns the catalog entry with the given numeric id.
	// Returns domain.ErrNotFound if no such id exists.
	FindByID(ctx context.Context, id int) (domain.MachineRef, error)

	// Active returns the account's active machine slot, or nil when no
	// instance is running. Returns domain.ErrUpstreamBusy while the slot is
	// mid-transition. Callers must re-query rather than cache the result.
	Active(ctx context.Context) (*domain.ActiveMachine, error)

	// Details returns the full catalog descriptor for the given id.
	Details(ctx context.Context, id int) (domain.MachineDetails, error)

	// Spawn requests an instance of ref. Returns domain.ErrAlreadyActive
	// when another machine occupies the slot, domain.ErrSpawnPending when
	// the request was accepted but provisioning has not settled.
	Spawn(ctx context.Context, ref domain.MachineRef) error

	// Stop requests teardown of the active instance.
	Stop(ctx context.Context, active *domain.ActiveMachine) error

	// Reset requests a fresh provisioning cycle for the active instance.
	// May return domain.ErrSpawnPending like Spawn.
	Reset(ctx context.Context, active *domain.ActiveMachine) error

	// SubmitProof submits a completion proof for the active instance and
	// returns the upstream's response message verbatim.
	SubmitProof(ctx context.Context, active *domain.ActiveMachine, proof domain.ProofSubmission) (string, error)
}
