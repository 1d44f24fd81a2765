// Package domain contains the core entities and value objects for htbctl.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (HTTP, netlink, logging) and
// contains only the vocabulary of the machine lifecycle.
//
// # Entities
//
//   - [MachineRef]: Identity of a catalog entry (id, name, difficulty tier)
//   - [ActiveMachine]: The single account-wide active instance slot
//   - [MachineDetails]: Full descriptor of a catalog entry
//   - [OperationOutcome]: Tagged terminal result of a lifecycle operation
//   - [ProofSubmission]: A completion proof paired with a difficulty rating
//
// MachineRef values are resolved per query and never cached: the upstream
// account slot is shared with other actors (web UI, teammates), so every
// observation goes back to the upstream.
package domain
