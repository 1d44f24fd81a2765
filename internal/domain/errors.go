package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the htbctl domain.
// These errors cross the catalog-client boundary and can be checked with
// errors.Is.
var (
	// ErrNotFound is returned when a query resolves to no catalog entry or
	// when an operation needs an active machine and none exists.
	ErrNotFound = errors.New("htbctl: machine not found")

	// ErrUpstreamBusy is returned when the upstream reports the account's
	// machine slot is mid-transition.
	ErrUpstreamBusy = errors.New("htbctl: machine busy with another operation")

	// ErrAlreadyActive is returned by spawn when another machine already
	// occupies the account's active slot.
	ErrAlreadyActive = errors.New("htbctl: another machine is already active")

	// ErrSpawnPending is returned when spawn was accepted but the upstream
	// response is not yet in its settled shape. The instance is still being
	// provisioned; callers treat this as acceptance.
	ErrSpawnPending = errors.New("htbctl: spawn accepted, provisioning pending")

	// ErrNoCredential is returned when neither the credential file nor the
	// environment yields an API token.
	ErrNoCredential = errors.New("htbctl: no API credential found")

	// ErrAmbiguousQuery is the target for AmbiguousQueryError.
	ErrAmbiguousQuery = errors.New("htbctl: query matches multiple machines")

	// ErrInvalidProof is returned for a malformed proof submission string.
	ErrInvalidProof = errors.New("htbctl: invalid proof format")

	// ErrInvalidDifficulty is returned when a difficulty rating violates
	// the integer / multiple-of-10 / range rules.
	ErrInvalidDifficulty = errors.New("htbctl: invalid difficulty rating")
)

// AmbiguousQueryError reports a name query that matched more than one
// catalog entry when an operation required exactly one. It carries the
// matching names so the caller can disambiguate; nothing is auto-selected.
type AmbiguousQueryError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousQueryError) Error() string {
	return fmt.Sprintf("multiple machines found for %q: %s", e.Query, strings.Join(e.Matches, ", "))
}

// Is makes errors.Is(err, ErrAmbiguousQuery) match.
func (e *AmbiguousQueryError) Is(target error) bool {
	return target == ErrAmbiguousQuery
}

// UpstreamError carries a fault message from the provisioning API that did
// not map to a known condition. It is unrecoverable for the operation that
// triggered it.
type UpstreamError struct {
	Op      string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Op, e.Status, e.Message)
}
