package domain

import "time"

// OutcomeKind tags the terminal result of a lifecycle operation.
type OutcomeKind int

const (
	// OutcomeStarted means a spawn was accepted but no address was observed.
	OutcomeStarted OutcomeKind = iota

	// OutcomeAlreadyActive means another machine occupies the active slot.
	OutcomeAlreadyActive

	// OutcomeStopped means teardown was confirmed (address cleared).
	OutcomeStopped

	// OutcomeResulted means the operation completed with an address.
	OutcomeResulted

	// OutcomeBusy means the upstream reported a transitional state outside
	// of a context where waiting it out is legitimate.
	OutcomeBusy

	// OutcomeTimedOut means a polling loop exhausted its tick budget.
	OutcomeTimedOut

	// OutcomeNotFound means no machine matched, or no instance is active.
	OutcomeNotFound

	// OutcomeSubmitted means a proof was accepted by the upstream.
	OutcomeSubmitted

	// OutcomeInvalid means a submission failed local validation and no
	// upstream call was made.
	OutcomeInvalid
)

// String returns a human-readable representation of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStarted:
		return "Started"
	case OutcomeAlreadyActive:
		return "AlreadyActive"
	case OutcomeStopped:
		return "Stopped"
	case OutcomeResulted:
		return "Resulted"
	case OutcomeBusy:
		return "Busy"
	case OutcomeTimedOut:
		return "TimedOut"
	case OutcomeNotFound:
		return "NotFound"
	case OutcomeSubmitted:
		return "Submitted"
	case OutcomeInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// OperationOutcome is the terminal result of a lifecycle operation, produced
// synchronously or after a bounded poll and consumed by the presentation
// layer. Recoverable conditions (busy, timeout, conflict, not-found,
// validation failure) are outcomes rather than errors: the caller may retry.
type OperationOutcome struct {
	// Kind tags the result.
	Kind OutcomeKind

	// Machine is the display name of the machine involved, when known.
	Machine string

	// Address is set for OutcomeResulted.
	Address string

	// Message carries upstream response text or a validation diagnostic.
	Message string

	// Elapsed is the wall-clock time from operation acceptance to the
	// terminal result, for polled operations.
	Elapsed time.Duration
}
