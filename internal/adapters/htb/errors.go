package htb

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bft-labs/htbctl/internal/domain"
)

// The upstream exposes no machine-readable error codes; faults are
// discriminated by message text, and only here. If the upstream ever starts
// wording these differently, this file is the blast radius.
const (
	// conflictFragment marks the another-machine-already-active conflict.
	conflictFragment = "You must stop your active machine"
)

// busyFragments mark a lifecycle operation already in flight for the
// account ("The machine is currently being spawned", "... terminated").
var busyFragments = []string{
	"is currently being",
	"in progress",
}

// mapUpstreamError translates an upstream fault into a typed domain error.
// op names the failed operation for wrapping.
func mapUpstreamError(op string, status int, message string) error {
	switch {
	case strings.Contains(message, conflictFragment):
		return fmt.Errorf("%s: %w", op, domain.ErrAlreadyActive)
	case isBusyMessage(message):
		return fmt.Errorf("%s: %w", op, domain.ErrUpstreamBusy)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	default:
		return &domain.UpstreamError{Op: op, Status: status, Message: message}
	}
}

func isBusyMessage(message string) bool {
	for _, f := range busyFragments {
		if strings.Contains(message, f) {
			return true
		}
	}
	return false
}
