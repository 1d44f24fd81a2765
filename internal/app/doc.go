// Package app implements the lifecycle controller: the state machine that
// drives start, stop, reset, and proof submission for the single
// account-wide machine slot through bounded polling loops.
//
// The controller never caches the active slot. Every tick re-queries the
// upstream, which stays the single source of truth; contention (busy,
// conflict) is reported as an outcome, never resolved locally.
//
// Busy handling is asymmetric by contract: a busy upstream is swallowed
// inside the start/reset address polls, where provisioning legitimately
// passes through a transitional state, and surfaced everywhere else.
package app
