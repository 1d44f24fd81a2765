package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bft-labs/htbctl/internal/domain"
)

// fakeClock advances one tick per Sleep without waiting.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	c.sleeps++
	return nil
}

// activeResult scripts one Active() observation. The last entry repeats.
type activeResult struct {
	machine *domain.ActiveMachine
	err     error
}

// fakeCatalog implements ports.CatalogClient with scripted responses.
type fakeCatalog struct {
	refs    []domain.MachineRef
	findErr error

	active []activeResult

	spawnErr error
	stopErr  error
	resetErr error

	submitMessage string
	submitErr     error

	findCalls   int
	activeCalls int
	spawnCalls  int
	stopCalls   int
	resetCalls  int
	submitCalls int
}

func (f *fakeCatalog) FindByName(ctx context.Context, query string, includeRetired bool) ([]domain.MachineRef, error) {
	f.findCalls++
	return f.refs, f.findErr
}

func (f *fakeCatalog) FindByID(ctx context.Context, id int) (domain.MachineRef, error) {
	f.findCalls++
	for _, r := range f.refs {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.MachineRef{}, domain.ErrNotFound
}

func (f *fakeCatalog) Active(ctx context.Context) (*domain.ActiveMachine, error) {
	i := f.activeCalls
	f.activeCalls++
	if len(f.active) == 0 {
		return nil, nil
	}
	if i >= len(f.active) {
		i = len(f.active) - 1
	}
	return f.active[i].machine, f.active[i].err
}

func (f *fakeCatalog) Details(ctx context.Context, id int) (domain.MachineDetails, error) {
	for _, r := range f.refs {
		if r.ID == id {
			return domain.MachineDetails{Ref: r}, nil
		}
	}
	return domain.MachineDetails{}, domain.ErrNotFound
}

func (f *fakeCatalog) Spawn(ctx context.Context, ref domain.MachineRef) error {
	f.spawnCalls++
	return f.spawnErr
}

func (f *fakeCatalog) Stop(ctx context.Context, active *domain.ActiveMachine) error {
	f.stopCalls++
	return f.stopErr
}

func (f *fakeCatalog) Reset(ctx context.Context, active *domain.ActiveMachine) error {
	f.resetCalls++
	return f.resetErr
}

func (f *fakeCatalog) SubmitProof(ctx context.Context, active *domain.ActiveMachine, proof domain.ProofSubmission) (string, error) {
	f.submitCalls++
	return f.submitMessage, f.submitErr
}

func lameRef() domain.MachineRef {
	return domain.MachineRef{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy", Retired: true}
}

func lameActive(address string) *domain.ActiveMachine {
	return &domain.ActiveMachine{Ref: lameRef(), Address: address}
}

// repeat builds n identical observations.
func repeat(n int, r activeResult) []activeResult {
	out := make([]activeResult, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func newTestController(catalog *fakeCatalog) (*Controller, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return NewController(catalog, WithClock(clock)), clock
}

func TestStart_AddressAppears(t *testing.T) {
	catalog := &fakeCatalog{
		active: append(repeat(4, activeResult{machine: lameActive("")}),
			activeResult{machine: lameActive("10.10.10.3")}),
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Start(context.Background(), lameRef())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out.Kind != domain.OutcomeResulted {
		t.Fatalf("Kind = %v, want Resulted", out.Kind)
	}
	if out.Address != "10.10.10.3" {
		t.Errorf("Address = %q, want 10.10.10.3", out.Address)
	}
	if out.Elapsed != 5*time.Second {
		t.Errorf("Elapsed = %v, want 5s", out.Elapsed)
	}
	if catalog.activeCalls != 5 {
		t.Errorf("activeCalls = %d, want 5", catalog.activeCalls)
	}
}

func TestStart_AlreadyActiveConflict(t *testing.T) {
	catalog := &fakeCatalog{
		spawnErr: fmt.Errorf("spawn: %w", domain.ErrAlreadyActive),
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Start(context.Background(), lameRef())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out.Kind != domain.OutcomeAlreadyActive {
		t.Fatalf("Kind = %v, want AlreadyActive", out.Kind)
	}
	if catalog.activeCalls != 0 {
		t.Errorf("activeCalls = %d, want 0 (no polling on conflict)", catalog.activeCalls)
	}
}

func TestStart_PendingSpawnIsAccepted(t *testing.T) {
	catalog := &fakeCatalog{
		spawnErr: fmt.Errorf("spawn: %w", domain.ErrSpawnPending),
		active:   []activeResult{{machine: lameActive("10.10.10.3")}},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Start(context.Background(), lameRef())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out.Kind != domain.OutcomeResulted {
		t.Fatalf("Kind = %v, want Resulted", out.Kind)
	}
}

func TestStart_BusyTicksAreSwallowed(t *testing.T) {
	catalog := &fakeCatalog{
		active: append(repeat(10, activeResult{err: domain.ErrUpstreamBusy}),
			activeResult{machine: lameActive("10.10.10.3")}),
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Start(context.Background(), lameRef())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out.Kind != domain.OutcomeResulted {
		t.Fatalf("Kind = %v, want Resulted", out.Kind)
	}
	if out.Elapsed != 11*time.Second {
		t.Errorf("Elapsed = %v, want 11s", out.Elapsed)
	}
}

func TestStart_TimedOutAtBudget(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{machine: lameActive("")}},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Start(context.Background(), lameRef())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out.Kind != domain.OutcomeTimedOut {
		t.Fatalf("Kind = %v, want TimedOut", out.Kind)
	}
	if catalog.activeCalls != DefaultSpawnTicks {
		t.Errorf("activeCalls = %d, want %d", catalog.activeCalls, DefaultSpawnTicks)
	}
	if out.Elapsed != time.Duration(DefaultSpawnTicks)*time.Second {
		t.Errorf("Elapsed = %v, want %ds", out.Elapsed, DefaultSpawnTicks)
	}
}

func TestStart_OtherSpawnFaultIsFatal(t *testing.T) {
	catalog := &fakeCatalog{
		spawnErr: &domain.UpstreamError{Op: "spawn Lame", Status: 500, Message: "internal error"},
	}
	ctrl, _ := newTestController(catalog)

	_, err := ctrl.Start(context.Background(), lameRef())
	if err == nil {
		t.Fatal("Start() expected error for unrecognized spawn fault")
	}
	if catalog.activeCalls != 0 {
		t.Errorf("activeCalls = %d, want 0", catalog.activeCalls)
	}
}

func TestStart_CancelAbortsPoll(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{machine: lameActive("")}},
	}
	ctrl, _ := newTestController(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ctrl.Start(ctx, lameRef())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}
}

func TestStop_NoActiveMachine(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl, _ := newTestController(catalog)

	for i := 0; i < 2; i++ {
		out, err := ctrl.Stop(context.Background())
		if err != nil {
			t.Fatalf("Stop() #%d error = %v", i+1, err)
		}
		if out.Kind != domain.OutcomeNotFound {
			t.Fatalf("Stop() #%d Kind = %v, want NotFound", i+1, out.Kind)
		}
	}
	if catalog.stopCalls != 0 {
		t.Errorf("stopCalls = %d, want 0", catalog.stopCalls)
	}
}

func TestStop_TeardownConfirmed(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{
			{machine: lameActive("10.10.10.3")}, // pre-check
			{machine: lameActive("10.10.10.3")},
			{machine: lameActive("10.10.10.3")},
			{machine: nil},
		},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if out.Kind != domain.OutcomeStopped {
		t.Fatalf("Kind = %v, want Stopped", out.Kind)
	}
	if out.Machine != "Lame" {
		t.Errorf("Machine = %q, want Lame", out.Machine)
	}
	if out.Elapsed != 3*time.Second {
		t.Errorf("Elapsed = %v, want 3s", out.Elapsed)
	}
	if catalog.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1", catalog.stopCalls)
	}
}

func TestStop_BusyDuringPollIsNotSwallowed(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{
			{machine: lameActive("10.10.10.3")},
			{err: domain.ErrUpstreamBusy},
		},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if out.Kind != domain.OutcomeBusy {
		t.Fatalf("Kind = %v, want Busy", out.Kind)
	}
	if catalog.activeCalls != 2 {
		t.Errorf("activeCalls = %d, want 2 (busy ends the poll)", catalog.activeCalls)
	}
}

func TestStop_BusyPreCheck(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{err: domain.ErrUpstreamBusy}},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if out.Kind != domain.OutcomeBusy {
		t.Fatalf("Kind = %v, want Busy", out.Kind)
	}
	if catalog.stopCalls != 0 {
		t.Errorf("stopCalls = %d, want 0", catalog.stopCalls)
	}
}

func TestStop_TimedOutAtBudget(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{machine: lameActive("10.10.10.3")}},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if out.Kind != domain.OutcomeTimedOut {
		t.Fatalf("Kind = %v, want TimedOut", out.Kind)
	}
	// one pre-check plus the full teardown budget
	if catalog.activeCalls != DefaultStopTicks+1 {
		t.Errorf("activeCalls = %d, want %d", catalog.activeCalls, DefaultStopTicks+1)
	}
}

func TestReset_NoActiveMachine(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if out.Kind != domain.OutcomeNotFound {
		t.Fatalf("Kind = %v, want NotFound", out.Kind)
	}
	if catalog.resetCalls != 0 {
		t.Errorf("resetCalls = %d, want 0", catalog.resetCalls)
	}
}

func TestReset_NewAddressAppears(t *testing.T) {
	catalog := &fakeCatalog{
		resetErr: fmt.Errorf("reset: %w", domain.ErrSpawnPending),
		active: []activeResult{
			{machine: lameActive("10.10.10.3")}, // pre-check, old address
			{machine: lameActive("")},
			{err: domain.ErrUpstreamBusy},
			{machine: lameActive("10.10.10.5")},
		},
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if out.Kind != domain.OutcomeResulted {
		t.Fatalf("Kind = %v, want Resulted", out.Kind)
	}
	if out.Address != "10.10.10.5" {
		t.Errorf("Address = %q, want 10.10.10.5", out.Address)
	}
	if out.Elapsed != 3*time.Second {
		t.Errorf("Elapsed = %v, want 3s", out.Elapsed)
	}
}

func TestSubmitProof_ValidationStopsBeforeUpstream(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		wantRule   string
	}{
		{"not a multiple of ten", 45, "difficulty must be a multiple of 10"},
		{"below range", 0, "difficulty must be between 10 and 100"},
		{"above range", 110, "difficulty must be between 10 and 100"},
		{"negative", -20, "difficulty must be between 10 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			ctrl, _ := newTestController(catalog)

			out, err := ctrl.SubmitProof(context.Background(), domain.ProofSubmission{Flag: "abcd1234", Difficulty: tt.difficulty})
			if err != nil {
				t.Fatalf("SubmitProof() error = %v", err)
			}
			if out.Kind != domain.OutcomeInvalid {
				t.Fatalf("Kind = %v, want Invalid", out.Kind)
			}
			if out.Message != tt.wantRule {
				t.Errorf("Message = %q, want %q", out.Message, tt.wantRule)
			}
			if catalog.activeCalls != 0 || catalog.submitCalls != 0 {
				t.Errorf("upstream calls = %d/%d, want none", catalog.activeCalls, catalog.submitCalls)
			}
		})
	}
}

func TestSubmitProof_Accepted(t *testing.T) {
	catalog := &fakeCatalog{
		active:        []activeResult{{machine: lameActive("10.10.10.3")}},
		submitMessage: "Lame user is now owned.",
	}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.SubmitProof(context.Background(), domain.ProofSubmission{Flag: "abcd1234", Difficulty: 40})
	if err != nil {
		t.Fatalf("SubmitProof() error = %v", err)
	}
	if out.Kind != domain.OutcomeSubmitted {
		t.Fatalf("Kind = %v, want Submitted", out.Kind)
	}
	if out.Machine != "Lame" {
		t.Errorf("Machine = %q, want Lame", out.Machine)
	}
	if out.Message != "Lame user is now owned." {
		t.Errorf("Message = %q, want upstream message verbatim", out.Message)
	}
}

func TestSubmitProof_NoActiveMachine(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl, _ := newTestController(catalog)

	out, err := ctrl.SubmitProof(context.Background(), domain.ProofSubmission{Flag: "abcd1234", Difficulty: 40})
	if err != nil {
		t.Fatalf("SubmitProof() error = %v", err)
	}
	if out.Kind != domain.OutcomeNotFound {
		t.Fatalf("Kind = %v, want NotFound", out.Kind)
	}
	if catalog.submitCalls != 0 {
		t.Errorf("submitCalls = %d, want 0", catalog.submitCalls)
	}
}

func TestTarget_BusyPropagates(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{err: domain.ErrUpstreamBusy}},
	}
	ctrl, _ := newTestController(catalog)

	_, err := ctrl.Target(context.Background())
	if !errors.Is(err, domain.ErrUpstreamBusy) {
		t.Fatalf("Target() error = %v, want ErrUpstreamBusy", err)
	}
}

func TestTarget_NoActiveMachine(t *testing.T) {
	ctrl, _ := newTestController(&fakeCatalog{})

	_, err := ctrl.Target(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Target() error = %v, want ErrNotFound", err)
	}
}

func TestTarget_ReturnsAddress(t *testing.T) {
	catalog := &fakeCatalog{
		active: []activeResult{{machine: lameActive("10.10.10.3")}},
	}
	ctrl, _ := newTestController(catalog)

	address, err := ctrl.Target(context.Background())
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	if address != "10.10.10.3" {
		t.Errorf("address = %q, want 10.10.10.3", address)
	}
}

func TestDescribe_ReturnsDescriptor(t *testing.T) {
	catalog := &fakeCatalog{
		refs:   []domain.MachineRef{lameRef()},
		active: []activeResult{{machine: lameActive("10.10.10.3")}},
	}
	ctrl, _ := newTestController(catalog)

	desc, err := ctrl.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc.Active.Address != "10.10.10.3" {
		t.Errorf("Active.Address = %q, want 10.10.10.3", desc.Active.Address)
	}
	if desc.Details.Ref.Name != "Lame" {
		t.Errorf("Details.Ref.Name = %q, want Lame", desc.Details.Ref.Name)
	}
}

func TestResolve(t *testing.T) {
	lame := lameRef()
	lames := []domain.MachineRef{
		lame,
		{ID: 7, Name: "Lament", OS: "Linux", Difficulty: "Medium"},
	}

	tests := []struct {
		name    string
		refs    []domain.MachineRef
		query   string
		id      int
		want    int // expected ref id, 0 for error cases
		wantErr error
	}{
		{"single match", []domain.MachineRef{lame}, "lame", 0, 1, nil},
		{"by id", lames, "", 7, 7, nil},
		{"no match", nil, "lame", 0, 0, domain.ErrNotFound},
		{"ambiguous", lames, "lame", 0, 0, domain.ErrAmbiguousQuery},
		{"ambiguous filtered by id", lames, "lame", 7, 7, nil},
		{"ambiguous id filter excludes all", lames, "lame", 42, 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{refs: tt.refs}
			ctrl, _ := newTestController(catalog)

			ref, err := ctrl.Resolve(context.Background(), tt.query, tt.id, true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if ref.ID != tt.want {
				t.Errorf("ref.ID = %d, want %d", ref.ID, tt.want)
			}
		})
	}
}

func TestResolve_AmbiguousCarriesMatches(t *testing.T) {
	catalog := &fakeCatalog{refs: []domain.MachineRef{
		{ID: 1, Name: "Lame"},
		{ID: 7, Name: "Lament"},
	}}
	ctrl, _ := newTestController(catalog)

	_, err := ctrl.Resolve(context.Background(), "lame", 0, true)
	var ambiguous *domain.AmbiguousQueryError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve() error = %v, want AmbiguousQueryError", err)
	}
	if len(ambiguous.Matches) != 2 || ambiguous.Matches[0] != "Lame" || ambiguous.Matches[1] != "Lament" {
		t.Errorf("Matches = %v, want [Lame Lament]", ambiguous.Matches)
	}
}

func TestSearch_ZeroMatchesIsError(t *testing.T) {
	ctrl, _ := newTestController(&fakeCatalog{})

	_, err := ctrl.Search(context.Background(), "nope", true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Search() error = %v, want ErrNotFound", err)
	}
}
