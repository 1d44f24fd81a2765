// Package htb implements ports.CatalogClient against the HackTheBox v4 API.
//
// All upstream message-text discrimination lives in errors.go; the rest of
// the codebase only sees typed domain errors.
package htb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	logadapter "github.com/bft-labs/htbctl/internal/adapters/log"
	"github.com/bft-labs/htbctl/internal/domain"
	"github.com/bft-labs/htbctl/internal/ports"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://labs.hackthebox.com/api/v4"

// API paths, relative to the base URL.
const (
	listPath        = "/machine/list"
	listRetiredPath = "/machine/list/retired"
	profilePath     = "/machine/profile/%d"
	activePath      = "/machine/active"
	spawnPath       = "/vm/spawn"
	terminatePath   = "/vm/terminate"
	resetPath       = "/vm/reset"
	ownPath         = "/machine/own"
)

// Client talks to the provisioning API with bearer-token auth.
type Client struct {
	http    ports.HTTPClient
	logger  ports.Logger
	baseURL string
	token   string
}

// NewClient creates a catalog client. baseURL must not end with a slash;
// cliconfig.Validate normalizes that. A nil logger discards diagnostics.
func NewClient(httpClient ports.HTTPClient, logger ports.Logger, baseURL, token string) *Client {
	if logger == nil {
		logger = logadapter.NewNoopLogger()
	}
	return &Client{
		http:    httpClient,
		logger:  logger,
		baseURL: baseURL,
		token:   token,
	}
}

// FindByName matches query case-insensitively against the machine names in
// the active catalog, plus the retired catalog when includeRetired is set.
// The upstream has no server-side name filter, so the match happens here.
func (c *Client) FindByName(ctx context.Context, query string, includeRetired bool) ([]domain.MachineRef, error) {
	paths := []string{listPath}
	if includeRetired {
		paths = append(paths, listRetiredPath)
	}

	var matches []domain.MachineRef
	needle := strings.ToLower(query)
	for _, path := range paths {
		var list listResponse
		if err := c.get(ctx, "list machines", path, &list); err != nil {
			return nil, err
		}
		for _, m := range list.Info {
			if strings.Contains(strings.ToLower(m.Name), needle) {
				matches = append(matches, m.toRef())
			}
		}
	}
	return matches, nil
}

// FindByID fetches the catalog entry for a numeric id.
func (c *Client) FindByID(ctx context.Context, id int) (domain.MachineRef, error) {
	var profile profileResponse
	if err := c.get(ctx, fmt.Sprintf("machine %d", id), fmt.Sprintf(profilePath, id), &profile); err != nil {
		return domain.MachineRef{}, err
	}
	return profile.Info.toRef(), nil
}

// Active returns the account's active machine slot, nil when empty.
func (c *Client) Active(ctx context.Context) (*domain.ActiveMachine, error) {
	var active activeResponse
	if err := c.get(ctx, "active machine", activePath, &active); err != nil {
		return nil, err
	}
	if active.Info == nil {
		return nil, nil
	}
	m := active.Info.toActive()
	return &m, nil
}

// Details fetches the full catalog descriptor for a machine.
func (c *Client) Details(ctx context.Context, id int) (domain.MachineDetails, error) {
	var profile profileResponse
	if err := c.get(ctx, fmt.Sprintf("machine %d details", id), fmt.Sprintf(profilePath, id), &profile); err != nil {
		return domain.MachineDetails{}, err
	}
	return profile.Info.toDetails(), nil
}

// Spawn requests a new instance. A well-formed refusal maps to a typed
// error; a 2xx response whose body has not settled into the message shape
// maps to domain.ErrSpawnPending, which callers treat as acceptance.
func (c *Client) Spawn(ctx context.Context, ref domain.MachineRef) error {
	return c.mutate(ctx, fmt.Sprintf("spawn %s", ref.Name), spawnPath, ref.ID, true)
}

// Stop requests teardown of the active instance.
func (c *Client) Stop(ctx context.Context, active *domain.ActiveMachine) error {
	return c.mutate(ctx, fmt.Sprintf("stop %s", active.Ref.Name), terminatePath, active.Ref.ID, false)
}

// Reset requests a fresh provisioning cycle for the active instance.
func (c *Client) Reset(ctx context.Context, active *domain.ActiveMachine) error {
	return c.mutate(ctx, fmt.Sprintf("reset %s", active.Ref.Name), resetPath, active.Ref.ID, true)
}

// SubmitProof submits a flag with its difficulty rating and returns the
// upstream's message verbatim.
func (c *Client) SubmitProof(ctx context.Context, active *domain.ActiveMachine, proof domain.ProofSubmission) (string, error) {
	op := fmt.Sprintf("submit proof for %s", active.Ref.Name)
	payload := map[string]interface{}{
		"id":         active.Ref.ID,
		"flag":       proof.Flag,
		"difficulty": proof.Difficulty,
	}
	resp, err := c.post(ctx, op, ownPath, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", op, err)
	}
	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", mapUpstreamError(op, resp.StatusCode, msg.Message)
	}
	return msg.Message, nil
}

// get performs an authenticated GET and decodes the 2xx body into out.
func (c *Client) get(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode/100 != 2 {
		return mapUpstreamError(op, resp.StatusCode, decodeMessage(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// mutate performs a machine-id mutation (spawn/terminate/reset) and maps the
// result. With pending set, a 2xx response whose body has not settled into
// the message shape is reported as domain.ErrSpawnPending: the upstream
// acknowledges spawn-like calls before its view of the instance settles.
// Without it, any 2xx counts as acceptance.
func (c *Client) mutate(ctx context.Context, op, path string, machineID int, pending bool) error {
	resp, err := c.post(ctx, op, path, map[string]interface{}{"machine_id": machineID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	var msg messageResponse
	decodeErr := json.Unmarshal(body, &msg)

	if resp.StatusCode/100 != 2 {
		return mapUpstreamError(op, resp.StatusCode, decodeMessage(body))
	}
	if decodeErr != nil || msg.Message == "" {
		c.logger.Debug("mutation response not settled",
			ports.String("op", op),
			ports.Int("status", resp.StatusCode))
		if pending {
			return fmt.Errorf("%s: %w", op, domain.ErrSpawnPending)
		}
		return nil
	}
	c.logger.Debug("mutation accepted",
		ports.String("op", op),
		ports.String("message", msg.Message))
	return nil
}

// post performs an authenticated JSON POST. The caller owns the response.
func (c *Client) post(ctx context.Context, op, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal payload: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", op, err)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "htbctl")
}

// decodeMessage extracts the message field from an error body, falling back
// to the raw text for non-JSON bodies.
func decodeMessage(body []byte) string {
	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(body))
}
