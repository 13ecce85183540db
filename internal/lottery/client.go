package lottery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flare-defi-agent/internal/agent"
	"flare-defi-agent/internal/types"
)

// Roller fetches one random number. Implemented by Client against the real
// backend; tests substitute their own.
type Roller interface {
	Roll(ctx context.Context) (int, error)
}

// Client fetches rolls over HTTP with caching disabled. Stateless, no
// retries.
type Client struct {
	url    string
	client *http.Client
}

// NewClient targets the external backend's /lottery/roll endpoint.
func NewClient(backendURL string) *Client {
	return &Client{
		url:    strings.TrimRight(backendURL, "/") + "/lottery/roll",
		client: http.DefaultClient,
	}
}

// NewProxyClient targets this service's own /api/lottery endpoint; used by
// the game controller on the client side.
func NewProxyClient(agentURL string) *Client {
	return &Client{
		url:    strings.TrimRight(agentURL, "/") + "/api/lottery",
		client: http.DefaultClient,
	}
}

func (c *Client) Roll(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build roll request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		return 0, &agent.UpstreamError{StatusCode: resp.StatusCode, Details: string(bb)}
	}

	var out types.RollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode roll response: %w", err)
	}
	return out.Number, nil
}
