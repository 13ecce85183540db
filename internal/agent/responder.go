package agent

import (
	"context"
	"fmt"

	"flare-defi-agent/internal/types"
)

// Responder produces an assistant reply for a conversation. The server picks
// one implementation at startup: the local mock engine or the HTTP backend
// forwarder.
type Responder interface {
	Respond(ctx context.Context, messages []types.ChatMessage) (*types.ChatResponse, error)
}

// UpstreamError carries a non-success status from the external backend so
// the handler can mirror it to the caller.
type UpstreamError struct {
	StatusCode int
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
