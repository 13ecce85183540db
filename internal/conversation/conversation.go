package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"flare-defi-agent/internal/types"
)

// Sender delivers a full conversation to the chat endpoint and returns the
// assistant's reply. Implemented by Client; tests substitute their own.
type Sender interface {
	Chat(ctx context.Context, messages []types.ChatMessage) (*types.ChatResponse, error)
}

// Conversation owns one chat session: the append-only message list, the
// loading flag and the last error. The endpoint is stateless, so the full
// history is resupplied on every send.
type Conversation struct {
	mu      sync.Mutex
	sender  Sender
	msgs    []types.Message
	loading bool
	errMsg  string
}

func New(sender Sender) *Conversation {
	return &Conversation{sender: sender}
}

// Send appends the user message, calls the chat endpoint with the full
// history, and appends the assistant reply or records the failure. Blank
// input and sends while one is already in flight are silently dropped; at
// most one send runs at a time.
func (c *Conversation) Send(ctx context.Context, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return
	}
	c.errMsg = ""
	c.msgs = append(c.msgs, types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	})
	c.loading = true
	history := lo.Map(c.msgs, func(m types.Message, _ int) types.ChatMessage {
		return types.ChatMessage{Role: m.Role, Content: m.Content}
	})
	c.mu.Unlock()

	resp, err := c.sender.Chat(ctx, history)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		return
	}
	c.msgs = append(c.msgs, types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
		Timestamp: time.Now(),
	})
}

// Messages returns a copy of the session transcript.
func (c *Conversation) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Message(nil), c.msgs...)
}

// IsLoading reports whether a send is in flight.
func (c *Conversation) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last send failure, empty after a successful send.
func (c *Conversation) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
