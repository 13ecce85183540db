package types

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ToolStatus string

const (
	ToolPending ToolStatus = "pending"
	ToolSuccess ToolStatus = "success"
	ToolError   ToolStatus = "error"
)

// ToolCall is one simulated invocation of an external capability (price
// lookup, randomness, verification, asset listing) attached to an assistant
// message. Output is present whenever Status is success or error.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Output map[string]any `json:"output,omitempty"`
	Status ToolStatus     `json:"status"`
}

// Message is one entry in a conversation. Immutable once created; the list
// is append-only for the lifetime of a session.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ChatMessage is the slimmed {role, content} pair the chat endpoint accepts.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the wire shape returned by the chat endpoint. Role is
// always "assistant".
type ChatResponse struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

type RollResponse struct {
	Number int `json:"number"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
