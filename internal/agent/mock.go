package agent

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"flare-defi-agent/internal/types"
)

// MockDelay simulates the latency of a real agent round trip.
const MockDelay = 1200 * time.Millisecond

//go:embed patterns.yaml
var patternsYAML []byte

type patternSpec struct {
	Keywords []string `yaml:"keywords"`
	Content  string   `yaml:"content"`
	Tool     *struct {
		ID     string         `yaml:"id"`
		Name   string         `yaml:"name"`
		Input  map[string]any `yaml:"input"`
		Output map[string]any `yaml:"output"`
	} `yaml:"tool"`
}

type mockSpec struct {
	Patterns []patternSpec `yaml:"patterns"`
	Default  string        `yaml:"default"`
}

type pattern struct {
	keywords []string
	response types.ChatResponse
}

// Mock answers from an ordered keyword pattern table instead of contacting
// the backend. Fully deterministic given the input text.
type Mock struct {
	delay    time.Duration
	patterns []pattern
	fallback types.ChatResponse
}

// NewMock builds the mock engine from the embedded pattern table. Price
// outputs are stamped once here, so replies stay identical for the life of
// the process.
func NewMock(delay time.Duration) (*Mock, error) {
	var spec mockSpec
	if err := yaml.Unmarshal(patternsYAML, &spec); err != nil {
		return nil, fmt.Errorf("parse mock patterns: %w", err)
	}
	if len(spec.Patterns) == 0 || spec.Default == "" {
		return nil, fmt.Errorf("mock pattern table is incomplete")
	}
	now := time.Now().UnixMilli()
	m := &Mock{delay: delay, fallback: types.ChatResponse{
		Role:    types.RoleAssistant,
		Content: spec.Default,
	}}
	for _, p := range spec.Patterns {
		resp := types.ChatResponse{Role: types.RoleAssistant, Content: p.Content}
		if p.Tool != nil {
			output := p.Tool.Output
			if p.Tool.Name == "get_price" {
				output["timestamp"] = now
			}
			resp.ToolCalls = []types.ToolCall{{
				ID:     p.Tool.ID,
				Name:   p.Tool.Name,
				Input:  p.Tool.Input,
				Output: output,
				Status: types.ToolSuccess,
			}}
		}
		m.patterns = append(m.patterns, pattern{keywords: p.Keywords, response: resp})
	}
	return m, nil
}

// Respond matches the last message's content against the pattern table after
// the simulated delay. First group with any substring match wins; unmatched
// input gets the capabilities reply.
func (m *Mock) Respond(ctx context.Context, messages []types.ChatMessage) (*types.ChatResponse, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var last string
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	lower := strings.ToLower(last)
	for _, p := range m.patterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				resp := p.response
				return &resp, nil
			}
		}
	}
	resp := m.fallback
	return &resp, nil
}
