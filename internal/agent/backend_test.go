package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"flare-defi-agent/internal/types"
)

func TestBackend_ForwardsFullConversation(t *testing.T) {
	req := require.New(t)

	var got types.ChatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("/chat", r.URL.Path)
		req.NoError(json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(types.ChatResponse{
			Role:    types.RoleAssistant,
			Content: "backend reply",
		})
	}))
	defer upstream.Close()

	b := NewBackend(upstream.URL)
	history := []types.ChatMessage{
		{Role: types.RoleUser, Content: "first"},
		{Role: types.RoleAssistant, Content: "reply"},
		{Role: types.RoleUser, Content: "second"},
	}
	resp, err := b.Respond(context.Background(), history)
	req.NoError(err)
	req.Equal("backend reply", resp.Content)
	req.Equal(history, got.Messages)
}

func TestBackend_NonSuccessBecomesUpstreamError(t *testing.T) {
	req := require.New(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	b := NewBackend(upstream.URL)
	_, err := b.Respond(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}})
	var ue *UpstreamError
	req.ErrorAs(err, &ue)
	req.Equal(http.StatusServiceUnavailable, ue.StatusCode)
	req.Contains(ue.Details, "model overloaded")
}

func TestBackend_TransportFailureIsNotUpstream(t *testing.T) {
	req := require.New(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	b := NewBackend(upstream.URL)
	_, err := b.Respond(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}})
	req.Error(err)
	var ue *UpstreamError
	req.False(errors.As(err, &ue))
}
