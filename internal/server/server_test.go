package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"flare-defi-agent/internal/config"
	"flare-defi-agent/internal/types"
)

func newRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s.Router()
}

func postChat(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	req := require.New(t)
	router := newRouter(t, config.Config{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func TestChat_RejectsBadInput(t *testing.T) {
	tests := []struct {
		description string
		body        string
		wantError   string
	}{
		{"invalid JSON", `{`, "invalid JSON body"},
		{"missing messages", `{}`, "messages array is required"},
		{"empty messages", `{"messages":[]}`, "messages array is required"},
		{"messages not an array", `{"messages":"hello"}`, "invalid JSON body"},
	}

	modes := map[string]config.Config{
		"mock":    {},
		"backend": {UseMock: "false", BackendURL: "http://localhost:1"},
	}
	for mode, cfg := range modes {
		router := newRouter(t, cfg)
		for _, tt := range tests {
			t.Run(mode+"/"+tt.description, func(t *testing.T) {
				rec := postChat(router, tt.body)
				require.Equal(t, http.StatusBadRequest, rec.Code)
				var er types.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
				require.Equal(t, tt.wantError, er.Error)
			})
		}
	}
}

func TestChat_MockFLRPrice(t *testing.T) {
	req := require.New(t)
	router := newRouter(t, config.Config{})

	rec := postChat(router, `{"messages":[{"role":"user","content":"how much does FLR cost?"}]}`)
	req.Equal(http.StatusOK, rec.Code)

	var resp types.ChatResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	req.Equal(types.RoleAssistant, resp.Role)
	req.Len(resp.ToolCalls, 1)
	req.Equal("get_price", resp.ToolCalls[0].Name)
	req.Equal("FLR/USD", resp.ToolCalls[0].Output["symbol"])
}

func TestChat_MockRandomNumberEndToEnd(t *testing.T) {
	req := require.New(t)
	router := newRouter(t, config.Config{})

	rec := postChat(router, `{"messages":[{"role":"user","content":"Generate a random number"}]}`)
	req.Equal(http.StatusOK, rec.Code)

	var resp types.ChatResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	req.Contains(resp.Content, "Secure Random")
	req.Len(resp.ToolCalls, 1)
	req.Equal("get_random", resp.ToolCalls[0].Name)
	req.EqualValues(742, resp.ToolCalls[0].Output["randomNumber"])
}

func TestChat_BackendModeForwards(t *testing.T) {
	req := require.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/chat", r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.ChatResponse{Role: types.RoleAssistant, Content: "from backend"})
	}))
	defer upstream.Close()
	router := newRouter(t, config.Config{UseMock: "false", BackendURL: upstream.URL})

	rec := postChat(router, `{"messages":[{"role":"user","content":"hi"}]}`)
	req.Equal(http.StatusOK, rec.Code)

	var resp types.ChatResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	req.Equal("from backend", resp.Content)
}

func TestChat_BackendErrorMirrored(t *testing.T) {
	req := require.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()
	router := newRouter(t, config.Config{UseMock: "false", BackendURL: upstream.URL})

	rec := postChat(router, `{"messages":[{"role":"user","content":"hi"}]}`)
	req.Equal(http.StatusServiceUnavailable, rec.Code)

	var er types.ErrorResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &er))
	req.Equal("Backend error", er.Error)
	req.Contains(er.Details, "model overloaded")
}

func TestChat_TransportFailureIsInternalError(t *testing.T) {
	req := require.New(t)
	router := newRouter(t, config.Config{UseMock: "false", BackendURL: "http://localhost:1"})

	rec := postChat(router, `{"messages":[{"role":"user","content":"hi"}]}`)
	req.Equal(http.StatusInternalServerError, rec.Code)

	var er types.ErrorResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &er))
	req.Equal("Internal server error", er.Error)
}

func TestLottery_PassesThroughNumber(t *testing.T) {
	req := require.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/lottery/roll", r.URL.Path)
		req.Equal("no-store", r.Header.Get("Cache-Control"))
		_ = json.NewEncoder(w).Encode(types.RollResponse{Number: 4242})
	}))
	defer upstream.Close()
	router := newRouter(t, config.Config{BackendURL: upstream.URL})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lottery", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("no-store", rec.Header().Get("Cache-Control"))
	var roll types.RollResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &roll))
	req.Equal(4242, roll.Number)
}

func TestLottery_BackendErrorMirrored(t *testing.T) {
	req := require.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oracle unavailable", http.StatusBadGateway)
	}))
	defer upstream.Close()
	router := newRouter(t, config.Config{BackendURL: upstream.URL})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lottery", nil))

	req.Equal(http.StatusBadGateway, rec.Code)
	var er types.ErrorResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &er))
	req.Equal("Backend error", er.Error)
}

func TestLottery_TransportFailureIsInternalError(t *testing.T) {
	req := require.New(t)
	router := newRouter(t, config.Config{BackendURL: "http://localhost:1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lottery", nil))

	req.Equal(http.StatusInternalServerError, rec.Code)
}
