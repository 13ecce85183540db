package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"flare-defi-agent/internal/agent"
	"flare-defi-agent/internal/config"
	"flare-defi-agent/internal/lottery"
	"flare-defi-agent/internal/types"
)

type Server struct {
	router    *chi.Mux
	responder agent.Responder
	roller    lottery.Roller
	cfg       config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	var responder agent.Responder
	if cfg.MockEnabled() {
		mock, err := agent.NewMock(agent.MockDelay)
		if err != nil {
			return nil, err
		}
		responder = mock
	} else {
		responder = agent.NewBackend(cfg.BackendURL)
	}

	s := &Server{
		router:    r,
		responder: responder,
		roller:    lottery.NewClient(cfg.BackendURL),
		cfg:       cfg,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Get("/api/lottery", s.handleLottery)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages array is required", "")
		return
	}

	resp, err := s.responder.Respond(r.Context(), req.Messages)
	if err != nil {
		var upstream *agent.UpstreamError
		if errors.As(err, &upstream) {
			log.Printf("[chat] backend error: %s", upstream.Details)
			s.writeError(w, upstream.StatusCode, "Backend error", upstream.Details)
			return
		}
		log.Printf("[chat] error: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleLottery(w http.ResponseWriter, r *http.Request) {
	n, err := s.roller.Roll(r.Context())
	if err != nil {
		var upstream *agent.UpstreamError
		if errors.As(err, &upstream) {
			log.Printf("[lottery] backend error: %s", upstream.Details)
			s.writeError(w, upstream.StatusCode, "Backend error", "")
			return
		}
		log.Printf("[lottery] error: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(types.RollResponse{Number: n})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Details: details})
}
