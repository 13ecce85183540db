package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
	// BackendURL is the external agent backend providing /chat and
	// /lottery/roll.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	// UseMock selects mock mode unless it is the literal string "false".
	// Kept as a raw string so an unset variable also lands on mock, which
	// is the intended default.
	UseMock string `envconfig:"USE_MOCK"`
	// AgentURL is where the CLI reaches this service.
	AgentURL string `envconfig:"AGENT_URL" default:"http://localhost:8080"`
	// LotterySurfaceErrors makes roll/draw failures visible in the lottery
	// client instead of silently swallowed.
	LotterySurfaceErrors bool `envconfig:"LOTTERY_SURFACE_ERRORS" default:"false"`
}

// MockEnabled reports whether chat responses are generated locally instead
// of forwarded to the backend.
func (c Config) MockEnabled() bool {
	return c.UseMock != "false"
}

func Load() Config {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.MockEnabled() {
		log.Println("mock mode enabled; set USE_MOCK=false to use the real backend")
	} else {
		log.Printf("backend mode enabled; forwarding to %s", cfg.BackendURL)
	}
	return cfg
}
