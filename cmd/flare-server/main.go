package main

import (
	"fmt"
	"log"
	"net/http"

	"flare-defi-agent/internal/config"
	"flare-defi-agent/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	fmt.Printf("flare agent listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
