package main

import (
	"log"

	"resume-insight/internal/shared/config"
	"resume-insight/internal/shared/server"
)

func main() {
	cfg := config.Load()

	r, err := server.NewRouter(cfg)
	if err != nil {
		log.Fatalf("router setup error: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
