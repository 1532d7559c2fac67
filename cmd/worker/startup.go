package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"bookworm-backend/pkg/container"
)

// startServices performs startup health checks and exposes the
// liveness endpoint.
func startServices(c *container.Container, cfg *WorkerConfig) error {
	log.Println("============================================")
	log.Println("Bookworm Worker Starting...")
	log.Println("============================================")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}
	log.Println("[Startup] Database: OK")

	if err := c.Cache.Ping(ctx); err != nil {
		// The worker cannot run without Redis: asynq lives there.
		return fmt.Errorf("redis check failed: %w", err)
	}
	log.Println("[Startup] Redis: OK")

	go startHealthCheckServer(cfg.HealthPort)

	return nil
}

// startHealthCheckServer serves liveness and readiness probes.
func startHealthCheckServer(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"bookworm-worker"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	log.Printf("[Health] Starting health check server on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("[Health] Failed to start: %v", err)
	}
}
