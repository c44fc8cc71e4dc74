package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/rs/cors"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func newServer(cfg *Config, hub *Hub, stats Stats, health pinger) http.Handler {
	upgrader := newUpgrader(cfg.AllowedOrigins)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, upgrader, cfg.SendBuffer, w, r)
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		handleStats(stats, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Ping(r.Context()); err != nil {
				log.Printf("Health check failed: %v", err)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})

	if len(cfg.AllowedOrigins) == 0 {
		return cors.Default().Handler(mux)
	}
	return cors.New(cors.Options{AllowedOrigins: cfg.AllowedOrigins}).Handler(mux)
}

func handleStats(stats Stats, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	results, err := stats.Snapshot(r.Context())
	if err != nil {
		log.Printf("Error getting stats: %v", err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
