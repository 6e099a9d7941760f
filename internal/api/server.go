// Package api serves the HTTP and websocket inspection surface of the running overlay.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"traces/pkg/overlay"
	"traces/pkg/version"
)

// Source yields the latest published overlay snapshot.
type Source interface {
	Snapshot() *overlay.Snapshot
}

// NewServer creates and configures the HTTP server.
// sessions and room may be nil when recording or streaming is disabled.
func NewServer(addr string, tel *TelemetryHandler, geo *GeometryHandler, stats *StatsHandler, sessions *SessionHandler, room *Room, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// Snapshot views
	mux.HandleFunc("GET /api/telemetry", tel.handleTelemetry)
	mux.HandleFunc("GET /api/history", tel.handleHistory)
	mux.HandleFunc("GET /api/geometry", geo.Handle)
	mux.Handle("GET /api/stats", stats)

	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	if sessions != nil {
		mux.HandleFunc("GET /api/sessions", sessions.HandleList)
		mux.HandleFunc("GET /api/sessions/{id}", sessions.HandleGet)
	}

	if room != nil {
		mux.Handle("GET /ws", room)
	}

	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Let the response flush before the server goes away
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

// latest fetches the current snapshot or answers 503 when none exists yet.
func latest(w http.ResponseWriter, src Source) (*overlay.Snapshot, bool) {
	s := src.Snapshot()
	if s == nil {
		http.Error(w, "no snapshot published yet", http.StatusServiceUnavailable)
		return nil, false
	}
	return s, true
}
