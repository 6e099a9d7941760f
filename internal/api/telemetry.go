package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"traces/pkg/sim"
)

// TelemetryHandler exposes the telemetry and sample histories of the latest snapshot.
type TelemetryHandler struct {
	src Source
}

// NewTelemetryHandler creates a new handler.
func NewTelemetryHandler(src Source) *TelemetryHandler {
	return &TelemetryHandler{src: src}
}

// TelemetryResponse is the body of GET /api/telemetry.
type TelemetryResponse struct {
	Tick           uint64        `json:"tick"`
	Timestamp      time.Time     `json:"timestamp"`
	Stage          string        `json:"stage"`
	Mode           string        `json:"mode"`
	TimeMultiplier float64       `json:"time_multiplier"`
	Speed          string        `json:"speed"`
	Gear           string        `json:"gear"`
	Telemetry      sim.Telemetry `json:"telemetry"`
}

func (h *TelemetryHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	s, ok := latest(w, h.src)
	if !ok {
		return
	}
	writeJSON(w, TelemetryResponse{
		Tick:           s.Tick,
		Timestamp:      s.Timestamp,
		Stage:          s.Stage,
		Mode:           s.Mode,
		TimeMultiplier: s.TimeMultiplier,
		Speed:          s.Speed,
		Gear:           s.Gear,
		Telemetry:      s.Telemetry,
	})
}

// handleHistory returns every channel's samples, oldest first.
// ?channel=<name> narrows the response to one channel.
func (h *TelemetryHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := latest(w, h.src)
	if !ok {
		return
	}
	name := r.URL.Query().Get("channel")
	if name == "" {
		writeJSON(w, s.Histories)
		return
	}
	samples, found := s.Histories[name]
	if !found {
		http.Error(w, "unknown channel", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string][]float64{name: samples})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
