package api

import (
	"net/http"
	"runtime"
	"sync"
	"time"
)

// Counters reports how many frames a recorder wrote or dropped.
type Counters interface {
	Written() int64
	Dropped() int64
}

// StatsHandler reports process and overlay diagnostics.
type StatsHandler struct {
	src      Source
	recorder Counters
	room     *Room
	start    time.Time

	mu      sync.Mutex
	maxHeap uint64
}

// NewStatsHandler creates a new handler. recorder and room may be nil.
func NewStatsHandler(src Source, recorder Counters, room *Room) *StatsHandler {
	return &StatsHandler{
		src:      src,
		recorder: recorder,
		room:     room,
		start:    time.Now(),
	}
}

// RecorderStats is the recorder part of StatsResponse.
type RecorderStats struct {
	Written int64 `json:"written"`
	Dropped int64 `json:"dropped"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	UptimeSec  float64        `json:"uptime_sec"`
	Goroutines int            `json:"goroutines"`
	HeapMB     uint64         `json:"heap_mb"`
	HeapMaxMB  uint64         `json:"heap_max_mb"`
	Ticks      uint64         `json:"ticks"`
	Quads      int            `json:"quads"`
	Layers     map[string]int `json:"layers"`
	Recorder   *RecorderStats `json:"recorder,omitempty"`
	WSClients  int            `json:"ws_clients"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	h.mu.Lock()
	if ms.HeapAlloc > h.maxHeap {
		h.maxHeap = ms.HeapAlloc
	}
	maxHeap := h.maxHeap
	h.mu.Unlock()

	resp := StatsResponse{
		UptimeSec:  time.Since(h.start).Seconds(),
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     bToMb(ms.HeapAlloc),
		HeapMaxMB:  bToMb(maxHeap),
		Layers:     make(map[string]int),
	}

	if s := h.src.Snapshot(); s != nil {
		resp.Ticks = s.Tick
		resp.Quads = s.QuadCount()
		for _, l := range s.Layers {
			resp.Layers[l.Name] = len(l.Quads)
		}
	}
	if h.recorder != nil {
		resp.Recorder = &RecorderStats{
			Written: h.recorder.Written(),
			Dropped: h.recorder.Dropped(),
		}
	}
	if h.room != nil {
		resp.WSClients = h.room.Clients()
	}

	writeJSON(w, resp)
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
