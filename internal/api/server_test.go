package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/version"
)

type fakeCounters struct{ written, dropped int64 }

func (f fakeCounters) Written() int64 { return f.written }
func (f fakeCounters) Dropped() int64 { return f.dropped }

func newTestServer(t *testing.T, shutdown func()) http.Handler {
	t.Helper()
	src := &staticSource{snap: testSnapshot()}
	room := NewRoom(time.Second)
	srv := NewServer("localhost:0",
		NewTelemetryHandler(src),
		NewGeometryHandler(src),
		NewStatsHandler(src, fakeCounters{written: 7, dropped: 1}, room),
		NewSessionHandler(newTestStore(t)),
		room,
		shutdown,
	)
	return srv.Handler
}

func TestServer_Routes(t *testing.T) {
	h := newTestServer(t, func() {})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/version", http.StatusOK},
		{"GET", "/api/telemetry", http.StatusOK},
		{"GET", "/api/history", http.StatusOK},
		{"GET", "/api/geometry", http.StatusOK},
		{"GET", "/api/stats", http.StatusOK},
		{"GET", "/api/log/latest", http.StatusOK},
		{"GET", "/api/sessions", http.StatusOK},
		{"GET", "/api/sessions/nope", http.StatusNotFound},
		{"POST", "/api/telemetry", http.StatusMethodNotAllowed},
		{"GET", "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, http.NoBody))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestServer_Version(t *testing.T) {
	h := newTestServer(t, func() {})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/version", http.NoBody))

	var got map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, version.Version, got["version"])
}

func TestServer_Shutdown(t *testing.T) {
	called := make(chan struct{})
	h := newTestServer(t, func() { close(called) })

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/shutdown", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback not invoked")
	}
}

func TestStatsHandler(t *testing.T) {
	src := &staticSource{snap: testSnapshot()}
	h := NewStatsHandler(src, fakeCounters{written: 7, dropped: 1}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var got StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, uint64(42), got.Ticks)
	assert.Equal(t, 3, got.Quads)
	assert.Equal(t, map[string]int{"throttle": 2, "brake": 1}, got.Layers)
	require.NotNil(t, got.Recorder)
	assert.Equal(t, int64(7), got.Recorder.Written)
	assert.Equal(t, int64(1), got.Recorder.Dropped)
	assert.Positive(t, got.Goroutines)
}

func TestStatsHandler_NoSnapshot(t *testing.T) {
	h := NewStatsHandler(&staticSource{}, nil, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var got StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Zero(t, got.Quads)
	assert.Nil(t, got.Recorder)
}
