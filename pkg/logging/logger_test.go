package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/config"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	frameLog := filepath.Join(tempDir, "frames.log")

	// A previous run's log is rotated away
	require.NoError(t, os.WriteFile(serverLog, []byte("previous run\n"), 0o644))

	cfg := &config.LogConfig{
		Server: config.LogSettings{Path: serverLog, Level: "DEBUG"},
		Frames: config.LogSettings{Path: frameLog, Level: "INFO"},
	}

	prev := slog.Default()
	cleanup, err := Init(cfg)
	require.NoError(t, err)
	defer func() {
		cleanup()
		slog.SetDefault(prev)
	}()

	old, err := os.ReadFile(serverLog + ".old")
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(old))

	slog.Info("Overlay started", "width", 854)
	assert.Contains(t, GlobalLogCapture.GetLastLine(), "Overlay started")

	// Debug reaches the file but not the capture writer
	slog.Debug("debug only")
	assert.NotContains(t, GlobalLogCapture.GetLastLine(), "debug only")

	FrameLogger.Info("frame", "quads", 12)

	cleanup()
	server, err := os.ReadFile(serverLog)
	require.NoError(t, err)
	assert.Contains(t, string(server), "Overlay started")
	assert.Contains(t, string(server), "debug only")
	assert.False(t, strings.Contains(string(server), "previous run"))

	frames, err := os.ReadFile(frameLog)
	require.NoError(t, err)
	assert.Contains(t, string(frames), "quads=12")
	assert.NotContains(t, string(frames), "Overlay started")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLogCaptureWriter(t *testing.T) {
	w := &LogCaptureWriter{}
	_, _ = w.Write([]byte("first\n"))
	_, _ = w.Write([]byte("second\n"))
	assert.Equal(t, "second", w.GetLastLine())
}
