package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/overlay"
)

func TestRoom_Broadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := NewRoom(0)
	go room.Run(ctx)

	srv := httptest.NewServer(room)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return room.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	room.Publish(testSnapshot())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got overlay.Snapshot
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, uint64(42), got.Tick)
	assert.Equal(t, 3, got.QuadCount())

	conn.Close()
	require.Eventually(t, func() bool { return room.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRoom_PublishThrottle(t *testing.T) {
	room := NewRoom(100 * time.Millisecond)
	clock := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	room.now = func() time.Time { return clock }

	drain := func() {
		select {
		case <-room.forward:
		default:
		}
	}

	room.Publish(testSnapshot())
	assert.Equal(t, int64(1), room.Broadcasts())
	drain()

	clock = clock.Add(50 * time.Millisecond)
	room.Publish(testSnapshot())
	assert.Equal(t, int64(1), room.Broadcasts(), "inside the interval")

	clock = clock.Add(50 * time.Millisecond)
	room.Publish(testSnapshot())
	assert.Equal(t, int64(2), room.Broadcasts())

	room.Publish(nil)
	assert.Equal(t, int64(2), room.Broadcasts())
}

func TestRoom_PublishNeverBlocks(t *testing.T) {
	room := NewRoom(0)
	// Nobody runs the room, so only the first message fits the queue.
	for i := 0; i < 5; i++ {
		room.Publish(testSnapshot())
	}
	assert.Equal(t, int64(1), room.Broadcasts())
}

func TestRoom_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	room := NewRoom(0)
	go room.Run(ctx)

	srv := httptest.NewServer(room)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return room.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, room.Clients())
}
