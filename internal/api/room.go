package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"traces/pkg/overlay"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 10
	writeWait         = 2 * time.Second
)

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

// Room streams overlay snapshots to every connected websocket client.
// It implements overlay.Publisher.
type Room struct {
	interval time.Duration

	// forward holds encoded snapshots waiting to be fanned out.
	forward chan []byte
	join    chan *client
	leave   chan *client
	done    chan struct{}
	clients map[*client]bool

	count      atomic.Int64
	broadcasts atomic.Int64

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewRoom makes a room that forwards at most one snapshot per interval.
func NewRoom(interval time.Duration) *Room {
	return &Room{
		interval: interval,
		forward:  make(chan []byte, 1),
		join:     make(chan *client),
		leave:    make(chan *client),
		done:     make(chan struct{}),
		clients:  make(map[*client]bool),
		now:      time.Now,
	}
}

// Run owns the client set until ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			r.count.Store(0)
			for c := range r.clients {
				delete(r.clients, c)
				close(c.send)
			}
			return
		case c := <-r.join:
			r.clients[c] = true
			r.count.Store(int64(len(r.clients)))
			slog.Debug("WS client joined", "id", c.id)
		case c := <-r.leave:
			if r.clients[c] {
				delete(r.clients, c)
				close(c.send)
			}
			r.count.Store(int64(len(r.clients)))
			slog.Debug("WS client left", "id", c.id)
		case msg := <-r.forward:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					slog.Debug("WS client too slow, frame skipped", "id", c.id)
				}
			}
		}
	}
}

// Publish encodes s and queues it for broadcast unless the previous
// broadcast is younger than the interval. It never blocks.
func (r *Room) Publish(s *overlay.Snapshot) {
	if s == nil {
		return
	}
	r.mu.Lock()
	now := r.now()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return
	}
	r.last = now
	r.mu.Unlock()

	msg, err := json.Marshal(s)
	if err != nil {
		slog.Error("Failed to encode snapshot", "error", err)
		return
	}
	select {
	case r.forward <- msg:
		r.broadcasts.Add(1)
	default:
	}
}

// Clients returns the number of connected clients.
func (r *Room) Clients() int {
	return int(r.count.Load())
}

// Broadcasts returns how many snapshots were accepted for broadcast.
func (r *Room) Broadcasts() int64 {
	return r.broadcasts.Load()
}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		slog.Warn("WS upgrade failed", "error", err)
		return
	}
	c := &client{
		id:     uuid.NewString(),
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
	}
	select {
	case r.join <- c:
	case <-r.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case r.leave <- c:
		case <-r.done:
		}
	}()
	go c.write()
	c.read()
}

type client struct {
	id     string
	socket *websocket.Conn
	send   chan []byte
}

// read drains the socket so close frames are processed. Clients never send data.
func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
