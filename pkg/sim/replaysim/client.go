// Package replaysim plays a recorded session back through the sim.Client
// interface.
package replaysim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"traces/pkg/sim"
	"traces/pkg/store"
)

// ErrEmptySession is returned when a session has no frames to play.
var ErrEmptySession = errors.New("session has no samples")

// Client replays frames at the rate they were recorded.
type Client struct {
	mu     sync.Mutex
	frames []sim.Telemetry
	pos    int
	loop   bool
	done   bool
	period time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// Load reads a session from the store and starts playing it.
func Load(ctx context.Context, st store.Store, sessionID string, loop bool) (*Client, error) {
	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	frames, err := st.LoadSamples(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c, err := NewClient(frames, sess.SampleRate, loop)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	slog.Info("Replaying session", "session", sessionID, "frames", len(frames), "sample_rate", sess.SampleRate, "loop", loop)
	return c, nil
}

// NewClient starts playing frames at sampleRate frames per second.
func NewClient(frames []sim.Telemetry, sampleRate int, loop bool) (*Client, error) {
	c, err := newClient(frames, sampleRate, loop)
	if err != nil {
		return nil, err
	}
	c.wg.Add(1)
	go c.playLoop()
	return c, nil
}

func newClient(frames []sim.Telemetry, sampleRate int, loop bool) (*Client, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySession
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	return &Client{
		frames: frames,
		loop:   loop,
		period: time.Second / time.Duration(sampleRate),
		stopCh: make(chan struct{}),
	}, nil
}

// GetTelemetry returns the frame at the play head. Once a non-looping
// replay ends the time multiplier reads zero.
func (c *Client) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.frames[c.pos]
	if c.done {
		t.ReplayTimeMultiplier = 0
	}
	return t, nil
}

// GetState reports the replay as a connected simulator.
func (c *Client) GetState() sim.State {
	t, _ := c.GetTelemetry(context.Background())
	return sim.StateForMultiplier(t.ReplayTimeMultiplier)
}

// Position returns the play head and the number of frames.
func (c *Client) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos, len(c.frames)
}

// Close stops playback.
func (c *Client) Close() error {
	c.once.Do(func() {
		close(c.stopCh)
		c.wg.Wait()
	})
	return nil
}

func (c *Client) playLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.advance()
		}
	}
}

func (c *Client) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	if c.pos+1 < len(c.frames) {
		c.pos++
		return
	}
	if c.loop {
		c.pos = 0
		return
	}
	c.done = true
}
