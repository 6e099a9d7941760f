package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"traces/pkg/sim"
)

const (
	defaultBatchSize = 256
	flushInterval    = 2 * time.Second
	queueSize        = 4096
)

// Recorder appends telemetry frames to a session from a background
// goroutine so the sampling loop never waits on disk.
type Recorder struct {
	store     Store
	session   Session
	batchSize int

	ch      chan sim.Telemetry
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
	written atomic.Int64

	mu      sync.Mutex
	lastErr error
}

// NewRecorder creates a session and starts the writer.
func NewRecorder(ctx context.Context, st Store, sampleRate, focusedCar, batchSize int) (*Recorder, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	sess, err := st.CreateSession(ctx, sampleRate, focusedCar, "")
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		store:     st,
		session:   sess,
		batchSize: batchSize,
		ch:        make(chan sim.Telemetry, queueSize),
	}
	r.wg.Add(1)
	go r.loop()

	slog.Info("Recording session", "session", sess.ID, "sample_rate", sampleRate)
	return r, nil
}

// Record queues a frame. It never blocks; frames are dropped while the
// queue is full.
func (r *Recorder) Record(t sim.Telemetry) bool {
	select {
	case r.ch <- t:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Session returns the session being recorded.
func (r *Recorder) Session() Session {
	return r.session
}

// Dropped returns the number of frames lost to a full queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns the number of frames committed to the store.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close flushes pending frames and stops the writer. Record must not be
// called after Close.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.ch)
		r.wg.Wait()
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Recorder) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	buf := make([]sim.Telemetry, 0, r.batchSize)
	seq := 0
	flush := func() {
		if len(buf) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.store.AppendSamples(ctx, r.session.ID, seq, buf); err != nil {
			slog.Error("Failed to write samples", "session", r.session.ID, "count", len(buf), "error", err)
			r.mu.Lock()
			r.lastErr = fmt.Errorf("append samples: %w", err)
			r.mu.Unlock()
		} else {
			r.written.Add(int64(len(buf)))
		}
		seq += len(buf)
		buf = buf[:0]
	}

	for {
		select {
		case t, ok := <-r.ch:
			if !ok {
				flush()
				return
			}
			buf = append(buf, t)
			if len(buf) >= r.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
