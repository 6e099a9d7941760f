package history

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when a history could not hold two samples.
var ErrCapacity = errors.New("history capacity must be at least 2")

// Mode classifies a signed playback-rate multiplier.
type Mode int

const (
	// Rewind is a negative multiplier.
	Rewind Mode = iota - 1
	// Paused is a zero multiplier.
	Paused
	// Forward is a positive multiplier.
	Forward
)

// ModeOf maps the simulator time multiplier onto a Mode.
func ModeOf(timeMul float64) Mode {
	switch {
	case timeMul > 0:
		return Forward
	case timeMul < 0:
		return Rewind
	default:
		return Paused
	}
}

func (m Mode) String() string {
	switch m {
	case Forward:
		return "forward"
	case Rewind:
		return "rewind"
	default:
		return "paused"
	}
}

// History is the bounded sample history of one telemetry channel.
// Forward time appends, paused time freezes it and rewinding clears it.
type History struct {
	name    string
	samples *Ring[float64]
}

// New creates a history of timeWindow*sampleRate samples.
func New(name string, timeWindow, sampleRate int) (*History, error) {
	n := timeWindow * sampleRate
	if timeWindow <= 0 || sampleRate <= 0 || n < 2 {
		return nil, fmt.Errorf("%s: %w (window=%ds rate=%dHz)", name, ErrCapacity, timeWindow, sampleRate)
	}
	return &History{name: name, samples: NewRing[float64](n)}, nil
}

// Name returns the channel name.
func (h *History) Name() string {
	return h.name
}

// Push records v according to the time multiplier.
func (h *History) Push(v, timeMul float64) {
	switch ModeOf(timeMul) {
	case Forward:
		h.samples.Push(v)
	case Rewind:
		h.samples.Clear()
	}
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.samples.Len()
}

// Cap returns the fixed sample capacity.
func (h *History) Cap() int {
	return h.samples.Cap()
}

// Samples returns a copy of the samples, oldest first.
func (h *History) Samples() []float64 {
	return h.samples.Slice()
}

// Latest returns the newest sample.
func (h *History) Latest() (float64, bool) {
	return h.samples.Newest()
}
