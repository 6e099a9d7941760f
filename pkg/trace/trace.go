// Package trace builds the scrolling strip-chart geometry of one telemetry
// channel. Each forward tick shifts the existing quads left by one sample
// pitch and appends the newest sample at the right edge, so the history is
// never re-walked to rebuild geometry.
package trace

import (
	"errors"
	"fmt"

	"traces/pkg/geom"
	"traces/pkg/history"
)

// ErrSampleSize is returned for traces that cannot connect two samples.
var ErrSampleSize = errors.New("trace sample size must be at least 2")

// Config fixes the drawing area of a trace. It cannot change after New.
type Config struct {
	// Origin is the bottom-left corner of the graph in pixels.
	Origin geom.Point
	Width  float64
	Height float64
	// SampleSize is the number of samples visible across Width.
	SampleSize int
	// Thickness is the stroke width in pixels.
	Thickness float64
}

// Trace owns the quad queue of a single strip chart.
type Trace struct {
	cfg   Config
	pitch float64
	half  float64

	// points holds the previous and the current sample point.
	points *history.Ring[geom.Point]
	// quads holds N marker squares and up to N-1 connectors.
	quads *history.Ring[geom.Quad]
}

// New validates cfg and allocates the fixed-size queues.
func New(cfg Config) (*Trace, error) {
	if cfg.SampleSize < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleSize, cfg.SampleSize)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("trace area must be positive: %vx%v", cfg.Width, cfg.Height)
	}
	return &Trace{
		cfg:    cfg,
		pitch:  cfg.Width / float64(cfg.SampleSize-1),
		half:   cfg.Thickness / 2,
		points: history.NewRing[geom.Point](2),
		quads:  history.NewRing[geom.Quad](2*cfg.SampleSize - 1),
	}, nil
}

// Update advances the trace by one sample. A paused multiplier leaves the
// geometry untouched and a negative one clears it.
func (t *Trace) Update(v, timeMul float64) {
	switch history.ModeOf(timeMul) {
	case history.Paused:
		return
	case history.Rewind:
		t.Reset()
		return
	}

	dx := -t.pitch
	t.points.Each(func(p *geom.Point) { p.X += dx })
	t.quads.Each(func(q *geom.Quad) { q.ShiftX(dx) })

	p := geom.Pt(t.cfg.Origin.X+t.cfg.Width, t.cfg.Origin.Y-v*t.cfg.Height)

	if lag, ok := t.points.Newest(); ok {
		t.quads.Push(t.connector(lag, p))
	}
	t.quads.Push(t.marker(p))
	t.points.Push(p)
}

// connector builds the quad bridging lag and p. The offset corners are
// picked from the segment direction so the quad never folds over itself.
func (t *Trace) connector(lag, p geom.Point) geom.Quad {
	h := t.half
	if (p.X > lag.X) == (p.Y > lag.Y) {
		return geom.NewQuad(
			geom.Pt(lag.X-h, lag.Y+h),
			geom.Pt(p.X-h, p.Y+h),
			geom.Pt(p.X+h, p.Y-h),
			geom.Pt(lag.X+h, lag.Y-h),
		)
	}
	return geom.NewQuad(
		geom.Pt(lag.X+h, lag.Y+h),
		geom.Pt(p.X+h, p.Y+h),
		geom.Pt(p.X-h, p.Y-h),
		geom.Pt(lag.X-h, lag.Y-h),
	)
}

// marker builds the square of side Thickness centred on p.
func (t *Trace) marker(p geom.Point) geom.Quad {
	h := t.half
	return geom.NewQuad(
		geom.Pt(p.X-h, p.Y+h),
		geom.Pt(p.X+h, p.Y+h),
		geom.Pt(p.X+h, p.Y-h),
		geom.Pt(p.X-h, p.Y-h),
	)
}

// Reset drops all geometry and the point window.
func (t *Trace) Reset() {
	t.points.Clear()
	t.quads.Clear()
}

// EachQuad calls fn for every quad, oldest first.
func (t *Trace) EachQuad(fn func(q geom.Quad)) {
	t.quads.Each(func(q *geom.Quad) { fn(*q) })
}

// Quads returns a copy of the quad queue, oldest first.
func (t *Trace) Quads() []geom.Quad {
	return t.quads.Slice()
}

// Len returns the number of queued quads.
func (t *Trace) Len() int {
	return t.quads.Len()
}

// MaxLen returns the queue capacity, 2N-1.
func (t *Trace) MaxLen() int {
	return t.quads.Cap()
}

// Pitch is the horizontal distance between two samples.
func (t *Trace) Pitch() float64 {
	return t.pitch
}

// Config returns the construction parameters.
func (t *Trace) Config() Config {
	return t.cfg
}
