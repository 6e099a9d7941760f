// Package indicator builds the rotating steering-wheel rim segment.
package indicator

import (
	"errors"
	"fmt"

	"traces/pkg/geom"
)

// ErrTooFewOffsets is returned when fewer than two spokes are configured.
var ErrTooFewOffsets = errors.New("wheel needs at least 2 angular offsets")

// DefaultOffsets spans the visible rim segment, in radians.
var DefaultOffsets = []float64{-0.2, -0.15, -0.1, -0.05, 0, 0.05, 0.1, 0.15, 0.2}

// Config describes the wheel in its straight-ahead orientation.
type Config struct {
	Pivot       geom.Point
	OuterRadius float64
	// InnerRatio is the inner rim radius as a fraction of OuterRadius.
	InnerRatio float64
	Offsets    []float64
}

// Wheel keeps the base fan computed at zero rotation and the fan derived for
// the current steering angle.
type Wheel struct {
	pivot geom.Point
	base  []geom.Quad
	quads []geom.Quad
	angle float64
}

// New builds one radial line per offset and a quad between each consecutive
// pair of lines.
func New(cfg Config) (*Wheel, error) {
	if len(cfg.Offsets) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewOffsets, len(cfg.Offsets))
	}
	if cfg.OuterRadius <= 0 {
		return nil, fmt.Errorf("wheel outer radius must be positive: %v", cfg.OuterRadius)
	}

	start := geom.NewLine(
		geom.Pt(cfg.Pivot.X, cfg.Pivot.Y-cfg.OuterRadius*cfg.InnerRatio),
		geom.Pt(cfg.Pivot.X, cfg.Pivot.Y-cfg.OuterRadius),
	)

	lines := make([]geom.Line, len(cfg.Offsets))
	base := make([]geom.Quad, 0, len(cfg.Offsets)-1)
	for i, off := range cfg.Offsets {
		l := start
		l.RotateRad(off, cfg.Pivot)
		lines[i] = l
		if i == 0 {
			continue
		}
		lag := lines[i-1]
		// inner and outer of this spoke, then outer and inner of the previous one
		base = append(base, geom.NewQuad(l.Points[0], l.Points[1], lag.Points[1], lag.Points[0]))
	}

	w := &Wheel{pivot: cfg.Pivot, base: base}
	w.Update(0)
	return w, nil
}

// Update replaces the derived fan with the base fan rotated by angle
// (radians) about the pivot.
func (w *Wheel) Update(angle float64) {
	rot := geom.NewRotation(angle)
	quads := make([]geom.Quad, len(w.base))
	for i, q := range w.base {
		q.Rotate(rot, w.pivot)
		quads[i] = q
	}
	w.quads = quads
	w.angle = angle
}

// EachQuad calls fn for every quad of the current fan.
func (w *Wheel) EachQuad(fn func(q geom.Quad)) {
	for _, q := range w.quads {
		fn(q)
	}
}

// Quads returns the current fan. The slice is replaced, never modified, by
// Update.
func (w *Wheel) Quads() []geom.Quad {
	return w.quads
}

// Base returns a copy of the zero-rotation fan.
func (w *Wheel) Base() []geom.Quad {
	out := make([]geom.Quad, len(w.base))
	copy(out, w.base)
	return out
}

// Angle returns the angle of the current fan.
func (w *Wheel) Angle() float64 {
	return w.angle
}

// Pivot returns the centre of rotation.
func (w *Wheel) Pivot() geom.Point {
	return w.pivot
}
