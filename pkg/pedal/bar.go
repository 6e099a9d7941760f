// Package pedal draws the vertical input-level bars.
package pedal

import "traces/pkg/geom"

// Bar is a vertical bar growing upwards from Origin with the input level.
type Bar struct {
	origin     geom.Point
	width      float64
	fullHeight float64
	level      float64
}

// New creates a bar anchored at its bottom-left corner.
func New(origin geom.Point, width, fullHeight float64) *Bar {
	return &Bar{origin: origin, width: width, fullHeight: fullHeight}
}

// Update sets the input level, nominally 0..1.
func (b *Bar) Update(level float64) {
	b.level = level
}

// Level returns the last level set.
func (b *Bar) Level() float64 {
	return b.level
}

// Quad returns the bar geometry for the current level.
func (b *Bar) Quad() geom.Quad {
	top := b.origin.Y - b.fullHeight*b.level
	return geom.NewQuad(
		b.origin,
		geom.Pt(b.origin.X+b.width, b.origin.Y),
		geom.Pt(b.origin.X+b.width, top),
		geom.Pt(b.origin.X, top),
	)
}

// EachQuad calls fn with the single bar quad.
func (b *Bar) EachQuad(fn func(q geom.Quad)) {
	fn(b.Quad())
}
