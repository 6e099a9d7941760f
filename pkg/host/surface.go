package host

import (
	"sync"

	"traces/pkg/geom"
	"traces/pkg/label"
	"traces/pkg/render"
)

// DrawCall is one filled quad of a recorded frame.
type DrawCall struct {
	Color render.Color
	Quad  geom.Quad
}

// TextCall is one label of a recorded frame.
type TextCall struct {
	Color render.Color
	Text  string
	Size  float64
	At    geom.Point
}

// RecordingSurface is a render.Surface that keeps the draw calls of the
// current frame in memory.
type RecordingSurface struct {
	mu     sync.Mutex
	color  render.Color
	quads  []DrawCall
	texts  []TextCall
	frames int
}

// NewRecordingSurface creates an empty surface.
func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{}
}

// BeginFrame discards the previous frame.
func (s *RecordingSurface) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quads = s.quads[:0]
	s.texts = s.texts[:0]
	s.frames++
}

func (s *RecordingSurface) SetColor(c render.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
}

func (s *RecordingSurface) DrawQuad(q geom.Quad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quads = append(s.quads, DrawCall{Color: s.color, Quad: q})
	return nil
}

func (s *RecordingSurface) DrawText(l *label.Label, c render.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, TextCall{Color: c, Text: l.Text(), Size: l.Size, At: l.Position})
	return nil
}

// Frames returns the number of frames begun.
func (s *RecordingSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Quads returns a copy of the quads of the current frame in draw order.
func (s *RecordingSurface) Quads() []DrawCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DrawCall, len(s.quads))
	copy(out, s.quads)
	return out
}

// Texts returns a copy of the labels of the current frame in draw order.
func (s *RecordingSurface) Texts() []TextCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TextCall, len(s.texts))
	copy(out, s.texts)
	return out
}
