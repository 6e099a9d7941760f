package render

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/geom"
	"traces/pkg/label"
)

type call struct {
	kind  string
	color Color
	quad  geom.Quad
	text  string
}

type fakeSurface struct {
	current Color
	calls   []call
	failOn  Color
	panicOn Color
}

func (f *fakeSurface) SetColor(c Color) {
	f.current = c
	f.calls = append(f.calls, call{kind: "color", color: c})
}

func (f *fakeSurface) DrawQuad(q geom.Quad) error {
	if f.current == f.panicOn {
		panic("backend exploded")
	}
	if f.current == f.failOn {
		return errors.New("draw failed")
	}
	f.calls = append(f.calls, call{kind: "quad", color: f.current, quad: q})
	return nil
}

func (f *fakeSurface) DrawText(l *label.Label, c Color) error {
	f.calls = append(f.calls, call{kind: "text", color: c, text: l.Text()})
	return nil
}

type quads []geom.Quad

func (q quads) EachQuad(fn func(geom.Quad)) {
	for _, x := range q {
		fn(x)
	}
}

func unit(x float64) geom.Quad {
	return geom.NewQuad(geom.Pt(x, 1), geom.Pt(x+1, 1), geom.Pt(x+1, 0), geom.Pt(x, 0))
}

func TestRender_OrderAndColors(t *testing.T) {
	r := NewRenderer(nil)
	a := NewLayer("a", Green, quads{unit(0), unit(1)})
	b := NewLayer("b", Red, quads{unit(5)})
	r.Add(a)
	r.Add(b)
	r.Add(a) // duplicates ignored

	lb := label.New("gear", label.FontBold, label.AlignCenter)
	lb.SetText("3")
	r.AddLabel(lb)

	s := &fakeSurface{failOn: Color{9, 9, 9, 9}, panicOn: Color{8, 8, 8, 8}}
	stats, err := r.Render(s)
	require.NoError(t, err)
	assert.Equal(t, Stats{Layers: 2, Quads: 3, Labels: 1}, stats)

	kinds := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		kinds = append(kinds, c.kind)
	}
	assert.Equal(t, []string{"color", "quad", "quad", "color", "quad", "color", "text"}, kinds)
	assert.Equal(t, Green, s.calls[1].color)
	assert.Equal(t, unit(1), s.calls[2].quad)
	assert.Equal(t, Red, s.calls[4].color)
	assert.Equal(t, "3", s.calls[6].text)
}

func TestRender_FailureIsolatedPerDrawable(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewRenderer(logger)
	r.Add(NewLayer("throttle", Green, quads{unit(0)}))
	r.Add(NewLayer("brake", Red, quads{unit(1), unit(2)}))
	r.Add(NewLayer("wheel", Yellow, quads{unit(3)}))
	r.Add(NewLayer("clutch", Blue, quads{unit(4)}))

	s := &fakeSurface{failOn: Red, panicOn: Yellow}
	stats, err := r.Render(s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "brake")
	assert.Contains(t, err.Error(), "wheel")
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, stats.Layers)
	assert.Equal(t, 2, stats.Quads)

	// Layers after the failing ones are still drawn.
	last := s.calls[len(s.calls)-1]
	assert.Equal(t, Blue, last.color)
	assert.Equal(t, unit(4), last.quad)

	assert.Contains(t, buf.String(), "drawable=brake")
	assert.Contains(t, buf.String(), "drawable=wheel")
}

func TestRenderer_RemoveAndSnapshot(t *testing.T) {
	r := NewRenderer(nil)
	src := quads{unit(0)}
	a := NewLayer("a", Green, src)
	b := NewLayer("b", Grey, quads{})
	r.Add(a)
	r.Add(b)
	r.Remove(a)
	require.Len(t, r.Layers(), 1)

	r.Add(a)
	a.SetColor(Red)
	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Name)
	assert.Empty(t, snap[0].Quads)
	assert.Equal(t, Red, snap[1].Color)

	// Snapshot is detached from the source.
	snap[1].Quads[0].ShiftX(100)
	assert.Equal(t, unit(0), src[0])
}

func TestColor_NRGBA(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 41, G: 255, B: 0, A: 255}, Green.NRGBA())
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 0}, Color{-1, 2, 0, 0}.NRGBA())
}
