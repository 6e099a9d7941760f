package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"traces/pkg/geom"
	"traces/pkg/label"
	"traces/pkg/render"
)

// quadIndices splits a quad into two triangles sharing the 0-2 diagonal.
var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// Surface draws quads and labels onto an ebiten image.
type Surface struct {
	dst      *ebiten.Image
	white    *ebiten.Image
	color    render.Color
	faces    map[label.Font]*text.GoTextFaceSource
	vertices [4]ebiten.Vertex
	opts     ebiten.DrawTrianglesOptions
}

// NewSurface loads the Go fonts and prepares the solid fill source.
func NewSurface() (*Surface, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}

	// Sample the centre pixel of a 3x3 image so filtering never reaches an edge
	src := ebiten.NewImage(3, 3)
	src.Fill(color.White)

	return &Surface{
		white: src.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		faces: map[label.Font]*text.GoTextFaceSource{
			label.FontRegular: regular,
			label.FontBold:    bold,
		},
		opts: ebiten.DrawTrianglesOptions{AntiAlias: true},
	}, nil
}

// Begin targets the surface at the frame's screen image.
func (s *Surface) Begin(dst *ebiten.Image) {
	s.dst = dst
}

func (s *Surface) SetColor(c render.Color) {
	s.color = c
}

// DrawQuad issues one DrawTriangles call with four vertices.
func (s *Surface) DrawQuad(q geom.Quad) error {
	if s.dst == nil {
		return fmt.Errorf("surface has no target")
	}
	for i, p := range q.Points {
		s.vertices[i] = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: s.color.R,
			ColorG: s.color.G,
			ColorB: s.color.B,
			ColorA: s.color.A,
		}
	}
	s.dst.DrawTriangles(s.vertices[:], quadIndices, s.white, &s.opts)
	return nil
}

func (s *Surface) DrawText(l *label.Label, c render.Color) error {
	if s.dst == nil {
		return fmt.Errorf("surface has no target")
	}
	src, ok := s.faces[l.Font]
	if !ok {
		return fmt.Errorf("no face for font %d", l.Font)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(l.Position.X, l.Position.Y)
	op.ColorScale.ScaleWithColor(c.NRGBA())
	op.PrimaryAlign = textAlign(l.Align)
	text.Draw(s.dst, l.Text(), &text.GoTextFace{Source: src, Size: l.Size}, op)
	return nil
}

func textAlign(a label.Align) text.Align {
	switch a {
	case label.AlignCenter:
		return text.AlignCenter
	case label.AlignRight:
		return text.AlignEnd
	default:
		return text.AlignStart
	}
}
