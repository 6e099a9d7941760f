package label

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"traces/pkg/geom"
)

func TestLabel_Text(t *testing.T) {
	l := New("speed", FontRegular, AlignCenter)
	l.Postfix = " km/h"
	l.SetText("142")
	assert.Equal(t, "142 km/h", l.Text())

	l.SetText("")
	assert.Equal(t, " km/h", l.Text())

	g := New("gear", FontBold, AlignCenter)
	g.SetText("N")
	assert.Equal(t, "N", g.Text())
}

func TestLabel_Sizing(t *testing.T) {
	l := New("speed", FontRegular, AlignCenter)
	l.FillHeight(geom.Pt(100, 30), 60)
	assert.InDelta(t, 84, l.Size, 1e-9)
	assert.InDelta(t, 10, l.Position.Y, 1e-9)
	assert.Equal(t, 100.0, l.Position.X)

	g := New("gear", FontBold, AlignCenter)
	g.FitHeight(geom.Pt(50, 80), 100)
	assert.InDelta(t, 84, g.Size, 1e-9)
	assert.Equal(t, geom.Pt(50, 80), g.Position)
}
