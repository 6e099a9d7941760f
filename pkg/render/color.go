package render

import "image/color"

// Color is a flat RGBA color with components in [0,1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Palette.
var (
	Green     = Color{0.16, 1, 0, 1}
	Red       = Color{1, 0.16, 0, 1}
	Blue      = Color{0.16, 1, 1, 1}
	Grey      = Color{0.35, 0.35, 0.35, 1}
	LightGrey = Color{0.6, 0.6, 0.6, 1}
	Yellow    = Color{1, 0.8, 0, 1}
	White     = Color{1, 1, 1, 1}
)

// NRGBA converts to a non-premultiplied 8-bit color, clamping components.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
