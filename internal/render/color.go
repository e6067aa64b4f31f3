package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

var (
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
	fallback    = mustHex(graphdoc.FallbackColor)
)

func mustHex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ParseColor parses "#rgb" or "#rrggbb". Anything else yields the fallback
// gray.
func ParseColor(s string) color.NRGBA {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Brighten adds delta to each channel, clamped to [0, 255]. Alpha is kept.
func Brighten(c color.NRGBA, delta int) color.NRGBA {
	return color.NRGBA{R: clampChannel(int(c.R) + delta), G: clampChannel(int(c.G) + delta), B: clampChannel(int(c.B) + delta), A: c.A}
}

func clampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// WithAlpha returns c with opacity a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	switch {
	case a <= 0:
		c.A = 0
	case a >= 1:
		c.A = 255
	default:
		c.A = uint8(a*255 + 0.5)
	}
	return c
}

// Mix blends a toward b by t in CIE L*a*b*, keeping a's alpha.
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: a.A}
}
