// Package render paints a scene of positioned nodes and edges onto a 2D
// canvas in fixed layers: background, edges, glow halos, node bodies and
// labels.
package render

import "image/color"

// Point is a canvas coordinate.
type Point struct{ X, Y float64 }

// Stop is one color stop of a gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// RadialGradient blends between two circles, like the HTML canvas gradient
// of the same name.
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []Stop
}

// Paint is a solid color, or a gradient when Gradient is set.
type Paint struct {
	Color    color.NRGBA
	Gradient *RadialGradient
}

// Solid returns a solid paint.
func Solid(c color.NRGBA) Paint { return Paint{Color: c} }

// Canvas is the drawing surface. Coordinates passed to drawing calls are in
// the current user space set up by Translate and Scale; Save and Restore
// push and pop that space together with alpha and shadow.
type Canvas interface {
	Size() (w, h float64)
	Save()
	Restore()
	Translate(x, y float64)
	Scale(k float64)
	// SetAlpha sets the opacity multiplied into every following draw.
	SetAlpha(a float64)
	// SetShadow sets a glow drawn behind following fills. Zero blur clears it.
	SetShadow(blur float64, c color.NRGBA)
	FillRect(x, y, w, h float64, p Paint)
	FillCircle(x, y, r float64, p Paint)
	StrokeCircle(x, y, r, width float64, c color.NRGBA)
	Line(x1, y1, x2, y2, width float64, c color.NRGBA)
	FillPolygon(pts []Point, c color.NRGBA)
	// Text draws s centered horizontally on x with its baseline at y.
	Text(s string, x, y, size float64, c color.NRGBA)
}
