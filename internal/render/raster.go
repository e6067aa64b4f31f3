package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var regular *truetype.Font

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parsing embedded font: %v", err))
	}
	regular = f
}

type rasterState struct {
	tx, ty, k   float64
	alpha       float64
	shadowBlur  float64
	shadowColor color.NRGBA
}

// RasterCanvas draws into an RGBA image. It keeps its own uniform
// transform and hands gg screen coordinates, so strokes, text and gradients
// scale exactly like the user space they were given in.
type RasterCanvas struct {
	dc    *gg.Context
	w, h  float64
	st    rasterState
	stack []rasterState
	faces map[int]font.Face
}

// NewRasterCanvas returns a w x h canvas.
func NewRasterCanvas(w, h int) *RasterCanvas {
	return &RasterCanvas{
		dc:    gg.NewContext(w, h),
		w:     float64(w),
		h:     float64(h),
		st:    rasterState{k: 1, alpha: 1},
		faces: make(map[int]font.Face),
	}
}

func (r *RasterCanvas) Size() (float64, float64) { return r.w, r.h }

func (r *RasterCanvas) Save() { r.stack = append(r.stack, r.st) }

func (r *RasterCanvas) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.st = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *RasterCanvas) Translate(x, y float64) {
	r.st.tx += x * r.st.k
	r.st.ty += y * r.st.k
}

func (r *RasterCanvas) Scale(k float64) { r.st.k *= k }

func (r *RasterCanvas) SetAlpha(a float64) { r.st.alpha = math.Max(0, math.Min(1, a)) }

func (r *RasterCanvas) SetShadow(blur float64, c color.NRGBA) {
	r.st.shadowBlur = blur
	r.st.shadowColor = c
}

func (r *RasterCanvas) pt(x, y float64) (float64, float64) {
	return x*r.st.k + r.st.tx, y*r.st.k + r.st.ty
}

func (r *RasterCanvas) fade(c color.NRGBA) color.NRGBA {
	c.A = uint8(float64(c.A)*r.st.alpha + 0.5)
	return c
}

func (r *RasterCanvas) setPaint(p Paint) {
	if p.Gradient == nil {
		r.dc.SetColor(r.fade(p.Color))
		return
	}
	g := p.Gradient
	x0, y0 := r.pt(g.X0, g.Y0)
	x1, y1 := r.pt(g.X1, g.Y1)
	grad := gg.NewRadialGradient(x0, y0, g.R0*r.st.k, x1, y1, g.R1*r.st.k)
	for _, s := range g.Stops {
		grad.AddColorStop(s.Offset, r.fade(s.Color))
	}
	r.dc.SetFillStyle(grad)
}

// glow emulates a canvas shadow with a radial halo around a circle of
// screen radius sr.
func (r *RasterCanvas) glow(sx, sy, sr float64) {
	if r.st.shadowBlur <= 0 {
		return
	}
	blur := r.st.shadowBlur
	grad := gg.NewRadialGradient(sx, sy, sr, sx, sy, sr+blur)
	grad.AddColorStop(0, r.fade(WithAlpha(r.st.shadowColor, 0.6)))
	grad.AddColorStop(1, Transparent)
	r.dc.SetFillStyle(grad)
	r.dc.DrawCircle(sx, sy, sr+blur)
	r.dc.Fill()
}

func (r *RasterCanvas) FillRect(x, y, w, h float64, p Paint) {
	sx, sy := r.pt(x, y)
	r.setPaint(p)
	r.dc.DrawRectangle(sx, sy, w*r.st.k, h*r.st.k)
	r.dc.Fill()
}

func (r *RasterCanvas) FillCircle(x, y, rad float64, p Paint) {
	sx, sy := r.pt(x, y)
	sr := rad * r.st.k
	r.glow(sx, sy, sr)
	r.setPaint(p)
	r.dc.DrawCircle(sx, sy, sr)
	r.dc.Fill()
}

func (r *RasterCanvas) StrokeCircle(x, y, rad, width float64, c color.NRGBA) {
	sx, sy := r.pt(x, y)
	r.dc.SetColor(r.fade(c))
	r.dc.SetLineWidth(width * r.st.k)
	r.dc.DrawCircle(sx, sy, rad*r.st.k)
	r.dc.Stroke()
}

func (r *RasterCanvas) Line(x1, y1, x2, y2, width float64, c color.NRGBA) {
	sx1, sy1 := r.pt(x1, y1)
	sx2, sy2 := r.pt(x2, y2)
	lw := width * r.st.k
	if r.st.shadowBlur > 0 {
		r.dc.SetColor(r.fade(WithAlpha(r.st.shadowColor, 0.25)))
		r.dc.SetLineWidth(lw + r.st.shadowBlur/2)
		r.dc.DrawLine(sx1, sy1, sx2, sy2)
		r.dc.Stroke()
	}
	r.dc.SetColor(r.fade(c))
	r.dc.SetLineWidth(lw)
	r.dc.DrawLine(sx1, sy1, sx2, sy2)
	r.dc.Stroke()
}

func (r *RasterCanvas) FillPolygon(pts []Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	r.dc.NewSubPath()
	for i, p := range pts {
		sx, sy := r.pt(p.X, p.Y)
		if i == 0 {
			r.dc.MoveTo(sx, sy)
		} else {
			r.dc.LineTo(sx, sy)
		}
	}
	r.dc.ClosePath()
	r.dc.SetColor(r.fade(c))
	r.dc.Fill()
}

func (r *RasterCanvas) Text(s string, x, y, size float64, c color.NRGBA) {
	px := int(math.Round(size * r.st.k))
	if px < 1 {
		return
	}
	face, ok := r.faces[px]
	if !ok {
		face = truetype.NewFace(regular, &truetype.Options{Size: float64(px)})
		r.faces[px] = face
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(r.fade(c))
	sx, sy := r.pt(x, y)
	r.dc.DrawStringAnchored(s, sx, sy, 0.5, 0)
}

// Image returns the rendered image.
func (r *RasterCanvas) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the image as PNG.
func (r *RasterCanvas) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}
