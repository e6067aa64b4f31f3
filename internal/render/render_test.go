package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/layout"
	"github.com/ziadkadry99/code-landscape/internal/viewport"
)

type op struct {
	kind  string
	x, y  float64
	r     float64
	alpha float64
	color color.NRGBA
	text  string
	size  float64
	glow  bool
}

// recorder is a Canvas that records every draw call in user space.
type recorder struct {
	alpha float64
	glow  bool
	ops   []op
	depth int
}

func newRecorder() *recorder { return &recorder{alpha: 1} }

func (r *recorder) Size() (float64, float64)   { return 800, 600 }
func (r *recorder) Save()                      { r.depth++ }
func (r *recorder) Restore()                   { r.depth-- }
func (r *recorder) Translate(float64, float64) {}
func (r *recorder) Scale(float64)              {}
func (r *recorder) SetAlpha(a float64)         { r.alpha = a }
func (r *recorder) SetShadow(blur float64, _ color.NRGBA) {
	r.glow = blur > 0
}
func (r *recorder) add(o op) {
	o.alpha = r.alpha
	o.glow = r.glow
	r.ops = append(r.ops, o)
}
func (r *recorder) FillRect(x, y, _, _ float64, p Paint) {
	r.add(op{kind: "rect", x: x, y: y, color: p.Color})
}
func (r *recorder) FillCircle(x, y, rad float64, p Paint) {
	c := p.Color
	if p.Gradient != nil {
		c = p.Gradient.Stops[len(p.Gradient.Stops)-1].Color
	}
	r.add(op{kind: "circle", x: x, y: y, r: rad, color: c})
}
func (r *recorder) StrokeCircle(x, y, rad, _ float64, c color.NRGBA) {
	r.add(op{kind: "ring", x: x, y: y, r: rad, color: c})
}
func (r *recorder) Line(x1, y1, _, _, _ float64, c color.NRGBA) {
	r.add(op{kind: "line", x: x1, y: y1, color: c})
}
func (r *recorder) FillPolygon(pts []Point, c color.NRGBA) {
	r.add(op{kind: "arrow", x: pts[0].X, y: pts[0].Y, color: c})
}
func (r *recorder) Text(s string, x, y, size float64, c color.NRGBA) {
	r.add(op{kind: "text", x: x, y: y, text: s, size: size, color: c})
}

func (r *recorder) find(kind string, x, y float64) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind && o.x == x && o.y == y {
			out = append(out, o)
		}
	}
	return out
}

func (r *recorder) body(n *graphdoc.Node) op {
	for _, o := range r.find("circle", n.Body.X, n.Body.Y) {
		if o.r == layout.Radius(n.Degree) {
			return o
		}
	}
	return op{}
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

// abcdScene is A->B->C with D unconnected, laid out on a line.
func abcdScene() *Scene {
	nodes := []*graphdoc.Node{
		{ID: "A", Label: "A", Type: "file", Degree: 1},
		{ID: "B", Label: "B", Type: "class", Degree: 2},
		{ID: "C", Label: "C", Type: "function", Degree: 1},
		{ID: "D", Label: "D", Type: "model", Degree: 0},
	}
	for i, n := range nodes {
		n.Body = graphdoc.Body{X: float64(i) * 100, Y: 0, Placed: true}
	}
	return &Scene{
		Width: 800, Height: 600,
		Transform: viewport.Identity,
		Nodes:     nodes,
		Edges: []SceneEdge{
			{Source: 0, Target: 1, Type: "imports"},
			{Source: 1, Target: 2, Type: "calls"},
		},
		Selected:   -1,
		Hovered:    -1,
		ShowLabels: true,
	}
}

func TestSelectionFadesNonNeighbors(t *testing.T) {
	s := abcdScene()
	s.Selected = 1
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	style := DefaultStyle()
	for _, i := range []int{0, 1, 2} {
		b := rec.body(s.Nodes[i])
		assert.Equal(t, 1.0, b.alpha, s.Nodes[i].ID)
		assert.True(t, b.glow, "%s glows", s.Nodes[i].ID)
	}
	d := rec.body(s.Nodes[3])
	assert.Equal(t, style.FadedNodeOpacity, d.alpha)
	assert.False(t, d.glow)

	for _, e := range rec.find("line", 0, 0) {
		assert.Equal(t, style.HighlightEdgeOpacity, e.alpha)
	}
	assert.Len(t, rec.find("circle", 300, 0), 1, "D has no halo while another node is selected")
}

func TestClearingSelectionRestoresOpacity(t *testing.T) {
	s := abcdScene()
	s.Selected = 1
	NewPainter().Paint(newRecorder(), s)

	s.Selected = -1
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	style := DefaultStyle()
	for _, n := range s.Nodes {
		b := rec.body(n)
		assert.Equal(t, 1.0, b.alpha, n.ID)
		assert.False(t, b.glow, n.ID)
	}
	for _, o := range rec.ops {
		if o.kind == "line" {
			assert.Equal(t, style.EdgeOpacity, o.alpha)
		}
	}
}

func TestLayerOrder(t *testing.T) {
	s := abcdScene()
	s.ShowArrows = true
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	rank := map[string]int{"rect": 0, "line": 1, "arrow": 1, "circle": 2, "ring": 3, "text": 4}
	last := 0
	seenBody := false
	for _, o := range rec.ops {
		kind := o.kind
		if kind == "circle" && o.r == layout.Radius(s.Nodes[0].Degree) {
			seenBody = true
		}
		if kind == "circle" && seenBody {
			kind = "ring"
		}
		assert.GreaterOrEqual(t, rank[kind], last, "%s drawn after a later layer", o.kind)
		last = rank[kind]
	}
	assert.Equal(t, 0, rec.depth, "save and restore are balanced")
}

func TestArrowsOffsetByTargetRadius(t *testing.T) {
	s := abcdScene()
	s.ShowArrows = true
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	require.Equal(t, 2, rec.count("arrow"))
	tip := rec.find("arrow", 100-layout.Radius(2), 0)
	assert.Len(t, tip, 1)
}

func TestZeroLengthEdgeSkipped(t *testing.T) {
	s := abcdScene()
	s.ShowArrows = true
	s.Nodes[3].Body.X = s.Nodes[2].Body.X
	s.Edges = append(s.Edges, SceneEdge{Source: 2, Target: 3, Type: "uses"})
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	assert.Equal(t, 2, rec.count("line"))
	assert.Equal(t, 2, rec.count("arrow"))
}

func TestSearchMatchesGetWhiteRing(t *testing.T) {
	s := abcdScene()
	s.Matches = map[int]bool{2: true}
	rec := newRecorder()
	NewPainter().Paint(rec, s)

	ring := rec.find("ring", 200, 0)
	require.Len(t, ring, 1)
	assert.Equal(t, White, ring[0].color)

	assert.Empty(t, rec.find("ring", 0, 0), "unmatched nodes get no ring")
	assert.Equal(t, DefaultStyle().SearchDimOpacity, rec.body(s.Nodes[0]).alpha)
}

func TestOutlineRingOnlyOnHighlightedNodes(t *testing.T) {
	s := abcdScene()
	rec := newRecorder()
	NewPainter().Paint(rec, s)
	assert.Zero(t, rec.count("ring"), "no ring without selection or search")

	s.Selected = 1
	rec = newRecorder()
	NewPainter().Paint(rec, s)
	assert.Equal(t, 3, rec.count("ring"), "selected node and its two neighbors")
	assert.Empty(t, rec.find("ring", 300, 0))
	ring := rec.find("ring", 100, 0)
	require.Len(t, ring, 1)
	assert.NotEqual(t, White, ring[0].color)
}

func TestUniformHalosOnLargeGraphs(t *testing.T) {
	s := abcdScene()
	nodes := make([]*graphdoc.Node, 0, 1200)
	for i := 0; i < 1200; i++ {
		n := &graphdoc.Node{ID: fmt.Sprint(i), Type: "file"}
		n.Body = graphdoc.Body{X: float64(i) * 50, Y: 0, Placed: true}
		nodes = append(nodes, n)
	}
	s.Nodes = nodes
	s.Edges = nil
	rec := newRecorder()
	NewPainter().Paint(rec, s)
	assert.Equal(t, 2*len(nodes), rec.count("circle"), "every node gets a halo and a body")
}

func TestLabelsFollowZoom(t *testing.T) {
	s := abcdScene()
	s.Transform = viewport.Transform{K: 2}
	rec := newRecorder()
	NewPainter().Paint(rec, s)
	require.Equal(t, 4, rec.count("text"))
	for _, o := range rec.ops {
		if o.kind == "text" {
			assert.Equal(t, 5.5, o.size)
		}
	}

	s.Transform = viewport.Transform{K: 0.3}
	rec = newRecorder()
	NewPainter().Paint(rec, s)
	assert.Zero(t, rec.count("text"))
}

func TestUnplacedNodesAreNotDrawn(t *testing.T) {
	s := abcdScene()
	s.Nodes[0].Body.Placed = false
	rec := newRecorder()
	NewPainter().Paint(rec, s)
	assert.Empty(t, rec.find("circle", 0, 0))
	assert.Equal(t, 1, rec.count("line"))
}

func TestColors(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 255}, ParseColor("#42a5f5"))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x00, B: 0xcc, A: 255}, ParseColor("#f0c"))
	assert.Equal(t, ParseColor(graphdoc.FallbackColor), ParseColor("not-a-color"))
	assert.Equal(t, ParseColor(graphdoc.FallbackColor), ParseColor(""))

	c := color.NRGBA{R: 250, G: 10, B: 128, A: 200}
	assert.Equal(t, color.NRGBA{R: 255, G: 70, B: 188, A: 200}, Brighten(c, 60))
	assert.Equal(t, color.NRGBA{R: 190, G: 0, B: 68, A: 200}, Brighten(c, -60))

	assert.Equal(t, uint8(0), WithAlpha(c, -1).A)
	assert.Equal(t, uint8(255), WithAlpha(c, 2).A)
	assert.Equal(t, uint8(128), WithAlpha(c, 0.5).A)

	assert.Equal(t, White, Mix(White, color.NRGBA{A: 255}, 0))
}

func TestRasterCanvasEncodesPNG(t *testing.T) {
	s := abcdScene()
	s.Selected = 1
	s.ShowArrows = true
	s.Transform = viewport.Transform{X: 100, Y: 300, K: 1.5}

	rc := NewRasterCanvas(320, 240)
	w, h := rc.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 240.0, h)
	s.Width, s.Height = w, h
	NewPainter().Paint(rc, s)

	var buf bytes.Buffer
	require.NoError(t, rc.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())

	// The background is not left transparent.
	_, _, _, a := img.At(5, 5).RGBA()
	assert.NotZero(t, a)
}
