package render

import (
	"image/color"
	"math"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/layout"
	"github.com/ziadkadry99/code-landscape/internal/viewport"
)

// Palette resolves type colors. *graphdoc.Document implements it.
type Palette interface {
	NodeColor(nodeType string) string
	EdgeColor(edgeType string) string
}

// SceneEdge references its endpoints by index into Scene.Nodes.
type SceneEdge struct {
	Source, Target int
	Type           string
}

// Scene is everything the painter reads for one frame.
type Scene struct {
	Width, Height float64
	Transform     viewport.Transform
	Palette       Palette

	// Nodes are in draw order; later nodes are drawn on top.
	Nodes []*graphdoc.Node
	Edges []SceneEdge

	// Selected and Hovered are indexes into Nodes, or -1.
	Selected int
	Hovered  int
	// Matches holds the indexes of nodes matching the active search.
	Matches map[int]bool

	ShowArrows bool
	ShowLabels bool
}

// Highlight returns the selected node and its neighbors through visible
// edges. It is empty when nothing is selected.
func (s *Scene) Highlight() map[int]bool {
	if s.Selected < 0 || s.Selected >= len(s.Nodes) {
		return nil
	}
	set := map[int]bool{s.Selected: true}
	for _, e := range s.Edges {
		if e.Source == s.Selected {
			set[e.Target] = true
		}
		if e.Target == s.Selected {
			set[e.Source] = true
		}
	}
	return set
}

// Style holds the visual constants of the painter.
type Style struct {
	Background color.NRGBA
	Wash       color.NRGBA

	EdgeWidth            float64
	EdgeOpacity          float64
	HighlightEdgeOpacity float64
	FadedEdgeOpacity     float64
	ArrowSize            float64

	FadedNodeOpacity float64
	SearchDimOpacity float64
	UniformHalo      float64
	HighlightHalo    float64
	HaloSpread       float64
	GlowBlur         float64
	BodyBrighten     int
	OutlineBrighten  int
	OutlineWidth     float64
	LabelMinZoom     float64
	LabelSize        float64
	LabelColor       color.NRGBA
}

// DefaultStyle is the dark theme of the viewer.
func DefaultStyle() Style {
	return Style{
		Background:           color.NRGBA{R: 0x0d, G: 0x11, B: 0x17, A: 255},
		Wash:                 color.NRGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 255},
		EdgeWidth:            1,
		EdgeOpacity:          0.25,
		HighlightEdgeOpacity: 0.9,
		FadedEdgeOpacity:     0.03,
		ArrowSize:            5,
		FadedNodeOpacity:     0.15,
		SearchDimOpacity:     0.35,
		UniformHalo:          0.12,
		HighlightHalo:        0.6,
		HaloSpread:           12,
		GlowBlur:             15,
		BodyBrighten:         60,
		OutlineBrighten:      40,
		OutlineWidth:         1.5,
		LabelMinZoom:         0.6,
		LabelSize:            11,
		LabelColor:           color.NRGBA{R: 0xe6, G: 0xed, B: 0xf3, A: 255},
	}
}

// Painter draws scenes. It never mutates the scene.
type Painter struct {
	Style Style
}

// NewPainter returns a painter with DefaultStyle.
func NewPainter() *Painter {
	return &Painter{Style: DefaultStyle()}
}

type frame struct {
	s         *Scene
	highlight map[int]bool
	searching bool
	radii     []float64
	colors    []color.NRGBA
}

// Paint draws s onto c.
func (p *Painter) Paint(c Canvas, s *Scene) {
	f := &frame{
		s:         s,
		highlight: s.Highlight(),
		searching: len(s.Matches) > 0,
		radii:     make([]float64, len(s.Nodes)),
		colors:    make([]color.NRGBA, len(s.Nodes)),
	}
	for i, n := range s.Nodes {
		f.radii[i] = layout.Radius(n.Degree)
		f.colors[i] = ParseColor(nodeColor(s.Palette, n.Type))
	}

	c.Save()
	defer c.Restore()

	p.background(c, s)

	c.Save()
	c.Translate(s.Transform.X, s.Transform.Y)
	c.Scale(s.Transform.K)
	p.edges(c, f)
	p.halos(c, f)
	p.bodies(c, f)
	p.labels(c, f)
	c.Restore()
}

func nodeColor(p Palette, t string) string {
	if p == nil {
		return graphdoc.DefaultNodeColor(t)
	}
	return p.NodeColor(t)
}

func edgeColor(p Palette, t string) string {
	if p == nil {
		return graphdoc.DefaultEdgeColor(t)
	}
	return p.EdgeColor(t)
}

func (p *Painter) background(c Canvas, s *Scene) {
	c.SetAlpha(1)
	c.FillRect(0, 0, s.Width, s.Height, Solid(p.Style.Background))
	r := math.Max(s.Width, s.Height) * 0.7
	c.FillRect(0, 0, s.Width, s.Height, Paint{Gradient: &RadialGradient{
		X0: s.Width / 2, Y0: s.Height / 2, R0: 0,
		X1: s.Width / 2, Y1: s.Height / 2, R1: r,
		Stops: []Stop{
			{Offset: 0, Color: WithAlpha(p.Style.Wash, 0.08)},
			{Offset: 1, Color: Transparent},
		},
	}})
}

// nodeOpacity applies the fade rules: with a selection only the highlight
// set is opaque; with an active search non-matches are dimmed.
func (p *Painter) nodeOpacity(f *frame, i int) float64 {
	if f.highlight != nil {
		if f.highlight[i] {
			return 1
		}
		return p.Style.FadedNodeOpacity
	}
	if f.searching && !f.s.Matches[i] {
		return p.Style.SearchDimOpacity
	}
	return 1
}

func (p *Painter) edges(c Canvas, f *frame) {
	s := f.s
	k := s.Transform.K
	for _, e := range s.Edges {
		src, dst := s.Nodes[e.Source].Body, s.Nodes[e.Target].Body
		if !src.Placed || !dst.Placed {
			continue
		}
		dx, dy := dst.X-src.X, dst.Y-src.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}

		col := ParseColor(edgeColor(s.Palette, e.Type))
		alpha := p.Style.EdgeOpacity
		glow := false
		if f.highlight != nil {
			if f.highlight[e.Source] && f.highlight[e.Target] {
				alpha, glow = p.Style.HighlightEdgeOpacity, true
			} else {
				alpha = p.Style.FadedEdgeOpacity
			}
		}

		c.SetAlpha(alpha)
		width := p.Style.EdgeWidth / k
		if glow {
			c.SetShadow(p.Style.GlowBlur/2, col)
			width *= 1.5
		}
		c.Line(src.X, src.Y, dst.X, dst.Y, width, col)

		if s.ShowArrows {
			ux, uy := dx/length, dy/length
			tr := f.radii[e.Target]
			if length > tr {
				tipX, tipY := dst.X-ux*tr, dst.Y-uy*tr
				size := p.Style.ArrowSize
				baseX, baseY := tipX-ux*size, tipY-uy*size
				px, py := -uy*size/2, ux*size/2
				c.FillPolygon([]Point{
					{X: tipX, Y: tipY},
					{X: baseX + px, Y: baseY + py},
					{X: baseX - px, Y: baseY - py},
				}, col)
			}
		}
		if glow {
			c.SetShadow(0, Transparent)
		}
	}
	c.SetAlpha(1)
}

// halos draws the soft glow behind nodes. With a selection only the
// highlight set glows, with a search only the matches glow, and otherwise
// every node gets a faint halo.
func (p *Painter) halos(c Canvas, f *frame) {
	s := f.s
	c.SetAlpha(1)
	for i, n := range s.Nodes {
		if !n.Body.Placed {
			continue
		}
		var strength float64
		switch {
		case f.highlight != nil:
			if !f.highlight[i] {
				continue
			}
			strength = p.Style.HighlightHalo
			if i != s.Selected {
				strength /= 2
			}
		case f.searching:
			if !s.Matches[i] {
				continue
			}
			strength = p.Style.HighlightHalo
		default:
			strength = p.Style.UniformHalo
			if i == s.Hovered {
				strength = p.Style.HighlightHalo
			}
		}

		r := f.radii[i]
		x, y := n.Body.X, n.Body.Y
		c.FillCircle(x, y, r+p.Style.HaloSpread, Paint{Gradient: &RadialGradient{
			X0: x, Y0: y, R0: r,
			X1: x, Y1: y, R1: r + p.Style.HaloSpread,
			Stops: []Stop{
				{Offset: 0, Color: WithAlpha(f.colors[i], strength)},
				{Offset: 1, Color: Transparent},
			},
		}})
	}
}

func (p *Painter) bodies(c Canvas, f *frame) {
	s := f.s
	k := s.Transform.K
	for i, n := range s.Nodes {
		if !n.Body.Placed {
			continue
		}
		r := f.radii[i]
		x, y := n.Body.X, n.Body.Y
		base := f.colors[i]
		matched := s.Matches[i]
		glow := i == s.Hovered || matched || (f.highlight != nil && f.highlight[i])

		c.SetAlpha(p.nodeOpacity(f, i))
		if glow {
			c.SetShadow(p.Style.GlowBlur, base)
		}
		c.FillCircle(x, y, r, Paint{Gradient: &RadialGradient{
			X0: x - r/3, Y0: y - r/3, R0: 0,
			X1: x, Y1: y, R1: r,
			Stops: []Stop{
				{Offset: 0, Color: Brighten(base, p.Style.BodyBrighten)},
				{Offset: 1, Color: base},
			},
		}})
		if glow {
			c.SetShadow(0, Transparent)
		}

		if !matched && (f.highlight == nil || !f.highlight[i]) {
			continue
		}
		ring := Brighten(base, p.Style.OutlineBrighten)
		width := p.Style.OutlineWidth / k
		if matched {
			ring = White
			width *= 1.5
		}
		c.StrokeCircle(x, y, r, width, ring)
	}
	c.SetAlpha(1)
}

// labels are drawn once the zoom makes them legible. The font size is
// divided by the zoom so text keeps a constant size on screen.
func (p *Painter) labels(c Canvas, f *frame) {
	s := f.s
	k := s.Transform.K
	if !s.ShowLabels || k < p.Style.LabelMinZoom {
		return
	}
	size := p.Style.LabelSize / k
	for i, n := range s.Nodes {
		if !n.Body.Placed || n.Label == "" {
			continue
		}
		col := p.Style.LabelColor
		if i == s.Hovered || s.Matches[i] {
			col = Mix(col, f.colors[i], 0.35)
		}
		c.SetAlpha(p.nodeOpacity(f, i))
		c.Text(n.Label, n.Body.X, n.Body.Y+f.radii[i]+size, size, col)
	}
	c.SetAlpha(1)
}
