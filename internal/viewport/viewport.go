// Package viewport maps between screen and graph coordinates, picks nodes
// under the pointer, and animates zoom transitions.
package viewport

import (
	"math"
	"time"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/layout"
)

// Defaults for Options fields left at zero.
const (
	DefaultMinZoom    float64 = 0.05
	DefaultMaxZoom    float64 = 10
	DefaultFitPadding float64 = 60
	DefaultFitMaxZoom float64 = 1.5
	DefaultFocusZoom  float64 = 2
	DefaultHitSlop    float64 = 2

	DefaultTransitionDuration = 750 * time.Millisecond
)

// Transform is a uniform scale K followed by a translation (X, Y):
// screen = graph*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform with no pan and unit zoom.
var Identity = Transform{K: 1}

// Apply maps a graph point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point to graph coordinates.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

// Options configures a Controller.
type Options struct {
	Width, Height      float64
	MinZoom, MaxZoom   float64
	FitPadding         float64
	FitMaxZoom         float64
	FocusZoom          float64
	HitSlop            float64
	TransitionDuration time.Duration
	// Now is the clock used to time transitions.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.FitPadding <= 0 {
		o.FitPadding = DefaultFitPadding
	}
	if o.FitMaxZoom <= 0 {
		o.FitMaxZoom = DefaultFitMaxZoom
	}
	if o.FocusZoom <= 0 {
		o.FocusZoom = DefaultFocusZoom
	}
	if o.HitSlop <= 0 {
		o.HitSlop = DefaultHitSlop
	}
	if o.TransitionDuration <= 0 {
		o.TransitionDuration = DefaultTransitionDuration
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type transition struct {
	from, to Transform
	start    time.Time
	duration time.Duration
}

// Controller owns the current transform. It is not safe for concurrent use.
type Controller struct {
	opts   Options
	width  float64
	height float64
	t      Transform
	anim   *transition
}

// New returns a controller centered on the graph origin.
func New(opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{opts: opts, width: opts.Width, height: opts.Height}
	c.t = Transform{X: c.width / 2, Y: c.height / 2, K: 1}
	return c
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Size returns the viewport size in pixels.
func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// Set replaces the transform immediately, cancelling any transition.
func (c *Controller) Set(t Transform) {
	c.anim = nil
	t.K = c.clampZoom(t.K)
	c.t = t
}

// Resize changes the viewport size, keeping the graph point at the center
// of the old viewport at the center of the new one.
func (c *Controller) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.t.X += (w - c.width) / 2
	c.t.Y += (h - c.height) / 2
	c.width, c.height = w, h
}

// ScreenToGraph maps a pointer position to graph coordinates.
func (c *Controller) ScreenToGraph(sx, sy float64) (float64, float64) {
	return c.t.Invert(sx, sy)
}

// GraphToScreen maps a graph position to the screen.
func (c *Controller) GraphToScreen(x, y float64) (float64, float64) {
	return c.t.Apply(x, y)
}

func (c *Controller) clampZoom(k float64) float64 {
	if math.IsNaN(k) || k <= 0 {
		return c.opts.MinZoom
	}
	return math.Max(c.opts.MinZoom, math.Min(c.opts.MaxZoom, k))
}

// ZoomAt scales by factor around the screen point (sx, sy), which stays
// fixed.
func (c *Controller) ZoomAt(sx, sy, factor float64) {
	c.anim = nil
	gx, gy := c.t.Invert(sx, sy)
	k := c.clampZoom(c.t.K * factor)
	c.t = Transform{X: sx - gx*k, Y: sy - gy*k, K: k}
}

// PanBy moves the view by a screen delta.
func (c *Controller) PanBy(dx, dy float64) {
	c.anim = nil
	c.t.X += dx
	c.t.Y += dy
}

// HitTest returns the index of the topmost node under the screen point. The
// last node in nodes is drawn on top and so wins overlaps.
func (c *Controller) HitTest(sx, sy float64, nodes []*graphdoc.Node) (int, bool) {
	gx, gy := c.t.Invert(sx, sy)
	for i := len(nodes) - 1; i >= 0; i-- {
		b := nodes[i].Body
		if !b.Placed {
			continue
		}
		dx, dy := gx-b.X, gy-b.Y
		r := layout.Radius(nodes[i].Degree) + c.opts.HitSlop
		if dx*dx+dy*dy <= r*r {
			return i, true
		}
	}
	return -1, false
}

// FitToView animates to show every placed node with FitPadding on each
// side. It returns false and leaves the view alone when nothing is placed.
func (c *Controller) FitToView(nodes []*graphdoc.Node) bool {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	placed := 0
	for _, n := range nodes {
		if !n.Body.Placed {
			continue
		}
		placed++
		x0, x1 = math.Min(x0, n.Body.X), math.Max(x1, n.Body.X)
		y0, y1 = math.Min(y0, n.Body.Y), math.Max(y1, n.Body.Y)
	}
	if placed == 0 {
		return false
	}

	w, h := x1-x0, y1-y0
	availW := c.width - 2*c.opts.FitPadding
	availH := c.height - 2*c.opts.FitPadding
	k := c.opts.FitMaxZoom
	if w > 0 {
		k = math.Min(k, availW/w)
	}
	if h > 0 {
		k = math.Min(k, availH/h)
	}
	k = c.clampZoom(k)

	cx, cy := (x0+x1)/2, (y0+y1)/2
	c.animateTo(Transform{X: c.width/2 - cx*k, Y: c.height/2 - cy*k, K: k})
	return true
}

// FocusNode animates to center n at FocusZoom.
func (c *Controller) FocusNode(n *graphdoc.Node) bool {
	if n == nil || !n.Body.Placed {
		return false
	}
	k := c.clampZoom(c.opts.FocusZoom)
	c.animateTo(Transform{X: c.width/2 - n.Body.X*k, Y: c.height/2 - n.Body.Y*k, K: k})
	return true
}

// animateTo starts a transition from the current transform. A transition in
// progress is replaced.
func (c *Controller) animateTo(to Transform) {
	c.anim = &transition{from: c.t, to: to, start: c.opts.Now(), duration: c.opts.TransitionDuration}
}

// Animating reports whether a transition is in progress.
func (c *Controller) Animating() bool { return c.anim != nil }

// Target returns the transform the view is heading to.
func (c *Controller) Target() Transform {
	if c.anim != nil {
		return c.anim.to
	}
	return c.t
}

// Step advances the transition to now. It returns true while a transition
// was in progress at the time of the call.
func (c *Controller) Step(now time.Time) bool {
	if c.anim == nil {
		return false
	}
	a := c.anim
	p := float64(now.Sub(a.start)) / float64(a.duration)
	if p >= 1 {
		c.t = a.to
		c.anim = nil
		return true
	}
	if p < 0 {
		p = 0
	}
	e := easeCubicInOut(p)
	c.t = Transform{
		X: a.from.X + (a.to.X-a.from.X)*e,
		Y: a.from.Y + (a.to.Y-a.from.Y)*e,
		K: a.from.K + (a.to.K-a.from.K)*e,
	}
	return true
}

func easeCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
