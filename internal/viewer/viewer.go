// Package viewer is the interactive state machine of the code landscape: it
// owns the loaded document, the visibility filter, the layout simulation,
// the viewport, selection, hover and search, and paints frames.
//
// A Viewer is not safe for concurrent use. It is the single writer of all
// mutable view state, including node positions; callers serialize access,
// normally through a session event loop.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
	"github.com/ziadkadry99/code-landscape/internal/layout"
	"github.com/ziadkadry99/code-landscape/internal/render"
	"github.com/ziadkadry99/code-landscape/internal/search"
	"github.com/ziadkadry99/code-landscape/internal/viewport"
	"github.com/ziadkadry99/code-landscape/internal/visibility"
)

// ErrNoDocument is returned by operations that need a loaded document.
var ErrNoDocument = errors.New("no document loaded")

// Options configures a Viewer.
type Options struct {
	Width, Height   int
	Viewport        viewport.Options
	Depths          insight.Depths
	HistoryCapacity int
	ShowArrows      bool
	ShowLabels      bool
	// Layout overrides the size-band parameters when set.
	Layout *layout.Params
	Rand   *rand.Rand
	Now    func() time.Time
}

// Viewer holds all interactive state for one document.
type Viewer struct {
	opts    Options
	now     func() time.Time
	painter *render.Painter
	vp      *viewport.Controller

	doc    *graphdoc.Document
	engine *insight.Engine

	hidden  visibility.Hidden
	view    visibility.View
	sim     *layout.Simulation
	simIdx  map[string]int
	edges   []render.SceneEdge
	frozen  bool
	autoFit bool

	history *insight.History
	hovered int
	query   search.Query
	matches map[int]bool

	showArrows bool
	showLabels bool

	drag    viewport.Drag
	press   *press
	version uint64
}

// New returns a viewer with no document.
func New(opts Options) *Viewer {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	vpOpts := opts.Viewport
	vpOpts.Width, vpOpts.Height = float64(opts.Width), float64(opts.Height)
	vpOpts.Now = opts.Now

	return &Viewer{
		opts:       opts,
		now:        opts.Now,
		painter:    render.NewPainter(),
		vp:         viewport.New(vpOpts),
		hidden:     visibility.NewHidden(nil, nil),
		history:    insight.NewHistory(opts.HistoryCapacity),
		hovered:    -1,
		matches:    map[int]bool{},
		showArrows: opts.ShowArrows,
		showLabels: opts.ShowLabels,
	}
}

// Load validates doc and replaces the current document with it. On error
// the previous document stays loaded. Visibility filters, selection,
// history and frozen state are reset; the search query is kept.
func (v *Viewer) Load(doc *graphdoc.Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	v.doc = doc
	v.engine = insight.NewEngine(doc, v.opts.Depths)
	v.hidden = visibility.NewHidden(nil, nil)
	v.history.Close()
	v.hovered = -1
	v.frozen = false
	v.autoFit = false
	v.drag = viewport.Drag{}
	v.press = nil
	v.rebuild()
	return nil
}

// Document returns the loaded document, or nil.
func (v *Viewer) Document() *graphdoc.Document { return v.doc }

// Engine returns the insight engine of the loaded document, or nil.
func (v *Viewer) Engine() *insight.Engine { return v.engine }

// Simulation returns the current layout simulation, or nil.
func (v *Viewer) Simulation() *layout.Simulation { return v.sim }

// Viewport returns the viewport controller.
func (v *Viewer) Viewport() *viewport.Controller { return v.vp }

// Version increases every time the visible state changes.
func (v *Viewer) Version() uint64 { return v.version }

func (v *Viewer) touch() { v.version++ }

// Invalidate forces the next frame to be repainted.
func (v *Viewer) Invalidate() { v.touch() }

// rebuild re-derives the view and a new simulation over it. Nodes that were
// visible before keep their bodies, so they do not jump. A drag in progress
// is released against the old simulation since its index is not stable.
func (v *Viewer) rebuild() {
	if v.drag.Active() {
		v.drag.End(v.sim)
		v.press = nil
	}
	v.view = visibility.Apply(v.doc, v.hidden)
	nodes := v.view.NodePointers(v.doc)

	v.simIdx = make(map[string]int, len(nodes))
	for i, n := range nodes {
		v.simIdx[n.ID] = i
	}
	links := make([]layout.Link, 0, len(v.view.Edges))
	v.edges = make([]render.SceneEdge, 0, len(v.view.Edges))
	for _, ei := range v.view.Edges {
		e := v.doc.Edges[ei]
		s, t := v.simIdx[e.Source], v.simIdx[e.Target]
		links = append(links, layout.Link{Source: s, Target: t, Type: e.Type})
		v.edges = append(v.edges, render.SceneEdge{Source: s, Target: t, Type: e.Type})
	}

	v.sim = layout.New(nodes, links, layout.Options{Params: v.opts.Layout, Rand: v.opts.Rand})
	if v.frozen {
		v.sim.Freeze()
	} else {
		v.sim.Restart()
	}
	v.hovered = -1
	v.matches = v.query.Indexes(nodes)
	v.touch()
}

// Hidden returns a copy of the hidden type sets.
func (v *Viewer) Hidden() visibility.Hidden { return v.hidden.Clone() }

// SetHidden replaces the hidden type sets and rebuilds the view.
func (v *Viewer) SetHidden(h visibility.Hidden) error {
	if v.doc == nil {
		return ErrNoDocument
	}
	v.hidden = h.Clone()
	v.rebuild()
	return nil
}

// ToggleNodeType flips a node type's visibility and returns whether it is
// now hidden.
func (v *Viewer) ToggleNodeType(t string) (bool, error) {
	if v.doc == nil {
		return false, ErrNoDocument
	}
	hidden := v.hidden.ToggleNodeType(t)
	v.rebuild()
	return hidden, nil
}

// ToggleEdgeType flips an edge type's visibility and returns whether it is
// now hidden.
func (v *Viewer) ToggleEdgeType(t string) (bool, error) {
	if v.doc == nil {
		return false, ErrNoDocument
	}
	hidden := v.hidden.ToggleEdgeType(t)
	v.rebuild()
	return hidden, nil
}

// VisibleNodes returns the visible nodes in draw order.
func (v *Viewer) VisibleNodes() []*graphdoc.Node {
	if v.sim == nil {
		return nil
	}
	return v.sim.Nodes()
}

// Tick advances the layout and any viewport transition. It returns true
// when the frame changed. The first time alpha drops below the auto-fit
// threshold after a load, the view is fitted once.
func (v *Viewer) Tick() bool {
	changed := false
	if v.sim != nil && v.sim.Tick() {
		changed = true
		if !v.autoFit && v.sim.Alpha() < layout.AutoFitAlpha {
			v.autoFit = true
			v.vp.FitToView(v.sim.Nodes())
		}
	}
	if v.vp.Step(v.now()) {
		changed = true
	}
	if changed {
		v.touch()
	}
	return changed
}

// Settle ticks until the layout stops or maxTicks is reached, then fits the
// view without animating. It returns the number of ticks run. progress, when not
// nil, is called after every tick.
func (v *Viewer) Settle(ctx context.Context, maxTicks int, progress func(tick int)) (int, error) {
	if v.sim == nil {
		return 0, ErrNoDocument
	}
	n := 0
	for n < maxTicks && v.sim.Active() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		v.Tick()
		n++
		if progress != nil {
			progress(n)
		}
	}
	v.autoFit = true
	if v.vp.FitToView(v.sim.Nodes()) {
		v.vp.Set(v.vp.Target())
	}
	v.touch()
	return n, nil
}

// Freeze stops the layout and pins every visible node.
func (v *Viewer) Freeze() error {
	if v.sim == nil {
		return ErrNoDocument
	}
	v.frozen = true
	v.sim.Freeze()
	v.touch()
	return nil
}

// Unfreeze releases the pins and reheats the layout.
func (v *Viewer) Unfreeze() error {
	if v.sim == nil {
		return ErrNoDocument
	}
	v.frozen = false
	v.sim.Unfreeze()
	// Nodes hidden while frozen are not in the simulation but keep their pins.
	for i := range v.doc.Nodes {
		v.doc.Nodes[i].Body.Unpin()
	}
	v.touch()
	return nil
}

// SetArrows shows or hides arrowheads.
func (v *Viewer) SetArrows(on bool) { v.showArrows = on; v.touch() }

// SetLabels shows or hides labels.
func (v *Viewer) SetLabels(on bool) { v.showLabels = on; v.touch() }

// Arrows reports whether arrowheads are shown.
func (v *Viewer) Arrows() bool { return v.showArrows }

// Labels reports whether labels are shown.
func (v *Viewer) Labels() bool { return v.showLabels }

// FitView animates to show the whole visible graph.
func (v *Viewer) FitView() bool {
	if v.sim == nil {
		return false
	}
	ok := v.vp.FitToView(v.sim.Nodes())
	v.touch()
	return ok
}

// Focus animates to center a visible node.
func (v *Viewer) Focus(id string) bool {
	i, ok := v.simIdx[id]
	if !ok || v.sim == nil {
		return false
	}
	ok = v.vp.FocusNode(v.sim.Node(i))
	v.touch()
	return ok
}

// Resize changes the frame size.
func (v *Viewer) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	v.opts.Width, v.opts.Height = w, h
	v.vp.Resize(float64(w), float64(h))
	v.touch()
}

// Size returns the frame size in pixels.
func (v *Viewer) Size() (int, int) { return v.opts.Width, v.opts.Height }

// Search sets the active query and recomputes the matches among the
// visible nodes. A single match is brought into focus. It returns the
// number of matches.
func (v *Viewer) Search(q string) int {
	v.query = search.Parse(q)
	v.matches = v.query.Indexes(v.VisibleNodes())
	if len(v.matches) == 1 && v.sim != nil {
		for i := range v.matches {
			v.vp.FocusNode(v.sim.Node(i))
		}
	}
	v.touch()
	return len(v.matches)
}

// Query returns the active search text.
func (v *Viewer) Query() string { return v.query.String() }

// Matches returns the ids of the visible nodes matching the search.
func (v *Viewer) Matches() []string {
	out := make([]string, 0, len(v.matches))
	for i, n := range v.VisibleNodes() {
		if v.matches[i] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Select makes id the selected node and pushes the previous selection onto
// the history. The node may be hidden; it is then highlighted once visible.
func (v *Viewer) Select(id string) error {
	if v.doc == nil {
		return ErrNoDocument
	}
	if v.doc.Node(id) == nil {
		return insight.ErrUnknownNode
	}
	v.history.View(id)
	v.touch()
	return nil
}

// Back returns to the previously selected node.
func (v *Viewer) Back() (string, bool) {
	id, ok := v.history.Back()
	if ok {
		v.touch()
	}
	return id, ok
}

// ClearSelection closes the detail panel and clears the history.
func (v *Viewer) ClearSelection() {
	if v.history.Current() == "" && v.history.Len() == 0 {
		return
	}
	v.history.Close()
	v.touch()
}

// Selected returns the selected node id, or "".
func (v *Viewer) Selected() string { return v.history.Current() }

// History returns the ids available to Back, oldest first.
func (v *Viewer) History() []string { return v.history.Entries() }

// Hovered returns the id of the node under the pointer, or "".
func (v *Viewer) Hovered() string {
	if v.hovered < 0 || v.sim == nil || v.hovered >= v.sim.Len() {
		return ""
	}
	return v.sim.Node(v.hovered).ID
}

// Detail describes the selected node. It returns nil when nothing is
// selected.
func (v *Viewer) Detail(ctx context.Context) (*insight.Detail, error) {
	id := v.history.Current()
	if id == "" {
		return nil, nil
	}
	return v.Describe(ctx, id)
}

// Describe describes any node of the document, visible or not.
func (v *Viewer) Describe(ctx context.Context, id string) (*insight.Detail, error) {
	if v.engine == nil {
		return nil, ErrNoDocument
	}
	return v.engine.Describe(ctx, id)
}

// Scene assembles the read-only input of the painter.
func (v *Viewer) Scene() *render.Scene {
	w, h := v.vp.Size()
	s := &render.Scene{
		Width:      w,
		Height:     h,
		Transform:  v.vp.Transform(),
		Nodes:      v.VisibleNodes(),
		Edges:      v.edges,
		Selected:   -1,
		Hovered:    v.hovered,
		Matches:    v.matches,
		ShowArrows: v.showArrows,
		ShowLabels: v.showLabels,
	}
	if v.doc != nil {
		s.Palette = v.doc
	}
	if i, ok := v.simIdx[v.history.Current()]; ok {
		s.Selected = i
	}
	return s
}

// Render paints the current frame onto c.
func (v *Viewer) Render(c render.Canvas) {
	v.painter.Paint(c, v.Scene())
}

// EncodePNG renders the current frame and writes it as PNG.
func (v *Viewer) EncodePNG(w io.Writer) error {
	rc := render.NewRasterCanvas(v.opts.Width, v.opts.Height)
	v.Render(rc)
	return rc.EncodePNG(w)
}
