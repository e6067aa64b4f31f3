package viewer

import (
	"bytes"
	"context"
	"image/png"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
	"github.com/ziadkadry99/code-landscape/internal/layout"
)

func testDoc() *graphdoc.Document {
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "A", Label: "app.py", Type: graphdoc.TypeFile, FilePath: "app.py"})
	b.AddNode(graphdoc.Node{ID: "B", Label: "Service", Type: graphdoc.TypeClass, FilePath: "app.py"})
	b.AddNode(graphdoc.Node{ID: "C", Label: "handle", Type: graphdoc.TypeFunction, FilePath: "app.py"})
	b.AddNode(graphdoc.Node{ID: "D", Label: "User", Type: graphdoc.TypeModel, FilePath: "models.py"})
	b.AddEdge(graphdoc.Edge{Source: "A", Target: "B", Type: graphdoc.EdgeImports})
	b.AddEdge(graphdoc.Edge{Source: "B", Target: "C", Type: graphdoc.EdgeCalls})
	return b.Build("demo")
}

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	clock := time.Unix(0, 0)
	v := New(Options{
		Width: 800, Height: 600,
		ShowLabels: true,
		Rand:       rand.New(rand.NewPCG(7, 11)),
		Now:        func() time.Time { return clock },
	})
	require.NoError(t, v.Load(testDoc()))
	_, err := v.Settle(context.Background(), 2000, nil)
	require.NoError(t, err)
	return v
}

func screenOf(v *Viewer, id string) (float64, float64) {
	n := v.Document().Node(id)
	return v.Viewport().GraphToScreen(n.Body.X, n.Body.Y)
}

func emptySpot(v *Viewer) (float64, float64) {
	return v.Viewport().GraphToScreen(1e5, 1e5)
}

func TestLoadRejectsInvalidAndKeepsPrevious(t *testing.T) {
	v := newViewer(t)
	before := v.Document()

	err := v.Load(&graphdoc.Document{Edges: []graphdoc.Edge{}})
	require.ErrorIs(t, err, graphdoc.ErrMissingNodes)
	assert.Same(t, before, v.Document())

	assert.ErrorIs(t, v.Load(nil), ErrNoDocument)
}

func TestSettleFitsOnce(t *testing.T) {
	v := newViewer(t)
	assert.Equal(t, layout.Settled, v.Simulation().State())
	assert.True(t, v.autoFit)
	assert.False(t, v.Viewport().Animating())

	for _, n := range v.VisibleNodes() {
		sx, sy := v.Viewport().GraphToScreen(n.Body.X, n.Body.Y)
		assert.True(t, sx >= 0 && sx <= 800 && sy >= 0 && sy <= 600, "%s is on screen", n.ID)
	}
}

func TestSelectThenClickEmptySpaceClearsSelection(t *testing.T) {
	v := newViewer(t)

	v.Click(screenOf(v, "B"))
	require.Equal(t, "B", v.Selected())
	s := v.Scene()
	assert.Equal(t, 3, len(s.Highlight()), "B and its two neighbors")

	d, err := v.Detail(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", d.Node.ID)

	v.Click(emptySpot(v))
	assert.Equal(t, "", v.Selected())
	s = v.Scene()
	assert.Equal(t, -1, s.Selected)
	assert.Nil(t, s.Highlight(), "no fading without a selection")

	d, err = v.Detail(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestHidingFunctionKeepsIndex(t *testing.T) {
	v := newViewer(t)
	a := v.Document().Node("A").Body

	hidden, err := v.ToggleNodeType(graphdoc.TypeFunction)
	require.NoError(t, err)
	assert.True(t, hidden)

	var ids []string
	for _, n := range v.VisibleNodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"A", "B", "D"}, ids)
	assert.Len(t, v.Scene().Edges, 1)
	assert.Equal(t, a.X, v.Document().Node("A").Body.X, "visible nodes keep their position")

	d, err := v.Describe(context.Background(), "B")
	require.NoError(t, err)
	require.Len(t, d.Outgoing, 1)
	assert.Equal(t, "C", d.Outgoing[0].Node.ID)

	hidden, err = v.ToggleNodeType(graphdoc.TypeFunction)
	require.NoError(t, err)
	assert.False(t, hidden)
	assert.Len(t, v.VisibleNodes(), 4)
}

func TestHiddenSelectionIsNotHighlighted(t *testing.T) {
	v := newViewer(t)
	require.NoError(t, v.Select("C"))
	_, err := v.ToggleNodeType(graphdoc.TypeFunction)
	require.NoError(t, err)

	assert.Equal(t, "C", v.Selected())
	assert.Equal(t, -1, v.Scene().Selected)
}

func TestHistoryNavigation(t *testing.T) {
	v := newViewer(t)
	require.NoError(t, v.Select("A"))
	require.NoError(t, v.Select("B"))
	require.NoError(t, v.Select("C"))
	assert.Equal(t, []string{"A", "B"}, v.History())

	id, ok := v.Back()
	require.True(t, ok)
	assert.Equal(t, "B", id)
	assert.Equal(t, "B", v.Selected())

	assert.ErrorIs(t, v.Select("nope"), insight.ErrUnknownNode)
	assert.Equal(t, "B", v.Selected())
}

func TestPanDoesNotClearSelection(t *testing.T) {
	v := newViewer(t)
	require.NoError(t, v.Select("B"))
	before := v.Viewport().Transform()

	x, y := emptySpot(v)
	v.PointerDown(x, y)
	v.PointerMove(x+50, y)
	v.PointerMove(x+100, y)
	v.PointerUp(x+100, y)

	assert.Equal(t, "B", v.Selected())
	assert.InDelta(t, before.X+100, v.Viewport().Transform().X, 1e-9)
}

func TestDragMovesNodeWithoutSelecting(t *testing.T) {
	v := newViewer(t)
	x, y := screenOf(v, "D")
	v.PointerDown(x, y)
	v.PointerMove(x+40, y+40)
	require.True(t, v.Simulation().Active(), "drag reheats the layout")
	v.Tick()

	gx, gy := v.Viewport().ScreenToGraph(x+40, y+40)
	d := v.Document().Node("D").Body
	assert.InDelta(t, gx, d.X, 1e-6)
	assert.InDelta(t, gy, d.Y, 1e-6)

	v.PointerUp(x+40, y+40)
	assert.Equal(t, "", v.Selected())
	assert.False(t, v.Document().Node("D").Body.Pinned)
}

func TestFilterChangeDuringDragReleasesNode(t *testing.T) {
	v := newViewer(t)
	x, y := screenOf(v, "D")
	v.PointerDown(x, y)
	v.PointerMove(x+40, y+40)
	require.True(t, v.Document().Node("D").Body.Pinned)

	_, err := v.ToggleNodeType(graphdoc.TypeFile)
	require.NoError(t, err)
	assert.False(t, v.Document().Node("D").Body.Pinned)

	v.PointerMove(x+80, y+80)
	v.PointerUp(x+80, y+80)
	for _, n := range v.Document().Nodes {
		assert.False(t, n.Body.Pinned, "%s is pinned", n.ID)
	}
	assert.Equal(t, "", v.Selected())
}

func TestHover(t *testing.T) {
	v := newViewer(t)
	v.PointerMove(screenOf(v, "D"))
	assert.Equal(t, "D", v.Hovered())
	v.PointerMove(emptySpot(v))
	assert.Equal(t, "", v.Hovered())
	v.PointerMove(screenOf(v, "A"))
	v.PointerLeave()
	assert.Equal(t, "", v.Hovered())
}

func TestSearch(t *testing.T) {
	v := newViewer(t)
	require.False(t, v.Viewport().Animating())
	assert.Equal(t, 1, v.Search("serv"))
	assert.Equal(t, []string{"B"}, v.Matches())

	// A single match is focused.
	require.True(t, v.Viewport().Animating())
	b := v.Document().Node("B")
	to := v.Viewport().Target()
	assert.InDelta(t, 400, b.Body.X*to.K+to.X, 1e-6)
	assert.InDelta(t, 300, b.Body.Y*to.K+to.Y, 1e-6)

	assert.Equal(t, 3, v.Search("app.py"))
	assert.Equal(t, 4, v.Search("*.py"))
	assert.Equal(t, 0, v.Search(""))
}

func TestFreezeSurvivesFilterChange(t *testing.T) {
	v := newViewer(t)
	require.NoError(t, v.Freeze())
	_, err := v.ToggleEdgeType(graphdoc.EdgeCalls)
	require.NoError(t, err)
	assert.Equal(t, layout.Frozen, v.Simulation().State())
	assert.True(t, v.Snapshot().Frozen)

	require.NoError(t, v.Unfreeze())
	assert.Equal(t, layout.Running, v.Simulation().State())
}

func TestUnfreezeReleasesHiddenNodes(t *testing.T) {
	v := newViewer(t)
	require.NoError(t, v.Freeze())
	_, err := v.ToggleNodeType(graphdoc.TypeModel)
	require.NoError(t, err)
	require.True(t, v.Document().Node("D").Body.Pinned)

	require.NoError(t, v.Unfreeze())
	_, err = v.ToggleNodeType(graphdoc.TypeModel)
	require.NoError(t, err)

	for _, n := range v.Document().Nodes {
		assert.False(t, n.Body.Pinned, "%s is pinned", n.ID)
	}
}

func TestWheelZooms(t *testing.T) {
	v := newViewer(t)
	k := v.Viewport().Transform().K
	v.Wheel(400, 300, -500)
	assert.Greater(t, v.Viewport().Transform().K, k)
}

func TestSnapshotAndPNG(t *testing.T) {
	v := newViewer(t)
	v.SetArrows(true)
	require.NoError(t, v.Select("B"))

	st := v.Snapshot()
	assert.True(t, st.Loaded)
	assert.Equal(t, "demo", st.RepoName)
	assert.Equal(t, 4, st.VisibleNodes)
	assert.Equal(t, 2, st.VisibleEdges)
	assert.Equal(t, "B", st.Selected)
	assert.Equal(t, "small", st.Band)
	assert.True(t, st.Arrows)
	assert.Empty(t, st.HiddenNodes)

	var buf bytes.Buffer
	require.NoError(t, v.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestOperationsWithoutDocument(t *testing.T) {
	v := New(Options{})
	assert.ErrorIs(t, v.Freeze(), ErrNoDocument)
	assert.ErrorIs(t, v.Select("A"), ErrNoDocument)
	_, err := v.ToggleNodeType("file")
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.False(t, v.FitView())
	v.Click(10, 10)
	assert.False(t, v.Snapshot().Loaded)
}
