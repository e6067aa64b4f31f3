package insight

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/code-landscape/internal/adjacency"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// abcDoc is A -imports-> B -calls-> C.
func abcDoc() *graphdoc.Document {
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "A", Label: "a.py", Type: graphdoc.TypeFile})
	b.AddNode(graphdoc.Node{ID: "B", Label: "B", Type: graphdoc.TypeClass})
	b.AddNode(graphdoc.Node{ID: "C", Label: "run", Type: graphdoc.TypeFunction})
	b.AddEdge(graphdoc.Edge{Source: "A", Target: "B", Type: graphdoc.EdgeImports})
	b.AddEdge(graphdoc.Edge{Source: "B", Target: "C", Type: graphdoc.EdgeCalls})
	return b.Build("abc")
}

func TestBFSFromA(t *testing.T) {
	idx := adjacency.Build(abcDoc().Edges)

	got, err := BFS(context.Background(), idx, "A", adjacency.Downstream, 2)
	require.NoError(t, err)
	assert.Equal(t, []Reach{
		{ID: "B", EdgeType: "imports", Depth: 1},
		{ID: "C", EdgeType: "calls", Depth: 2},
	}, got)

	got, err = BFS(context.Background(), idx, "A", adjacency.Downstream, 1)
	require.NoError(t, err)
	assert.Equal(t, []Reach{{ID: "B", EdgeType: "imports", Depth: 1}}, got)

	got, err = BFS(context.Background(), idx, "C", adjacency.Upstream, 6)
	require.NoError(t, err)
	assert.Equal(t, []Reach{
		{ID: "B", EdgeType: "calls", Depth: 1},
		{ID: "A", EdgeType: "imports", Depth: 2},
	}, got)
}

func TestLongestPathThroughB(t *testing.T) {
	idx := adjacency.Build(abcDoc().Edges)

	got, err := LongestPath(context.Background(), idx, "B", PathDepth)
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{ID: "A"},
		{ID: "B", EdgeType: "imports"},
		{ID: "C", EdgeType: "calls"},
	}, got)
}

func TestUnknownStartIsEmpty(t *testing.T) {
	idx := adjacency.Build(abcDoc().Edges)

	reach, err := BFS(context.Background(), idx, "nope", adjacency.Downstream, 5)
	require.NoError(t, err)
	assert.Empty(t, reach)
	assert.NotNil(t, reach)

	path, err := LongestPath(context.Background(), idx, "nope", 5)
	require.NoError(t, err)
	assert.Equal(t, []Step{{ID: "nope"}}, path)
}

// denseIndex builds a layered graph with cross links and back edges.
func denseIndex() *adjacency.Index {
	var edges []graphdoc.Edge
	for layer := 0; layer < 6; layer++ {
		for i := 0; i < 4; i++ {
			src := fmt.Sprintf("n%d_%d", layer, i)
			for j := 0; j < 4; j++ {
				if (i+j)%2 == 0 {
					edges = append(edges, graphdoc.Edge{Source: src, Target: fmt.Sprintf("n%d_%d", layer+1, j), Type: "calls"})
				}
			}
			edges = append(edges, graphdoc.Edge{Source: src, Target: "n0_0", Type: "uses"})
		}
	}
	return adjacency.Build(edges)
}

func TestBFSInvariants(t *testing.T) {
	idx := denseIndex()
	for _, maxDepth := range []int{1, 2, 3, 5, 8} {
		got, err := BFS(context.Background(), idx, "n0_0", adjacency.Downstream, maxDepth)
		require.NoError(t, err)

		seen := map[string]bool{}
		prev := 0
		for _, r := range got {
			assert.NotEqual(t, "n0_0", r.ID, "start is never reported")
			assert.False(t, seen[r.ID], "duplicate %s", r.ID)
			seen[r.ID] = true
			assert.GreaterOrEqual(t, r.Depth, prev, "depths are non-decreasing")
			assert.LessOrEqual(t, r.Depth, maxDepth)
			prev = r.Depth
		}
	}
}

func TestLongestFromIsBoundedSimplePath(t *testing.T) {
	idx := denseIndex()
	for _, maxDepth := range []int{1, 3, 4, 12} {
		got, err := LongestFrom(context.Background(), idx, "n0_0", adjacency.Downstream, maxDepth)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), maxDepth)

		onPath := map[string]bool{"n0_0": true}
		prev := "n0_0"
		for _, s := range got {
			assert.False(t, onPath[s.ID], "path revisits %s", s.ID)
			onPath[s.ID] = true

			found := false
			for _, l := range idx.Links(prev, adjacency.Downstream) {
				if l.ID == s.ID && l.Type == s.EdgeType {
					found = true
				}
			}
			assert.True(t, found, "%s -> %s is not an edge", prev, s.ID)
			prev = s.ID
		}
	}
}

func TestLongestFromFindsLongerBranch(t *testing.T) {
	// X reaches Y directly and through a longer chain; the visited set must
	// not stop the second branch from extending through Y.
	idx := adjacency.Build([]graphdoc.Edge{
		{Source: "X", Target: "Y", Type: "calls"},
		{Source: "X", Target: "P", Type: "calls"},
		{Source: "P", Target: "Q", Type: "calls"},
		{Source: "Q", Target: "Y", Type: "calls"},
		{Source: "Y", Target: "Z", Type: "calls"},
	})

	got, err := LongestFrom(context.Background(), idx, "X", adjacency.Downstream, 12)
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{ID: "P", EdgeType: "calls"},
		{ID: "Q", EdgeType: "calls"},
		{ID: "Y", EdgeType: "calls"},
		{ID: "Z", EdgeType: "calls"},
	}, got)
}

func TestLongestFromCycle(t *testing.T) {
	idx := adjacency.Build([]graphdoc.Edge{
		{Source: "A", Target: "B", Type: "calls"},
		{Source: "B", Target: "C", Type: "calls"},
		{Source: "C", Target: "A", Type: "calls"},
	})

	got, err := LongestFrom(context.Background(), idx, "A", adjacency.Downstream, 12)
	require.NoError(t, err)
	assert.Equal(t, []Step{{ID: "B", EdgeType: "calls"}, {ID: "C", EdgeType: "calls"}}, got)

	reach, err := BFS(context.Background(), idx, "A", adjacency.Downstream, 12)
	require.NoError(t, err)
	assert.Len(t, reach, 2)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BFS(ctx, denseIndex(), "n0_0", adjacency.Downstream, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	h.View("A")
	h.View("A")
	assert.Equal(t, 0, h.Len(), "viewing the current node pushes nothing")

	h.View("B")
	h.View("C")
	assert.Equal(t, []string{"A", "B"}, h.Entries())
	assert.Equal(t, "C", h.Current())

	id, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "B", id)
	assert.Equal(t, []string{"A"}, h.Entries(), "back does not push the node being left")

	h.Close()
	assert.Equal(t, "", h.Current())
	_, ok = h.Back()
	assert.False(t, ok)
}

func TestHistoryCapacity(t *testing.T) {
	h := NewHistory(2)
	for _, id := range []string{"A", "B", "C", "D"} {
		h.View(id)
	}
	assert.Equal(t, []string{"B", "C"}, h.Entries())
	assert.Equal(t, HistoryCapacity, NewHistory(0).capacity)
}

func TestVerbFor(t *testing.T) {
	assert.Equal(t, "imports", VerbFor("imports", adjacency.Downstream))
	assert.Equal(t, "imported by", VerbFor("imports", adjacency.Upstream))
	assert.Equal(t, "feeds", VerbFor("feeds", adjacency.Downstream))
	assert.Equal(t, "feeds (from)", VerbFor("feeds", adjacency.Upstream))
	assert.Equal(t, "linked", VerbFor("", adjacency.Downstream))
}

func TestDescribe(t *testing.T) {
	doc := abcDoc()
	eng := NewEngine(doc, Depths{})

	d, err := eng.Describe(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B", d.Node.ID)
	assert.Equal(t, 2, d.Degree)
	require.Len(t, d.Outgoing, 1)
	assert.Equal(t, "calls", d.Outgoing[0].Verb)
	assert.Equal(t, "run", d.Outgoing[0].Node.Label)
	require.Len(t, d.Incoming, 1)
	assert.Equal(t, "imported by", d.Incoming[0].Verb)
	assert.Equal(t, 1, d.Dependencies.Total)
	assert.Equal(t, 1, d.Impact.Total)
	require.Len(t, d.LongestPath, 3)
	assert.Equal(t, "a.py", d.LongestPath[0].Node.Label)

	_, err = eng.Describe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestDescribeIsolatedNode(t *testing.T) {
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "solo", Label: "solo", Type: graphdoc.TypeModule})
	eng := NewEngine(b.Build(""), DefaultDepths())

	d, err := eng.Describe(context.Background(), "solo")
	require.NoError(t, err)
	assert.Empty(t, d.Outgoing)
	assert.Empty(t, d.Incoming)
	assert.Zero(t, d.Dependencies.Total)
	assert.Empty(t, d.Impact.Groups)
	assert.Len(t, d.LongestPath, 1)
}

func TestSummarizeGroupsByDepthAndType(t *testing.T) {
	eng := NewEngine(abcDoc(), DefaultDepths())
	r := eng.summarize([]Reach{
		{ID: "B", EdgeType: "uses", Depth: 1},
		{ID: "C", EdgeType: "calls", Depth: 1},
		{ID: "A", EdgeType: "calls", Depth: 2},
	})
	require.Len(t, r.Groups, 3)
	assert.Equal(t, "calls", r.Groups[0].EdgeType)
	assert.Equal(t, "uses", r.Groups[1].EdgeType)
	assert.Equal(t, 2, r.Groups[2].Depth)
}
