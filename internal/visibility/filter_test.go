package visibility

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

func abcDoc() *graphdoc.Document {
	b := graphdoc.NewBuilder()
	b.AddNode(graphdoc.Node{ID: "A", Type: graphdoc.TypeFile})
	b.AddNode(graphdoc.Node{ID: "B", Type: graphdoc.TypeClass})
	b.AddNode(graphdoc.Node{ID: "C", Type: graphdoc.TypeFunction})
	b.AddEdge(graphdoc.Edge{Source: "A", Target: "B", Type: graphdoc.EdgeImports})
	b.AddEdge(graphdoc.Edge{Source: "B", Target: "C", Type: graphdoc.EdgeCalls})
	return b.Build("abc")
}

func mixedDoc() *graphdoc.Document {
	types := []string{graphdoc.TypeFile, graphdoc.TypeClass, graphdoc.TypeFunction, graphdoc.TypeModel}
	edgeTypes := []string{graphdoc.EdgeImports, graphdoc.EdgeCalls, graphdoc.EdgeUses}
	b := graphdoc.NewBuilder()
	for i := 0; i < 40; i++ {
		b.AddNode(graphdoc.Node{ID: fmt.Sprintf("n%d", i), Type: types[i%len(types)]})
	}
	for i := 0; i < 40; i++ {
		for _, j := range []int{(i + 1) % 40, (i * 7) % 40} {
			b.AddEdge(graphdoc.Edge{
				Source: fmt.Sprintf("n%d", i),
				Target: fmt.Sprintf("n%d", j),
				Type:   edgeTypes[(i+j)%len(edgeTypes)],
			})
		}
	}
	return b.Build("mixed")
}

func TestApplyNoHiddenShowsEverything(t *testing.T) {
	doc := abcDoc()
	v := Apply(doc, Hidden{})
	assert.Equal(t, []int{0, 1, 2}, v.Nodes)
	assert.Equal(t, []int{0, 1}, v.Edges)
}

func TestHidingFunctionRemovesNodeAndEdge(t *testing.T) {
	doc := abcDoc()
	v := Apply(doc, NewHidden([]string{graphdoc.TypeFunction}, nil))

	require.Len(t, v.Nodes, 2)
	for _, n := range v.NodePointers(doc) {
		assert.NotEqual(t, "C", n.ID)
	}
	edges := v.EdgeValues(doc)
	require.Len(t, edges, 1)
	assert.Equal(t, "A", edges[0].Source)
	assert.Equal(t, "B", edges[0].Target)
}

func TestHidingEdgeTypeKeepsNodes(t *testing.T) {
	doc := abcDoc()
	v := Apply(doc, NewHidden(nil, []string{graphdoc.EdgeImports}))
	assert.Len(t, v.Nodes, 3)
	edges := v.EdgeValues(doc)
	require.Len(t, edges, 1)
	assert.Equal(t, graphdoc.EdgeCalls, edges[0].Type)
}

func TestVisibleEdgesHaveVisibleEndpoints(t *testing.T) {
	doc := mixedDoc()
	hiddenSets := []Hidden{
		{},
		NewHidden([]string{graphdoc.TypeClass}, nil),
		NewHidden([]string{graphdoc.TypeFile, graphdoc.TypeModel}, []string{graphdoc.EdgeUses}),
		NewHidden(nil, []string{graphdoc.EdgeCalls, graphdoc.EdgeImports}),
	}
	for _, h := range hiddenSets {
		v := Apply(doc, h)
		visible := map[string]bool{}
		for _, n := range v.NodePointers(doc) {
			assert.False(t, h.NodeHidden(n.Type))
			visible[n.ID] = true
		}
		for _, e := range v.EdgeValues(doc) {
			assert.True(t, visible[e.Source], "source %s not visible", e.Source)
			assert.True(t, visible[e.Target], "target %s not visible", e.Target)
			assert.False(t, h.EdgeHidden(e.Type))
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	doc := mixedDoc()
	h := NewHidden([]string{graphdoc.TypeFunction}, []string{graphdoc.EdgeUses})

	once := Apply(doc, h)
	twice := once.Apply(doc, h)
	assert.Equal(t, once, twice)
	assert.Equal(t, once, Apply(doc, h))
}

func TestFilteringSharesNodeValues(t *testing.T) {
	doc := abcDoc()
	v := Apply(doc, Hidden{})
	ptrs := v.NodePointers(doc)
	ptrs[0].Body.X = 42
	ptrs[0].Body.Placed = true

	v2 := Apply(doc, NewHidden([]string{graphdoc.TypeClass}, nil))
	assert.Equal(t, 42.0, v2.NodePointers(doc)[0].Body.X)
	assert.Equal(t, 2, doc.Nodes[1].Degree, "degree reflects the full document")
}

func TestToggleAndClone(t *testing.T) {
	var h Hidden
	assert.True(t, h.ToggleNodeType("file"))
	assert.True(t, h.ToggleEdgeType("calls"))

	c := h.Clone()
	assert.False(t, h.ToggleNodeType("file"))
	assert.True(t, c.NodeHidden("file"), "clone must be independent")

	nodes, edges := c.Lists()
	assert.Equal(t, []string{"file"}, nodes)
	assert.Equal(t, []string{"calls"}, edges)
}
