package adjacency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

func TestBuild(t *testing.T) {
	edges := []graphdoc.Edge{
		{Source: "A", Target: "B", Type: "imports"},
		{Source: "B", Target: "C", Type: "calls"},
		{Source: "A", Target: "B", Type: "calls"},
	}
	idx := Build(edges)

	assert.Equal(t, []Link{{ID: "B", Type: "imports"}, {ID: "B", Type: "calls"}}, idx.Links("A", Downstream))
	assert.Equal(t, []Link{{ID: "A", Type: "imports"}, {ID: "A", Type: "calls"}}, idx.Links("B", Upstream))
	assert.Equal(t, []Link{{ID: "B", Type: "calls"}}, idx.Links("C", Upstream))
	assert.Empty(t, idx.Links("C", Downstream))
	assert.Empty(t, idx.Links("missing", Upstream))
	assert.Equal(t, 3, idx.Degree("B"))
}

func TestNilIndex(t *testing.T) {
	var idx *Index
	assert.Nil(t, idx.Links("A", Downstream))
	assert.Zero(t, idx.Degree("A"))
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"upstream": Upstream, "incoming": Upstream, "in": Upstream,
		"downstream": Downstream, "outgoing": Downstream, "out": Downstream,
	} {
		got, ok := ParseDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, "upstream", Upstream.String())
}
