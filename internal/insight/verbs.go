package insight

import (
	"strings"

	"github.com/ziadkadry99/code-landscape/internal/adjacency"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

type verbPair struct {
	out string
	in  string
}

var verbs = map[string]verbPair{
	graphdoc.EdgeImports:         {out: "imports", in: "imported by"},
	graphdoc.EdgeCalls:           {out: "calls", in: "called by"},
	graphdoc.EdgeInherits:        {out: "inherits from", in: "inherited by"},
	graphdoc.EdgeEndpointHandler: {out: "handles", in: "handled by"},
	graphdoc.EdgeDBRead:          {out: "reads", in: "read by"},
	graphdoc.EdgeDBWrite:         {out: "writes", in: "written by"},
	graphdoc.EdgeAPICall:         {out: "calls API", in: "API called by"},
	graphdoc.EdgeUses:            {out: "uses", in: "used by"},
	graphdoc.EdgeMiddlewareChain: {out: "chains to", in: "chained from"},
}

// VerbFor phrases an edge type from the point of view of the selected node.
// Downstream reads "A <verb> B", upstream reads "A <verb> B" with the edge
// pointing at A. Unknown types fall back to a generic phrase.
func VerbFor(edgeType string, dir adjacency.Direction) string {
	if v, ok := verbs[edgeType]; ok {
		if dir == adjacency.Upstream {
			return v.in
		}
		return v.out
	}
	name := strings.ReplaceAll(edgeType, "_", " ")
	if name == "" {
		name = "linked"
	}
	if dir == adjacency.Upstream {
		return name + " (from)"
	}
	return name
}
