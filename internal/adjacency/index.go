// Package adjacency builds directed lookup tables over a document's edges.
//
// The index is always built over the full edge set, independent of display
// filters, so insight queries can reference nodes that are currently hidden.
package adjacency

import "github.com/ziadkadry99/code-landscape/internal/graphdoc"

// Direction selects which table a traversal follows.
type Direction int

const (
	// Downstream follows outgoing edges (impact).
	Downstream Direction = iota
	// Upstream follows incoming edges (dependencies).
	Upstream
)

func (d Direction) String() string {
	if d == Upstream {
		return "upstream"
	}
	return "downstream"
}

// ParseDirection accepts "upstream"/"incoming" and "downstream"/"outgoing".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "upstream", "incoming", "in":
		return Upstream, true
	case "downstream", "outgoing", "out":
		return Downstream, true
	}
	return Downstream, false
}

// Link is one adjacency entry: the node at the other end and the edge type.
type Link struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Index holds outgoing and incoming links keyed by node id.
type Index struct {
	Outgoing map[string][]Link
	Incoming map[string][]Link
}

// Build constructs the index in O(len(edges)). Links keep edge order.
func Build(edges []graphdoc.Edge) *Index {
	idx := &Index{
		Outgoing: make(map[string][]Link),
		Incoming: make(map[string][]Link),
	}
	for _, e := range edges {
		idx.Outgoing[e.Source] = append(idx.Outgoing[e.Source], Link{ID: e.Target, Type: e.Type})
		idx.Incoming[e.Target] = append(idx.Incoming[e.Target], Link{ID: e.Source, Type: e.Type})
	}
	return idx
}

// Links returns the links of id in the given direction. Unknown ids yield
// nil.
func (idx *Index) Links(id string, dir Direction) []Link {
	if idx == nil {
		return nil
	}
	if dir == Upstream {
		return idx.Incoming[id]
	}
	return idx.Outgoing[id]
}

// Degree returns the number of links touching id in both directions.
func (idx *Index) Degree(id string) int {
	if idx == nil {
		return 0
	}
	return len(idx.Outgoing[id]) + len(idx.Incoming[id])
}
