// Package visibility derives the visible node and edge subsets of a document
// from the sets of hidden node and edge types.
package visibility

import (
	"sort"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// Hidden holds the type tags currently excluded from display.
type Hidden struct {
	NodeTypes map[string]bool `json:"node_types"`
	EdgeTypes map[string]bool `json:"edge_types"`
}

// NewHidden returns a Hidden set with the given node and edge types hidden.
func NewHidden(nodeTypes, edgeTypes []string) Hidden {
	h := Hidden{NodeTypes: map[string]bool{}, EdgeTypes: map[string]bool{}}
	for _, t := range nodeTypes {
		h.NodeTypes[t] = true
	}
	for _, t := range edgeTypes {
		h.EdgeTypes[t] = true
	}
	return h
}

// NodeHidden reports whether nodes of type t are hidden.
func (h Hidden) NodeHidden(t string) bool { return h.NodeTypes[t] }

// EdgeHidden reports whether edges of type t are hidden.
func (h Hidden) EdgeHidden(t string) bool { return h.EdgeTypes[t] }

// ToggleNodeType flips the hidden state of a node type and returns the new
// state.
func (h *Hidden) ToggleNodeType(t string) bool {
	if h.NodeTypes == nil {
		h.NodeTypes = map[string]bool{}
	}
	if h.NodeTypes[t] {
		delete(h.NodeTypes, t)
		return false
	}
	h.NodeTypes[t] = true
	return true
}

// ToggleEdgeType flips the hidden state of an edge type and returns the new
// state.
func (h *Hidden) ToggleEdgeType(t string) bool {
	if h.EdgeTypes == nil {
		h.EdgeTypes = map[string]bool{}
	}
	if h.EdgeTypes[t] {
		delete(h.EdgeTypes, t)
		return false
	}
	h.EdgeTypes[t] = true
	return true
}

// Clone returns an independent copy.
func (h Hidden) Clone() Hidden {
	out := Hidden{
		NodeTypes: make(map[string]bool, len(h.NodeTypes)),
		EdgeTypes: make(map[string]bool, len(h.EdgeTypes)),
	}
	for k, v := range h.NodeTypes {
		if v {
			out.NodeTypes[k] = true
		}
	}
	for k, v := range h.EdgeTypes {
		if v {
			out.EdgeTypes[k] = true
		}
	}
	return out
}

// Lists returns the hidden node and edge types in sorted order.
func (h Hidden) Lists() (nodeTypes, edgeTypes []string) {
	for k, v := range h.NodeTypes {
		if v {
			nodeTypes = append(nodeTypes, k)
		}
	}
	for k, v := range h.EdgeTypes {
		if v {
			edgeTypes = append(edgeTypes, k)
		}
	}
	sort.Strings(nodeTypes)
	sort.Strings(edgeTypes)
	return nodeTypes, edgeTypes
}

// View is a filtered view over a document arena. Nodes and Edges hold arena
// indexes in document order; the node and edge values themselves are shared
// with the document.
type View struct {
	Nodes []int
	Edges []int
}

// Apply filters the full document.
func Apply(doc *graphdoc.Document, h Hidden) View {
	nodes := make([]int, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		nodes = append(nodes, i)
	}
	edges := make([]int, 0, len(doc.Edges))
	for i := range doc.Edges {
		edges = append(edges, i)
	}
	return View{Nodes: nodes, Edges: edges}.Apply(doc, h)
}

// Apply filters the subset described by v. Applying the same Hidden set to
// its own output yields the same view.
func (v View) Apply(doc *graphdoc.Document, h Hidden) View {
	visible := make(map[string]bool, len(v.Nodes))
	nodes := make([]int, 0, len(v.Nodes))
	for _, i := range v.Nodes {
		n := &doc.Nodes[i]
		if h.NodeHidden(n.Type) {
			continue
		}
		visible[n.ID] = true
		nodes = append(nodes, i)
	}

	edges := make([]int, 0, len(v.Edges))
	for _, i := range v.Edges {
		e := &doc.Edges[i]
		if !visible[e.Source] || !visible[e.Target] || h.EdgeHidden(e.Type) {
			continue
		}
		edges = append(edges, i)
	}
	return View{Nodes: nodes, Edges: edges}
}

// NodePointers resolves the view's node indexes to arena pointers.
func (v View) NodePointers(doc *graphdoc.Document) []*graphdoc.Node {
	out := make([]*graphdoc.Node, len(v.Nodes))
	for k, i := range v.Nodes {
		out[k] = &doc.Nodes[i]
	}
	return out
}

// EdgeValues resolves the view's edge indexes.
func (v View) EdgeValues(doc *graphdoc.Document) []graphdoc.Edge {
	out := make([]graphdoc.Edge, len(v.Edges))
	for k, i := range v.Edges {
		out[k] = doc.Edges[i]
	}
	return out
}
