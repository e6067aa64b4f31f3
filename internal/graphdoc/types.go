// Package graphdoc defines the graph document exchanged with the analysis
// backend and with save/load files.
//
// A Document is an arena: Nodes and Edges are never reallocated after load,
// so views built by the visibility filter and the layout simulation can hold
// indexes and pointers into them for the lifetime of the document.
package graphdoc

// Node is a code entity. Degree is supplied by the analyzer and is treated as
// opaque input; it is never recomputed from the edge list here.
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	FilePath   string         `json:"file_path,omitempty"`
	LineNumber int            `json:"line_number,omitempty"`
	Degree     int            `json:"degree"`
	Metadata   map[string]any `json:"metadata,omitempty"`

	// Body holds simulation state. It is owned by the layout engine and
	// the drag interaction and is not serialized.
	Body Body `json:"-"`
}

// Body is the mutable physical state of a node.
type Body struct {
	X, Y   float64
	VX, VY float64
	// Placed is false until the layout engine assigns a position.
	Placed bool

	FX, FY float64
	Pinned bool
}

// Pin fixes the body at (x, y).
func (b *Body) Pin(x, y float64) {
	b.FX, b.FY = x, y
	b.Pinned = true
}

// Unpin releases a pinned body.
func (b *Body) Unpin() {
	b.FX, b.FY = 0, 0
	b.Pinned = false
}

// Edge is a directed, typed relationship between two nodes.
type Edge struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Stats holds summary counts over the full document.
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
}

// Document is the complete graph produced by one analysis or load.
type Document struct {
	Nodes          []Node            `json:"nodes"`
	Edges          []Edge            `json:"edges"`
	NodeColors     map[string]string `json:"node_colors"`
	EdgeColors     map[string]string `json:"edge_colors"`
	NodeTypeCounts map[string]int    `json:"node_type_counts"`
	EdgeTypeCounts map[string]int    `json:"edge_type_counts"`
	Stats          Stats             `json:"stats"`
	RepoName       string            `json:"repo_name,omitempty"`

	byID map[string]int
}

// DefaultFilename is used when the document carries no repo name.
const DefaultFilename = "code_graph"

// Filename returns the download name for a saved document.
func (d *Document) Filename() string {
	if d.RepoName == "" {
		return DefaultFilename + ".json"
	}
	return d.RepoName + ".json"
}

// NodeIndex returns the arena index of the node with the given id.
func (d *Document) NodeIndex(id string) (int, bool) {
	if d.byID != nil {
		i, ok := d.byID[id]
		return i, ok
	}
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Node returns the node with the given id, or nil.
func (d *Document) Node(id string) *Node {
	i, ok := d.NodeIndex(id)
	if !ok {
		return nil
	}
	return &d.Nodes[i]
}

// NodeColor returns the color for a node type, falling back to the default
// palette and finally to FallbackColor.
func (d *Document) NodeColor(nodeType string) string {
	if c, ok := d.NodeColors[nodeType]; ok && c != "" {
		return c
	}
	return DefaultNodeColor(nodeType)
}

// EdgeColor returns the color for an edge type with the same fallbacks as
// NodeColor.
func (d *Document) EdgeColor(edgeType string) string {
	if c, ok := d.EdgeColors[edgeType]; ok && c != "" {
		return c
	}
	return DefaultEdgeColor(edgeType)
}

// ResetBodies clears all simulation state, leaving every node unplaced.
func (d *Document) ResetBodies() {
	for i := range d.Nodes {
		d.Nodes[i].Body = Body{}
	}
}
