package graphdoc

// Builder assembles a Document the way the analysis backend does: nodes are
// deduplicated by id, edges are resolved against the final node set, and
// degree and per-type counts are computed over the full edge list.
type Builder struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// AddNode adds n unless a node with the same id already exists. The first
// node added for an id wins.
func (b *Builder) AddNode(n Node) {
	if _, ok := b.index[n.ID]; ok {
		return
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

// AddEdge adds e only if both endpoints already exist.
func (b *Builder) AddEdge(e Edge) {
	_, okSrc := b.index[e.Source]
	_, okDst := b.index[e.Target]
	if okSrc && okDst {
		b.edges = append(b.edges, e)
	}
}

// AddEdgeDeferred adds e without checking its endpoints. Call ResolveEdges
// before Build.
func (b *Builder) AddEdgeDeferred(e Edge) {
	b.edges = append(b.edges, e)
}

// ResolveEdges drops edges with unknown endpoints and duplicate
// (source, target, type) triples, keeping first occurrences.
func (b *Builder) ResolveEdges() {
	type key struct{ src, dst, typ string }
	seen := make(map[key]bool, len(b.edges))
	valid := b.edges[:0]
	for _, e := range b.edges {
		_, okSrc := b.index[e.Source]
		_, okDst := b.index[e.Target]
		k := key{e.Source, e.Target, e.Type}
		if okSrc && okDst && !seen[k] {
			valid = append(valid, e)
			seen[k] = true
		}
	}
	b.edges = valid
}

// Build produces the document. Degree counts every edge touching a node.
func (b *Builder) Build(repoName string) *Document {
	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	edges := make([]Edge, len(b.edges))
	copy(edges, b.edges)

	degree := make(map[string]int, len(nodes))
	edgeCounts := make(map[string]int)
	for _, e := range edges {
		degree[e.Source]++
		degree[e.Target]++
		edgeCounts[e.Type]++
	}

	nodeCounts := make(map[string]int)
	byID := make(map[string]int, len(nodes))
	for i := range nodes {
		nodes[i].Degree = degree[nodes[i].ID]
		nodeCounts[nodes[i].Type]++
		byID[nodes[i].ID] = i
	}

	return &Document{
		Nodes:          nodes,
		Edges:          edges,
		NodeColors:     DefaultNodeColors(),
		EdgeColors:     DefaultEdgeColors(),
		NodeTypeCounts: nodeCounts,
		EdgeTypeCounts: edgeCounts,
		Stats:          Stats{TotalNodes: len(nodes), TotalEdges: len(edges)},
		RepoName:       repoName,
		byID:           byID,
	}
}
