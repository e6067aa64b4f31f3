package insight

import (
	"context"
	"errors"
	"sort"

	"github.com/ziadkadry99/code-landscape/internal/adjacency"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// ErrUnknownNode is returned by Describe when the id is not in the document.
var ErrUnknownNode = errors.New("unknown node")

// Depths bounds the traversals behind a detail view.
type Depths struct {
	Dependencies int `json:"dependencies"`
	Impact       int `json:"impact"`
	Path         int `json:"path"`
}

// DefaultDepths returns the standard traversal bounds.
func DefaultDepths() Depths {
	return Depths{Dependencies: DependencyDepth, Impact: ImpactDepth, Path: PathDepth}
}

func (d Depths) withDefaults() Depths {
	def := DefaultDepths()
	if d.Dependencies <= 0 {
		d.Dependencies = def.Dependencies
	}
	if d.Impact <= 0 {
		d.Impact = def.Impact
	}
	if d.Path <= 0 {
		d.Path = def.Path
	}
	return d
}

// NodeRef is the displayable part of a node.
type NodeRef struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	FilePath string `json:"file_path,omitempty"`
	Line     int    `json:"line_number,omitempty"`
}

// Connection is one direct link of the described node phrased with a verb.
type Connection struct {
	Node     NodeRef `json:"node"`
	EdgeType string  `json:"edge_type"`
	Verb     string  `json:"verb"`
}

// Group collects reached nodes that share a depth and an edge type.
type Group struct {
	Depth    int       `json:"depth"`
	EdgeType string    `json:"edge_type"`
	Nodes    []NodeRef `json:"nodes"`
}

// Reachability summarizes one BFS.
type Reachability struct {
	Total  int       `json:"total"`
	Groups []Group   `json:"groups"`
	Nodes  []NodeRef `json:"-"`
}

// PathEntry is one stop on the longest path.
type PathEntry struct {
	Node     NodeRef `json:"node"`
	EdgeType string  `json:"edge_type,omitempty"`
}

// Detail is everything the detail panel shows for a node.
type Detail struct {
	Node         NodeRef      `json:"node"`
	Degree       int          `json:"degree"`
	Outgoing     []Connection `json:"outgoing"`
	Incoming     []Connection `json:"incoming"`
	Dependencies Reachability `json:"dependencies"`
	Impact       Reachability `json:"impact"`
	LongestPath  []PathEntry  `json:"longest_path"`
}

// Engine answers insight queries over one immutable document.
type Engine struct {
	doc    *graphdoc.Document
	idx    *adjacency.Index
	depths Depths
}

// NewEngine builds the adjacency index for doc. A nil doc yields an engine
// that knows no nodes.
func NewEngine(doc *graphdoc.Document, depths Depths) *Engine {
	if doc == nil {
		doc = &graphdoc.Document{}
	}
	return &Engine{doc: doc, idx: adjacency.Build(doc.Edges), depths: depths.withDefaults()}
}

// Document returns the document the engine was built over.
func (e *Engine) Document() *graphdoc.Document { return e.doc }

// Index returns the adjacency index.
func (e *Engine) Index() *adjacency.Index { return e.idx }

// Depths returns the configured traversal bounds.
func (e *Engine) Depths() Depths { return e.depths }

// Ref resolves id to a displayable reference. Ids missing from the document
// keep the id as their label.
func (e *Engine) Ref(id string) NodeRef {
	n := e.doc.Node(id)
	if n == nil {
		return NodeRef{ID: id, Label: id}
	}
	return NodeRef{ID: n.ID, Label: n.Label, Type: n.Type, FilePath: n.FilePath, Line: n.LineNumber}
}

// Dependencies runs the upstream BFS with the configured depth.
func (e *Engine) Dependencies(ctx context.Context, id string) ([]Reach, error) {
	return BFS(ctx, e.idx, id, adjacency.Upstream, e.depths.Dependencies)
}

// Impact runs the downstream BFS with the configured depth.
func (e *Engine) Impact(ctx context.Context, id string) ([]Reach, error) {
	return BFS(ctx, e.idx, id, adjacency.Downstream, e.depths.Impact)
}

// LongestPath returns the timeline through id with the configured depth.
func (e *Engine) LongestPath(ctx context.Context, id string) ([]Step, error) {
	return LongestPath(ctx, e.idx, id, e.depths.Path)
}

// Describe composes the detail view of id.
func (e *Engine) Describe(ctx context.Context, id string) (*Detail, error) {
	return Describe(ctx, e.doc, e.idx, id, e.depths)
}

// Describe composes the detail view of id from doc and its index. A node
// without links yields empty sections.
func Describe(ctx context.Context, doc *graphdoc.Document, idx *adjacency.Index, id string, depths Depths) (*Detail, error) {
	node := doc.Node(id)
	if node == nil {
		return nil, ErrUnknownNode
	}
	depths = depths.withDefaults()
	e := &Engine{doc: doc, idx: idx, depths: depths}

	d := &Detail{
		Node:     e.Ref(id),
		Degree:   node.Degree,
		Outgoing: e.connections(id, adjacency.Downstream),
		Incoming: e.connections(id, adjacency.Upstream),
	}

	deps, err := e.Dependencies(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Dependencies = e.summarize(deps)

	impact, err := e.Impact(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Impact = e.summarize(impact)

	path, err := e.LongestPath(ctx, id)
	if err != nil {
		return nil, err
	}
	d.LongestPath = make([]PathEntry, 0, len(path))
	for _, s := range path {
		d.LongestPath = append(d.LongestPath, PathEntry{Node: e.Ref(s.ID), EdgeType: s.EdgeType})
	}
	return d, nil
}

func (e *Engine) connections(id string, dir adjacency.Direction) []Connection {
	links := e.idx.Links(id, dir)
	out := make([]Connection, 0, len(links))
	for _, l := range links {
		out = append(out, Connection{Node: e.Ref(l.ID), EdgeType: l.Type, Verb: VerbFor(l.Type, dir)})
	}
	return out
}

// summarize groups BFS results by depth, then by edge type in name order.
func (e *Engine) summarize(reached []Reach) Reachability {
	r := Reachability{Total: len(reached), Groups: []Group{}, Nodes: make([]NodeRef, 0, len(reached))}
	type key struct {
		depth    int
		edgeType string
	}
	pos := make(map[key]int)
	for _, re := range reached {
		ref := e.Ref(re.ID)
		r.Nodes = append(r.Nodes, ref)
		k := key{re.Depth, re.EdgeType}
		i, ok := pos[k]
		if !ok {
			i = len(r.Groups)
			pos[k] = i
			r.Groups = append(r.Groups, Group{Depth: re.Depth, EdgeType: re.EdgeType})
		}
		r.Groups[i].Nodes = append(r.Groups[i].Nodes, ref)
	}
	sort.SliceStable(r.Groups, func(a, b int) bool {
		if r.Groups[a].Depth != r.Groups[b].Depth {
			return r.Groups[a].Depth < r.Groups[b].Depth
		}
		return r.Groups[a].EdgeType < r.Groups[b].EdgeType
	})
	return r
}
