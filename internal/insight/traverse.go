// Package insight answers dependency, impact and longest-path questions about
// a node using the adjacency index of the full document.
//
// All traversals are bounded by depth so they can run synchronously on node
// selection. Unknown ids produce empty results, never errors; the only error
// a traversal returns is a context error, together with the partial result.
package insight

import (
	"context"

	"github.com/ziadkadry99/code-landscape/internal/adjacency"
)

// Default traversal bounds.
const (
	DependencyDepth = 6
	ImpactDepth     = 8
	PathDepth       = 12
)

// contextCheckInterval is how many expansions run between context checks.
const contextCheckInterval = 256

// Reach is one node discovered by BFS: the node, the type of the edge it was
// first reached through, and its hop distance from the start.
type Reach struct {
	ID       string `json:"id"`
	EdgeType string `json:"edge_type"`
	Depth    int    `json:"depth"`
}

// Step is one hop of a path: the node reached and the edge type used.
type Step struct {
	ID       string `json:"id"`
	EdgeType string `json:"edge_type"`
}

// BFS walks the index level by level from start, up to maxDepth hops. The
// visited set is global and seeded with start, so every node appears at most
// once, at its shortest hop distance, and depths are non-decreasing in the
// returned order.
func BFS(ctx context.Context, idx *adjacency.Index, start string, dir adjacency.Direction, maxDepth int) ([]Reach, error) {
	type queued struct {
		id    string
		depth int
	}

	result := make([]Reach, 0)
	visited := map[string]bool{start: true}
	queue := []queued{{id: start}}

	for n := 0; len(queue) > 0; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}

		for _, link := range idx.Links(cur.id, dir) {
			if visited[link.ID] {
				continue
			}
			visited[link.ID] = true
			result = append(result, Reach{ID: link.ID, EdgeType: link.Type, Depth: cur.depth + 1})
			queue = append(queue, queued{id: link.ID, depth: cur.depth + 1})
		}
	}
	return result, nil
}

// Dependencies lists what start depends on (upstream, incoming edges).
func Dependencies(ctx context.Context, idx *adjacency.Index, start string) ([]Reach, error) {
	return BFS(ctx, idx, start, adjacency.Upstream, DependencyDepth)
}

// Impact lists what depends on start (downstream, outgoing edges).
func Impact(ctx context.Context, idx *adjacency.Index, start string) ([]Reach, error) {
	return BFS(ctx, idx, start, adjacency.Downstream, ImpactDepth)
}

// LongestFrom returns the longest simple path leaving start in the given
// direction, at most maxDepth steps long. Sibling branches do not share a
// visited set: only the nodes on the current path are excluded, so a node
// seen on one branch can still extend another. Among equally long paths the
// first one in depth-first order wins.
//
// The search is exponential in the worst case and is bounded only by
// maxDepth and the branching factor. It uses an explicit stack.
func LongestFrom(ctx context.Context, idx *adjacency.Index, start string, dir adjacency.Direction, maxDepth int) ([]Step, error) {
	if maxDepth <= 0 {
		return []Step{}, nil
	}

	type frame struct {
		links []adjacency.Link
		next  int
	}

	onPath := map[string]bool{start: true}
	path := make([]Step, 0, maxDepth)
	best := []Step{}
	stack := []frame{{links: idx.Links(start, dir)}}

	for n := 0; len(stack) > 0; {
		depth := len(stack) - 1
		top := &stack[depth]

		if depth >= maxDepth || top.next >= len(top.links) {
			stack = stack[:depth]
			if depth > 0 {
				last := path[len(path)-1]
				delete(onPath, last.ID)
				path = path[:len(path)-1]
			}
			continue
		}

		link := top.links[top.next]
		top.next++
		if onPath[link.ID] {
			continue
		}

		n++
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return best, err
			}
		}

		onPath[link.ID] = true
		path = append(path, Step{ID: link.ID, EdgeType: link.Type})
		if len(path) > len(best) {
			best = append(make([]Step, 0, len(path)), path...)
			if len(best) == maxDepth {
				return best, nil
			}
		}
		stack = append(stack, frame{links: idx.Links(link.ID, dir)})
	}
	return best, nil
}

// LongestPath builds the longest end-to-end timeline through start: the
// longest upstream path reversed, then start, then the longest downstream
// path. Each entry's EdgeType is the type of the edge arriving from the
// previous entry; the first entry has none.
func LongestPath(ctx context.Context, idx *adjacency.Index, start string, maxDepth int) ([]Step, error) {
	up, err := LongestFrom(ctx, idx, start, adjacency.Upstream, maxDepth)
	if err != nil {
		return nil, err
	}
	down, err := LongestFrom(ctx, idx, start, adjacency.Downstream, maxDepth)
	if err != nil {
		return nil, err
	}

	timeline := make([]Step, 0, len(up)+1+len(down))
	for i := len(up) - 1; i >= 0; i-- {
		via := ""
		if i+1 < len(up) {
			via = up[i+1].EdgeType
		}
		timeline = append(timeline, Step{ID: up[i].ID, EdgeType: via})
	}

	startVia := ""
	if len(up) > 0 {
		startVia = up[0].EdgeType
	}
	timeline = append(timeline, Step{ID: start, EdgeType: startVia})
	timeline = append(timeline, down...)
	return timeline, nil
}
