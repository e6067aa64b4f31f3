package layout

import "math"

// maxQuadDepth bounds subdivision; points that still share a cell at this
// depth are kept together in one leaf.
const maxQuadDepth = 32

type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	points         []int
	leaf           bool

	// Accumulated by the forces that use the tree.
	cx, cy   float64
	strength float64
	r        float64
}

// quadtree is a point-region quadtree over the coordinates xs, ys.
type quadtree struct {
	xs, ys []float64
	root   *quad
}

func newQuadtree(xs, ys []float64) *quadtree {
	t := &quadtree{xs: xs, ys: ys}
	if len(xs) == 0 {
		return t
	}

	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x0, x1 = math.Min(x0, xs[i]), math.Max(x1, xs[i])
		y0, y1 = math.Min(y0, ys[i]), math.Max(y1, ys[i])
	}
	size := math.Max(math.Max(x1-x0, y1-y0), 1)
	t.root = &quad{x0: x0, y0: y0, x1: x0 + size, y1: y0 + size, leaf: true}

	for i := range xs {
		t.insert(t.root, i, 0)
	}
	return t
}

func (t *quadtree) insert(q *quad, i, depth int) {
	for {
		if !q.leaf {
			q = t.child(q, i)
			depth++
			continue
		}
		if len(q.points) == 0 || depth >= maxQuadDepth || t.coincident(q.points[0], i) {
			q.points = append(q.points, i)
			return
		}
		existing := q.points
		q.points = nil
		q.leaf = false
		for _, p := range existing {
			t.insert(t.child(q, p), p, depth+1)
		}
		q = t.child(q, i)
		depth++
	}
}

func (t *quadtree) coincident(a, b int) bool {
	return t.xs[a] == t.xs[b] && t.ys[a] == t.ys[b]
}

// child returns the quadrant of q containing point i, creating it on demand.
func (t *quadtree) child(q *quad, i int) *quad {
	mx, my := (q.x0+q.x1)/2, (q.y0+q.y1)/2
	k := 0
	if t.xs[i] >= mx {
		k |= 1
	}
	if t.ys[i] >= my {
		k |= 2
	}
	if q.children[k] == nil {
		c := &quad{x0: q.x0, y0: q.y0, x1: mx, y1: my, leaf: true}
		if k&1 != 0 {
			c.x0, c.x1 = mx, q.x1
		}
		if k&2 != 0 {
			c.y0, c.y1 = my, q.y1
		}
		q.children[k] = c
	}
	return q.children[k]
}

// postOrder visits children before their parent.
func (q *quad) postOrder(fn func(*quad)) {
	if q == nil {
		return
	}
	for _, c := range q.children {
		c.postOrder(fn)
	}
	fn(q)
}

// visit walks the tree top-down; returning true from fn skips the children.
func (q *quad) visit(fn func(*quad) bool) {
	if q == nil {
		return
	}
	if fn(q) {
		return
	}
	for _, c := range q.children {
		c.visit(fn)
	}
}
