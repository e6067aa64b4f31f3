package layout

import "math"

const distanceMin2 = 1.0

// force mutates velocities (or positions, for centering) once per tick.
type force interface {
	apply(s *Simulation, alpha float64)
}

// manyBody is Barnes–Hut n-body repulsion.
type manyBody struct {
	strength    float64
	theta2      float64
	distanceMax float64
}

func (f *manyBody) apply(s *Simulation, alpha float64) {
	n := len(s.ptrs)
	if n == 0 {
		return
	}
	xs, ys := s.scratchPositions(false)
	tree := newQuadtree(xs, ys)

	tree.root.postOrder(func(q *quad) {
		if q.leaf {
			q.cx, q.cy = xs[q.points[0]], ys[q.points[0]]
			q.strength = f.strength * float64(len(q.points))
			return
		}
		var sx, sy, weight, total float64
		for _, c := range q.children {
			if c == nil {
				continue
			}
			w := math.Abs(c.strength)
			total += c.strength
			weight += w
			sx += w * c.cx
			sy += w * c.cy
		}
		q.strength = total
		if weight > 0 {
			q.cx, q.cy = sx/weight, sy/weight
		}
	})

	max2 := f.distanceMax * f.distanceMax
	for i := 0; i < n; i++ {
		b := &s.ptrs[i].Body
		xi, yi := xs[i], ys[i]
		tree.root.visit(func(q *quad) bool {
			dx, dy := q.cx-xi, q.cy-yi
			w := q.x1 - q.x0
			l := dx*dx + dy*dy

			if w*w/f.theta2 < l {
				if l < max2 {
					if l < distanceMin2 {
						l = math.Sqrt(distanceMin2 * l)
					}
					b.VX += dx * q.strength * alpha / l
					b.VY += dy * q.strength * alpha / l
				}
				return true
			}
			if !q.leaf {
				return false
			}
			if l >= max2 {
				return true
			}
			for _, j := range q.points {
				if j == i {
					continue
				}
				dx, dy := xs[j]-xi, ys[j]-yi
				if dx == 0 {
					dx = s.jiggle()
				}
				if dy == 0 {
					dy = s.jiggle()
				}
				l := dx*dx + dy*dy
				if l < distanceMin2 {
					l = math.Sqrt(distanceMin2 * l)
				}
				b.VX += dx * f.strength * alpha / l
				b.VY += dy * f.strength * alpha / l
			}
			return true
		})
	}
}

// link pulls connected nodes toward a rest distance. Each side moves in
// proportion to the other endpoint's link count.
type link struct {
	links    []Link
	distance float64
	strength []float64
	bias     []float64
}

func newLinkForce(nodeCount int, links []Link, distance, scale float64) *link {
	count := make([]int, nodeCount)
	for _, l := range links {
		count[l.Source]++
		count[l.Target]++
	}
	f := &link{
		links:    links,
		distance: distance,
		strength: make([]float64, len(links)),
		bias:     make([]float64, len(links)),
	}
	for i, l := range links {
		cs, ct := count[l.Source], count[l.Target]
		f.bias[i] = float64(cs) / float64(cs+ct)
		f.strength[i] = scale / float64(min(cs, ct))
	}
	return f
}

func (f *link) apply(s *Simulation, alpha float64) {
	for i, l := range f.links {
		src := &s.ptrs[l.Source].Body
		tgt := &s.ptrs[l.Target].Body
		x := tgt.X + tgt.VX - src.X - src.VX
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - f.distance) / d * alpha * f.strength[i]
		x, y = x*k, y*k
		b := f.bias[i]
		tgt.VX -= x * b
		tgt.VY -= y * b
		src.VX += x * (1 - b)
		src.VY += y * (1 - b)
	}
}

// center translates the whole layout toward the origin.
type center struct {
	strength float64
}

func (f *center) apply(s *Simulation, _ float64) {
	n := len(s.ptrs)
	if n == 0 {
		return
	}
	var sx, sy float64
	for i := range s.ptrs {
		sx += s.ptrs[i].Body.X
		sy += s.ptrs[i].Body.Y
	}
	sx = sx / float64(n) * f.strength
	sy = sy / float64(n) * f.strength
	for i := range s.ptrs {
		s.ptrs[i].Body.X -= sx
		s.ptrs[i].Body.Y -= sy
	}
}

// axis pulls every node toward zero on one axis.
type axis struct {
	strength float64
	vertical bool
}

func (f *axis) apply(s *Simulation, alpha float64) {
	for i := range s.ptrs {
		b := &s.ptrs[i].Body
		if f.vertical {
			b.VY -= b.Y * f.strength * alpha
		} else {
			b.VX -= b.X * f.strength * alpha
		}
	}
}

// collide separates overlapping nodes using their radius plus padding.
type collide struct {
	radii    []float64
	strength float64
}

func (f *collide) apply(s *Simulation, _ float64) {
	n := len(s.ptrs)
	if n == 0 {
		return
	}
	xs, ys := s.scratchPositions(true)
	tree := newQuadtree(xs, ys)
	tree.root.postOrder(func(q *quad) {
		q.r = 0
		if q.leaf {
			for _, j := range q.points {
				q.r = math.Max(q.r, f.radii[j])
			}
			return
		}
		for _, c := range q.children {
			if c != nil {
				q.r = math.Max(q.r, c.r)
			}
		}
	})

	for i := 0; i < n; i++ {
		bi := &s.ptrs[i].Body
		ri := f.radii[i]
		ri2 := ri * ri
		xi, yi := bi.X+bi.VX, bi.Y+bi.VY
		tree.root.visit(func(q *quad) bool {
			r := ri + q.r
			if q.leaf {
				for _, j := range q.points {
					if j <= i {
						continue
					}
					bj := &s.ptrs[j].Body
					x := xi - bj.X - bj.VX
					y := yi - bj.Y - bj.VY
					l := x*x + y*y
					rr := ri + f.radii[j]
					if l >= rr*rr {
						continue
					}
					if x == 0 {
						x = s.jiggle()
						l += x * x
					}
					if y == 0 {
						y = s.jiggle()
						l += y * y
					}
					l = math.Sqrt(l)
					k := (rr - l) / l * f.strength
					x, y = x*k, y*k
					rj2 := f.radii[j] * f.radii[j]
					share := rj2 / (ri2 + rj2)
					bi.VX += x * share
					bi.VY += y * share
					bj.VX -= x * (1 - share)
					bj.VY -= y * (1 - share)
				}
				return true
			}
			return q.x0 > xi+r || q.x1 < xi-r || q.y0 > yi+r || q.y1 < yi-r
		})
	}
}
