package viewport

import "math"

// DragThreshold is the pointer travel in pixels that turns a press into a
// drag rather than a click.
const DragThreshold = 3

// Pinner receives drag gestures in graph coordinates.
type Pinner interface {
	DragStart(i int)
	DragTo(i int, x, y float64)
	DragEnd(i int)
}

// Drag tracks one node being dragged with the pointer.
type Drag struct {
	index  int
	active bool
	moved  bool
	sx, sy float64
}

// Start grabs node i at the screen point (sx, sy).
func (d *Drag) Start(p Pinner, i int, sx, sy float64) {
	if d.active {
		d.End(p)
	}
	*d = Drag{index: i, active: true, sx: sx, sy: sy}
	p.DragStart(i)
}

// Move follows the pointer. It reports whether the node was moved.
func (d *Drag) Move(p Pinner, c *Controller, sx, sy float64) bool {
	if !d.active {
		return false
	}
	if !d.moved && math.Hypot(sx-d.sx, sy-d.sy) < DragThreshold {
		return false
	}
	d.moved = true
	x, y := c.ScreenToGraph(sx, sy)
	p.DragTo(d.index, x, y)
	return true
}

// End releases the node. It returns the dragged index and whether the
// pointer travelled far enough to count as a drag.
func (d *Drag) End(p Pinner) (int, bool) {
	if !d.active {
		return -1, false
	}
	p.DragEnd(d.index)
	i, moved := d.index, d.moved
	*d = Drag{}
	return i, moved
}

// Active reports whether a node is held.
func (d *Drag) Active() bool { return d.active }

// Index returns the held node, or -1.
func (d *Drag) Index() int {
	if !d.active {
		return -1
	}
	return d.index
}
