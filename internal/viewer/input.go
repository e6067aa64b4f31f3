package viewer

import (
	"log/slog"
	"math"

	"github.com/ziadkadry99/code-landscape/internal/viewport"
)

// press is a pointer held down over empty space (a pan) or a node.
type press struct {
	lastX, lastY   float64
	startX, startY float64
	moved          bool
}

// PointerDown starts a node drag when the pointer is over a node and a pan
// otherwise.
func (v *Viewer) PointerDown(x, y float64) {
	if v.sim == nil {
		return
	}
	v.press = &press{lastX: x, lastY: y, startX: x, startY: y}
	if i, ok := v.vp.HitTest(x, y, v.sim.Nodes()); ok {
		v.drag.Start(v.sim, i, x, y)
	}
}

// PointerMove drags, pans or updates the hovered node.
func (v *Viewer) PointerMove(x, y float64) {
	if v.sim == nil {
		return
	}
	if v.drag.Active() {
		if v.drag.Move(v.sim, v.vp, x, y) {
			v.touch()
		}
		return
	}
	if p := v.press; p != nil {
		if !p.moved && math.Hypot(x-p.startX, y-p.startY) < viewport.DragThreshold {
			return
		}
		p.moved = true
		v.vp.PanBy(x-p.lastX, y-p.lastY)
		p.lastX, p.lastY = x, y
		v.touch()
		return
	}

	hovered := -1
	if i, ok := v.vp.HitTest(x, y, v.sim.Nodes()); ok {
		hovered = i
	}
	if hovered != v.hovered {
		v.hovered = hovered
		v.touch()
	}
}

// PointerUp ends a gesture. A press that did not move is a click: on a node
// it selects the node, on empty space it clears the selection.
func (v *Viewer) PointerUp(x, y float64) {
	if v.sim == nil {
		return
	}
	p := v.press
	v.press = nil

	if v.drag.Active() {
		i, moved := v.drag.End(v.sim)
		if !moved && i >= 0 && i < v.sim.Len() {
			id := v.sim.Node(i).ID
			if err := v.Select(id); err != nil {
				slog.Debug("click did not select node", "node", id, "error", err)
			}
		}
		v.touch()
		return
	}
	if p != nil && !p.moved {
		v.ClearSelection()
	}
}

// Click is a press and release at the same point.
func (v *Viewer) Click(x, y float64) {
	v.PointerDown(x, y)
	v.PointerUp(x, y)
}

// PointerLeave clears the hover state.
func (v *Viewer) PointerLeave() {
	if v.hovered != -1 {
		v.hovered = -1
		v.touch()
	}
}

// Wheel zooms around the pointer. Positive deltaY zooms out, matching a
// browser wheel event.
func (v *Viewer) Wheel(x, y, deltaY float64) {
	v.vp.ZoomAt(x, y, math.Pow(2, -deltaY*0.002))
	v.touch()
}
