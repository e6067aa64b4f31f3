// Package layout runs the force-directed simulation that positions the
// visible nodes.
//
// A Simulation is rebuilt on every visibility change over pointers into the
// document arena, so nodes that stay visible keep their positions. It is not
// safe for concurrent use; the viewer drives it from a single goroutine.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// State is the lifecycle state of a simulation.
type State int

const (
	Idle State = iota
	Running
	Cooling
	Settled
	Frozen
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Cooling:
		return "cooling"
	case Settled:
		return "settled"
	case Frozen:
		return "frozen"
	default:
		return "idle"
	}
}

// Link connects two nodes by their index in the simulation's node list.
type Link struct {
	Source, Target int
	Type           string
}

// Options configures a simulation. Zero Params select ParamsFor(len(nodes)).
type Options struct {
	Params *Params
	// OnTick runs after every tick, typically to request a redraw.
	OnTick func()
	Rand   *rand.Rand
}

const (
	initialRadius = 10
	initialAngle  = math.Pi * (3 - 2.23606797749979) // pi * (3 - sqrt(5))
)

// Simulation is a force simulation with d3 semantics:
// alpha decays toward AlphaTarget every tick and the run settles once alpha
// drops below AlphaMin.
type Simulation struct {
	ptrs   []*graphdoc.Node
	links  []Link
	params Params
	forces []force
	onTick func()
	rng    *rand.Rand

	alpha       float64
	alphaTarget float64
	state       State
	ticks       int

	scratchX, scratchY []float64
}

// New builds a simulation over nodes. Unplaced nodes receive phyllotaxis
// positions around the origin; placed ones keep theirs. The simulation
// starts Idle; call Restart to run it.
func New(nodes []*graphdoc.Node, links []Link, opts Options) *Simulation {
	p := ParamsFor(len(nodes))
	if opts.Params != nil {
		p = *opts.Params
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Simulation{
		ptrs:   nodes,
		links:  links,
		params: p,
		onTick: opts.OnTick,
		rng:    rng,
		alpha:  1,
		state:  Idle,
	}
	s.place()

	radii := make([]float64, len(nodes))
	for i, n := range nodes {
		radii[i] = Radius(n.Degree) + p.CollidePadding
	}
	s.forces = []force{
		newLinkForce(len(nodes), links, p.LinkDistance, p.LinkStrengthScale),
		&manyBody{strength: p.Charge, theta2: p.Theta * p.Theta, distanceMax: p.DistanceMax},
		&axis{strength: p.AxisStrength},
		&axis{strength: p.AxisStrength, vertical: true},
		&collide{radii: radii, strength: p.CollideStrength},
		&center{strength: p.CenterStrength},
	}
	return s
}

func (s *Simulation) place() {
	for i, n := range s.ptrs {
		b := &n.Body
		if b.Pinned {
			b.X, b.Y = b.FX, b.FY
			b.Placed = true
		}
		if !b.Placed || math.IsNaN(b.X) || math.IsNaN(b.Y) {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			b.X, b.Y = r*math.Cos(a), r*math.Sin(a)
			b.Placed = true
		}
		if math.IsNaN(b.VX) || math.IsNaN(b.VY) {
			b.VX, b.VY = 0, 0
		}
	}
}

// Params returns the parameters in use.
func (s *Simulation) Params() Params { return s.params }

// Len returns the number of simulated nodes.
func (s *Simulation) Len() int { return len(s.ptrs) }

// Node returns the i-th simulated node.
func (s *Simulation) Node(i int) *graphdoc.Node { return s.ptrs[i] }

// Nodes returns the simulated nodes in draw order.
func (s *Simulation) Nodes() []*graphdoc.Node { return s.ptrs }

// Links returns the simulated links.
func (s *Simulation) Links() []Link { return s.links }

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the value alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// State returns the lifecycle state.
func (s *Simulation) State() State { return s.state }

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Active reports whether Tick would advance the simulation.
func (s *Simulation) Active() bool {
	return s.state == Running || s.state == Cooling
}

// Restart resumes ticking from the current alpha.
func (s *Simulation) Restart() {
	if s.state == Frozen {
		return
	}
	s.updateState()
	if s.state == Settled && s.alphaTarget > s.params.AlphaMin {
		s.state = Running
	}
}

// Reheat sets alpha and resumes ticking.
func (s *Simulation) Reheat(alpha float64) {
	s.alpha = alpha
	s.Restart()
}

// Stop halts ticking without touching positions.
func (s *Simulation) Stop() {
	if s.state != Frozen {
		s.state = Idle
	}
}

// Tick advances the simulation by one step and runs OnTick. It returns
// false without doing anything when the simulation is not active.
func (s *Simulation) Tick() bool {
	if !s.Active() {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay
	s.step()
	s.ticks++
	s.updateState()

	if s.onTick != nil {
		s.onTick()
	}
	return true
}

func (s *Simulation) step() {
	for _, f := range s.forces {
		f.apply(s, s.alpha)
	}
	keep := 1 - s.params.VelocityDecay
	for i := range s.ptrs {
		b := &s.ptrs[i].Body
		if b.Pinned {
			b.X, b.Y = b.FX, b.FY
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX *= keep
		b.VY *= keep
		b.X += b.VX
		b.Y += b.VY
	}
}

func (s *Simulation) updateState() {
	switch {
	case s.alpha < s.params.AlphaMin:
		s.state = Settled
	case s.alpha < CoolingAlpha:
		s.state = Cooling
	default:
		s.state = Running
	}
}

// Freeze stops the simulation and pins every node where it is.
func (s *Simulation) Freeze() {
	for _, n := range s.ptrs {
		n.Body.Pin(n.Body.X, n.Body.Y)
		n.Body.VX, n.Body.VY = 0, 0
	}
	s.alphaTarget = 0
	s.state = Frozen
}

// Unfreeze releases every pin and reheats to ReheatAlpha.
func (s *Simulation) Unfreeze() {
	for _, n := range s.ptrs {
		n.Body.Unpin()
	}
	s.state = Idle
	s.Reheat(ReheatAlpha)
}

// Frozen reports whether the layout is frozen.
func (s *Simulation) Frozen() bool { return s.state == Frozen }

// DragStart pins node i at its position. While not frozen the simulation is
// kept warm so neighbors react to the drag.
func (s *Simulation) DragStart(i int) {
	if i < 0 || i >= len(s.ptrs) {
		return
	}
	b := &s.ptrs[i].Body
	b.Pin(b.X, b.Y)
	if s.state != Frozen {
		s.alphaTarget = DragAlphaTarget
		s.Restart()
	}
}

// DragTo moves the pin of node i. A frozen layout does not tick, so the
// position is updated directly.
func (s *Simulation) DragTo(i int, x, y float64) {
	if i < 0 || i >= len(s.ptrs) {
		return
	}
	b := &s.ptrs[i].Body
	b.Pin(x, y)
	if s.state == Frozen {
		b.X, b.Y = x, y
	}
}

// DragEnd releases node i unless the layout is frozen.
func (s *Simulation) DragEnd(i int) {
	if i < 0 || i >= len(s.ptrs) {
		return
	}
	if s.state == Frozen {
		return
	}
	s.ptrs[i].Body.Unpin()
	s.alphaTarget = 0
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// scratchPositions returns reusable coordinate slices, optionally advanced
// by the current velocity.
func (s *Simulation) scratchPositions(withVelocity bool) ([]float64, []float64) {
	n := len(s.ptrs)
	if cap(s.scratchX) < n {
		s.scratchX = make([]float64, n)
		s.scratchY = make([]float64, n)
	}
	xs, ys := s.scratchX[:n], s.scratchY[:n]
	for i, p := range s.ptrs {
		xs[i], ys[i] = p.Body.X, p.Body.Y
		if withVelocity {
			xs[i] += p.Body.VX
			ys[i] += p.Body.VY
		}
	}
	return xs, ys
}
