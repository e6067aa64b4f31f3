package layout

import "math"

// Band classifies a graph by the number of visible nodes.
type Band int

const (
	Small Band = iota
	Medium
	Large
	VeryLarge
)

func (b Band) String() string {
	switch b {
	case VeryLarge:
		return "very_large"
	case Large:
		return "large"
	case Medium:
		return "medium"
	default:
		return "small"
	}
}

// Band thresholds on the visible node count.
const (
	VeryLargeThreshold = 2000
	LargeThreshold     = 800
	MediumThreshold    = 300
)

// BandFor returns the size band of a graph with n visible nodes.
func BandFor(n int) Band {
	switch {
	case n > VeryLargeThreshold:
		return VeryLarge
	case n > LargeThreshold:
		return Large
	case n > MediumThreshold:
		return Medium
	default:
		return Small
	}
}

// Params are the tunables of one simulation.
type Params struct {
	Band Band

	// Charge is the many-body strength per node; negative repels.
	Charge      float64
	DistanceMax float64
	Theta       float64

	LinkDistance float64
	// LinkStrengthScale multiplies the default per-link strength
	// 1/min(count(source), count(target)).
	LinkStrengthScale float64

	CenterStrength  float64
	AxisStrength    float64
	CollidePadding  float64
	CollideStrength float64

	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64
}

// Alpha thresholds shared by every band.
const (
	// CoolingAlpha separates the Running and Cooling states.
	CoolingAlpha = 0.1
	// AutoFitAlpha is the alpha below which the viewer fits the view once.
	AutoFitAlpha = 0.1
	// ReheatAlpha is the alpha set by Unfreeze.
	ReheatAlpha = 0.3
	// DragAlphaTarget keeps the simulation warm while a node is dragged.
	DragAlphaTarget = 0.3
)

func decayFor(ticks float64) float64 {
	return 1 - math.Pow(0.001, 1/ticks)
}

// ParamsFor scales the forces to the graph size. Repulsion weakens and link
// distance shrinks as the graph grows so large graphs stay compact and settle
// in a bounded number of ticks.
func ParamsFor(n int) Params {
	p := Params{
		Band:              BandFor(n),
		Theta:             0.9,
		LinkStrengthScale: 1,
		CenterStrength:    0.1,
		AxisStrength:      0.05,
		CollidePadding:    2,
		CollideStrength:   0.7,
		AlphaMin:          0.001,
		VelocityDecay:     0.4,
	}
	switch p.Band {
	case VeryLarge:
		p.Charge, p.DistanceMax, p.LinkDistance = -30, 300, 30
		p.LinkStrengthScale = 0.7
		p.AlphaDecay = decayFor(150)
	case Large:
		p.Charge, p.DistanceMax, p.LinkDistance = -60, 400, 40
		p.AlphaDecay = decayFor(200)
	case Medium:
		p.Charge, p.DistanceMax, p.LinkDistance = -120, 600, 60
		p.AlphaDecay = decayFor(300)
	default:
		p.Charge, p.DistanceMax, p.LinkDistance = -180, 1000, 80
		p.AlphaDecay = 0.02
	}
	return p
}

// Radius is the drawn and collision radius of a node with the given degree.
// It grows with the square root of degree so hubs stand out without
// dwarfing the graph.
func Radius(degree int) float64 {
	if degree < 0 {
		degree = 0
	}
	return 4 + math.Sqrt(float64(degree))*1.6
}
