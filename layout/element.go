package layout

import (
	"fmt"
	"math"

	"github.com/sabamiso/gatan/geom"
)

// Connector is an attachment point on a track element.
// Dir points outward: the heading of a train leaving the element through
// this connector. Two connectors are joined iff their positions coincide
// and their directions differ by π, within geom tolerances.
type Connector struct {
	Pos geom.Vec
	Dir float64
}

func (c Connector) String() string {
	return fmt.Sprintf("conn(%s @%.4frad)", c.Pos, c.Dir)
}

// Joined reports whether c and d satisfy the join condition.
func (c Connector) Joined(d Connector) bool {
	return geom.PosEq(c.Pos, d.Pos) && geom.AngleEq(c.Dir, geom.Flip(d.Dir))
}

// Kind selects the track element variant.
type Kind int

const (
	KindStraight Kind = iota
	KindCurve
	KindTurnout
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindStraight:
		return "straight"
	case KindCurve:
		return "curve"
	case KindTurnout:
		return "turnout"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("kind%d", int(k))
	}
}

// Hand is the side a turnout diverges to.
type Hand int

const (
	HandRight Hand = iota
	HandLeft
)

// ElementDef describes one track element's shape.
// Which fields are meaningful depends on Kind:
// straights use Length; curves use Radius and Sweep; turnouts use Length
// (the through road), Radius, Sweep and Hand; ends use nothing.
type ElementDef struct {
	Kind   Kind
	Length float64
	Radius float64
	// Sweep is the signed arc angle in radians. For turnouts the stored
	// sweep is the magnitude for a right-hand diverging road; left-hand
	// turnouts mirror it.
	Sweep float64
	Hand  Hand
}

func Straight(length float64) ElementDef {
	return ElementDef{Kind: KindStraight, Length: length}
}

func Curve(radius, sweep float64) ElementDef {
	return ElementDef{Kind: KindCurve, Radius: radius, Sweep: sweep}
}

func Turnout(through, radius, sweep float64, hand Hand) ElementDef {
	return ElementDef{Kind: KindTurnout, Length: through, Radius: radius, Sweep: sweep, Hand: hand}
}

func End() ElementDef {
	return ElementDef{Kind: KindEnd}
}

// ConnectorCount is fixed per kind: 2, 2, 3, 1.
func (d ElementDef) ConnectorCount() int {
	switch d.Kind {
	case KindStraight, KindCurve:
		return 2
	case KindTurnout:
		return 3
	case KindEnd:
		return 1
	default:
		panic(fmt.Sprintf("unknown kind %d", d.Kind))
	}
}

// BranchSweep is the turnout's diverging sweep with the hand applied.
func (d ElementDef) BranchSweep() float64 {
	if d.Kind != KindTurnout {
		panic("BranchSweep on non-turnout")
	}
	if d.Hand == HandLeft {
		return -d.Sweep
	}
	return d.Sweep
}

// ArcLength is the length of an arc of the given radius and signed sweep.
func ArcLength(radius, sweep float64) float64 {
	return radius * math.Abs(sweep)
}

// curveExit computes the exit connector of an arc starting at c0 with the
// given radius and signed sweep. Positive sweep turns left.
func curveExit(c0 Connector, radius, sweep float64) Connector {
	travel := geom.Flip(c0.Dir)
	center := c0.Pos.Add(geom.Heading(travel + math.Copysign(math.Pi/2, sweep)).Scale(radius))
	return Connector{
		Pos: geom.RotateAround(c0.Pos, center, sweep),
		Dir: geom.NormAngle(travel + sweep),
	}
}

// straightExit computes the exit connector of a straight of the given
// length starting at c0.
func straightExit(c0 Connector, length float64) Connector {
	travel := geom.Flip(c0.Dir)
	return Connector{
		Pos: c0.Pos.Add(geom.Heading(travel).Scale(length)),
		Dir: travel,
	}
}

// ComputeConnectors derives every connector of an element from connector 0.
// The travel direction through the element is the opposite of connector 0's
// outward direction.
func ComputeConnectors(c0 Connector, d ElementDef) []Connector {
	c0.Dir = geom.NormAngle(c0.Dir)
	switch d.Kind {
	case KindStraight:
		return []Connector{c0, straightExit(c0, d.Length)}
	case KindCurve:
		return []Connector{c0, curveExit(c0, d.Radius, d.Sweep)}
	case KindTurnout:
		return []Connector{c0, straightExit(c0, d.Length), curveExit(c0, d.Radius, d.BranchSweep())}
	case KindEnd:
		return []Connector{c0}
	default:
		panic(fmt.Sprintf("unknown kind %d", d.Kind))
	}
}
