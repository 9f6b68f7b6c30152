// Package route turns a track layout plus a switch-state snapshot into a
// concrete, distance-parameterized path, and maps distances along that path
// back to world positions.
package route

import (
	"errors"
	"fmt"
	"math"

	"github.com/sabamiso/gatan/geom"
	"github.com/sabamiso/gatan/layout"
)

// maxSegments bounds route building on pathological graphs. Real plans are
// a handful of elements; hitting this means the walk went wrong.
const maxSegments = 1024

var (
	ErrStartUnconnected = errors.New("start connector is not connected to anything")
	ErrRouteCycle       = errors.New("route walk entered the same connector twice")
	ErrRouteTooLong     = errors.New("route walk exceeded the segment cap")
)

// Geom is one segment's interpolatable shape: StraightGeom or ArcGeom.
type Geom interface {
	fmt.Stringer
	// StartPos is the world position where travel over this segment begins.
	StartPos() geom.Vec
}

type StraightGeom struct {
	A, B geom.Vec
	// Dir is the constant travel heading.
	Dir float64
}

func (g StraightGeom) String() string {
	return fmt.Sprintf("straight %s→%s", g.A, g.B)
}

func (g StraightGeom) StartPos() geom.Vec { return g.A }

type ArcGeom struct {
	Center     geom.Vec
	Radius     float64
	StartAngle float64
	// Sweep is signed: positive turns left.
	Sweep float64
}

func (g ArcGeom) String() string {
	return fmt.Sprintf("arc c%s r%.3f a%.4f+%.4f", g.Center, g.Radius, g.StartAngle, g.Sweep)
}

func (g ArcGeom) StartPos() geom.Vec {
	return g.Center.Add(geom.Heading(g.StartAngle).Scale(g.Radius))
}

// Segment is one element's traversal within a route.
type Segment struct {
	Element layout.ElementID
	Length  float64
	// Start is the cumulative distance at which this segment begins.
	Start float64
	Geom  Geom
}

// Route is an ordered, contiguous list of segments.
// Invariant: Segments[i].Start+Segments[i].Length == Segments[i+1].Start,
// and the last segment ends at TotalLength.
type Route struct {
	Segments    []Segment
	TotalLength float64
}

// exitConn resolves which connector a traversal leaves through, given the
// element, the entry connector and the switch snapshot. Entering a turnout
// at the toe picks through or diverging by switch state; entering at either
// heel always exits at the toe (a trailing move is permitted regardless of
// the switch).
func exitConn(el *layout.PlacedElement, entry int, sw layout.Switches) int {
	switch el.Def.Kind {
	case layout.KindStraight, layout.KindCurve:
		if entry == 0 {
			return 1
		}
		return 0
	case layout.KindTurnout:
		if entry != 0 {
			return 0
		}
		if sw.Get(el.Switch) == layout.SwitchReverse {
			return 2
		}
		return 1
	default:
		panic(fmt.Sprintf("no traversal through %s element", el.Def.Kind))
	}
}

// segmentFor computes the length and geometry of traversing el from entry
// to exit. Arc centers are recomputed from the entry connector so segment
// geometry always agrees with the element geometry, and the signed sweep is
// derived from the raw start/end angles, normalized to the expected turn
// direction.
func segmentFor(el *layout.PlacedElement, entry, exit int) Segment {
	in := el.Connectors[entry]
	out := el.Connectors[exit]
	travel := geom.Flip(in.Dir)

	straight := el.Def.Kind == layout.KindStraight ||
		(el.Def.Kind == layout.KindTurnout && (entry != 2 && exit != 2))
	if straight {
		return Segment{
			Element: el.ID,
			Length:  el.Def.Length,
			Geom:    StraightGeom{A: in.Pos, B: out.Pos, Dir: travel},
		}
	}

	// Arc traversal: native sweep when entering at connector 0, mirrored
	// when entering from the far end.
	var sweep float64
	switch el.Def.Kind {
	case layout.KindCurve:
		sweep = el.Def.Sweep
	case layout.KindTurnout:
		sweep = el.Def.BranchSweep()
	}
	if entry != 0 {
		sweep = -sweep
	}
	center := in.Pos.Add(geom.Heading(travel + math.Copysign(math.Pi/2, sweep)).Scale(el.Def.Radius))
	start := in.Pos.Sub(center).Angle()
	end := out.Pos.Sub(center).Angle()
	raw := geom.NormAngle(end - start)
	if sweep > 0 && raw < 0 {
		raw += 2 * math.Pi
	} else if sweep < 0 && raw > 0 {
		raw -= 2 * math.Pi
	}
	return Segment{
		Element: el.ID,
		Length:  layout.ArcLength(el.Def.Radius, raw),
		Geom: ArcGeom{
			Center:     center,
			Radius:     el.Def.Radius,
			StartAngle: start,
			Sweep:      raw,
		},
	}
}

// Build walks the layout graph from the connector joined to start,
// resolving turnout ambiguity with the sw snapshot, and returns the
// distance-indexed route. The walk stops at an end element or where no
// further connection exists. Building is pure: same inputs, same route.
//
// A visited set catches graphs that loop back into themselves; that and the
// segment cap are reported as errors instead of silently truncating.
func Build(y *layout.Layout, start layout.ConnRef, sw layout.Switches) (Route, error) {
	cur, ok := y.FindConnected(start)
	if !ok {
		return Route{}, fmt.Errorf("build from %s: %w", start, ErrStartUnconnected)
	}
	var r Route
	visited := map[layout.ConnRef]bool{}
	for {
		el := y.Element(cur.Element)
		if el.Def.Kind == layout.KindEnd {
			break
		}
		if visited[cur] {
			return Route{}, fmt.Errorf("build from %s: at %s: %w", start, cur, ErrRouteCycle)
		}
		visited[cur] = true
		if len(r.Segments) >= maxSegments {
			return Route{}, fmt.Errorf("build from %s: %w", start, ErrRouteTooLong)
		}
		exit := exitConn(el, cur.Conn, sw)
		seg := segmentFor(el, cur.Conn, exit)
		seg.Start = r.TotalLength
		r.Segments = append(r.Segments, seg)
		r.TotalLength += seg.Length
		next, ok := y.FindConnected(layout.ConnRef{Element: cur.Element, Conn: exit})
		if !ok {
			break
		}
		cur = next
	}
	return r, nil
}

// At maps a distance along the route to a world position and travel
// heading. Distances outside [0, TotalLength] report false.
func (r Route) At(dist float64) (geom.Vec, float64, bool) {
	if len(r.Segments) == 0 || dist < 0 || dist > r.TotalLength {
		return geom.Vec{}, 0, false
	}
	seg := r.Segments[len(r.Segments)-1]
	for _, s := range r.Segments {
		if dist <= s.Start+s.Length {
			seg = s
			break
		}
	}
	t := 0.0
	if seg.Length > 0 {
		t = (dist - seg.Start) / seg.Length
	}
	switch g := seg.Geom.(type) {
	case StraightGeom:
		pos := g.A.Add(g.B.Sub(g.A).Scale(t))
		return pos, g.Dir, true
	case ArcGeom:
		a := g.StartAngle + t*g.Sweep
		pos := g.Center.Add(geom.Heading(a).Scale(g.Radius))
		dir := geom.NormAngle(a + math.Copysign(math.Pi/2, g.Sweep))
		return pos, dir, true
	default:
		panic(fmt.Sprintf("unknown segment geometry %T", seg.Geom))
	}
}
