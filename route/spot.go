package route

import (
	"github.com/sabamiso/gatan/geom"
	"github.com/sabamiso/gatan/layout"
)

// SpotID names an operational location trains are ordered to.
type SpotID string

const (
	SpotPlatform   SpotID = "Platform"
	SpotTeamTrack  SpotID = "TeamTrack"
	SpotEastTunnel SpotID = "EastTunnel"
	SpotWestTunnel SpotID = "WestTunnel"
)

// SpotDef pins a spot to a fixed place on a specific element.
type SpotDef struct {
	Element layout.ElementID
	// Offset is the distance from the element's connector 0 to the spot.
	Offset float64
	// Length is the element's native length, used to mirror Offset when
	// the element is traversed against its native direction.
	Length float64
	// Portal marks tunnel mouths: they resolve to the very start or end
	// of the route instead of a mid-route distance.
	Portal bool
}

// SpotTable is every known spot, keyed by id.
type SpotTable map[SpotID]SpotDef

// SpotPosition maps a spot to its distance along r. It reports false when
// the spot's element is not part of the route at all; that is how "that
// spot isn't on my current path" is detected, e.g. a platform on a siding
// while the switch routes the train straight through.
func SpotPosition(y *layout.Layout, spots SpotTable, id SpotID, r Route) (float64, bool) {
	def, ok := spots[id]
	if !ok || len(r.Segments) == 0 {
		return 0, false
	}
	if def.Portal {
		if r.Segments[0].Element == def.Element {
			return 0, true
		}
		if r.Segments[len(r.Segments)-1].Element == def.Element {
			return r.TotalLength, true
		}
		return 0, false
	}
	c0 := y.Element(def.Element).Connectors[0]
	for _, seg := range r.Segments {
		if seg.Element != def.Element {
			continue
		}
		// Traversed natively iff the segment starts where the element's
		// connector 0 sits; otherwise the local offset mirrors.
		local := def.Offset
		if !geom.PosEq(seg.Geom.StartPos(), c0.Pos) {
			local = def.Length - def.Offset
		}
		return seg.Start + local, true
	}
	return 0, false
}
