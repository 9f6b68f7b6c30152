package world

import (
	"math"

	"github.com/sabamiso/gatan/geom"
	"github.com/sabamiso/gatan/layout"
	"github.com/sabamiso/gatan/route"
)

// InitYard builds the demo plan: a mainline between two tunnel portals,
// with a platform siding behind the "main" switch ending at a buffer stop.
//
//	east portal                                        west portal
//	]--approach--<main>------mid---------west-approach--[
//	              \
//	               \--lead--platform-track--|(buffer)
//
// The east portal sits at the origin with the mainline running +X;
// the siding swings off to -Y and straightens out parallel-ish.
func InitYard() (*layout.Layout, route.SpotTable, map[string]SpawnPoint) {
	y := &layout.Layout{}

	// East portal's connector faces into the layout: a train exiting the
	// portal element travels +X.
	east := y.PlaceElement(layout.End(), layout.Connector{Pos: geom.Vec{}, Dir: 0})
	y.Element(east).Comment = "east-portal"

	approach := y.PlaceElementAt(layout.Straight(100), layout.ConnRef{Element: east, Conn: 0})
	y.Element(approach).Comment = "east-approach"

	// Right-hand turnout: the diverging road curves towards -Y.
	main := y.PlaceElementAt(
		layout.Turnout(50, 150, -math.Pi/6, layout.HandRight),
		layout.ConnRef{Element: approach, Conn: 1},
	)
	y.Element(main).Comment = "main-turnout"
	y.Element(main).Switch = "main"

	mid := y.PlaceElementAt(layout.Straight(200), layout.ConnRef{Element: main, Conn: 1})
	y.Element(mid).Comment = "mid"

	westApproach := y.PlaceElementAt(layout.Straight(100), layout.ConnRef{Element: mid, Conn: 1})
	y.Element(westApproach).Comment = "west-approach"

	west := y.PlaceElementAt(layout.End(), layout.ConnRef{Element: westApproach, Conn: 1})
	y.Element(west).Comment = "west-portal"

	lead := y.PlaceElementAt(layout.Curve(150, math.Pi/6), layout.ConnRef{Element: main, Conn: 2})
	y.Element(lead).Comment = "siding-lead"

	platform := y.PlaceElementAt(layout.Straight(150), layout.ConnRef{Element: lead, Conn: 1})
	y.Element(platform).Comment = "platform-track"

	stop := y.PlaceElementAt(layout.End(), layout.ConnRef{Element: platform, Conn: 1})
	y.Element(stop).Comment = "siding-stop"

	// Portal spots are pinned to the track elements just inside the
	// portals: end elements have no traversal, so they never show up as
	// route segments.
	spots := route.SpotTable{
		route.SpotEastTunnel: {Element: approach, Portal: true},
		route.SpotWestTunnel: {Element: westApproach, Portal: true},
		route.SpotPlatform:   {Element: platform, Offset: 75, Length: 150},
		route.SpotTeamTrack:  {Element: mid, Offset: 100, Length: 200},
	}

	spawns := map[string]SpawnPoint{
		"east": {Comment: "east", Start: layout.ConnRef{Element: east, Conn: 0}},
		"west": {Comment: "west", Start: layout.ConnRef{Element: west, Conn: 0}},
	}

	return y, spots, spawns
}
