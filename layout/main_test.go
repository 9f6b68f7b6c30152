package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sabamiso/gatan/geom"
)

func TestPlaceElementAt(t *testing.T) {
	y := &Layout{}
	a := y.PlaceElement(Straight(100), Connector{Pos: geom.Vec{}, Dir: math.Pi})
	b := y.PlaceElementAt(Straight(50), ConnRef{Element: a, Conn: 1})

	// The new element's connector 0 mirrors the target connector.
	at := y.Connector(ConnRef{Element: a, Conn: 1})
	c0 := y.Connector(ConnRef{Element: b, Conn: 0})
	if !geom.PosEq(at.Pos, c0.Pos) {
		t.Errorf("positions differ: %s vs %s", at.Pos, c0.Pos)
	}
	if !geom.AngleEq(c0.Dir, geom.Flip(at.Dir)) {
		t.Errorf("directions not mirrored: %.4f vs %.4f", at.Dir, c0.Dir)
	}
	if !at.Joined(c0) {
		t.Errorf("connectors not joined: %s / %s", at, c0)
	}

	// The new element continues in the same travel direction.
	exit := y.Connector(ConnRef{Element: b, Conn: 1})
	if !geom.PosEq(exit.Pos, geom.Vec{X: 150}) {
		t.Errorf("exit at %s, want (150, 0)", exit.Pos)
	}

	// The connection is recorded and findable from both sides.
	got, ok := y.FindConnected(ConnRef{Element: a, Conn: 1})
	if !ok {
		t.Fatal("no connection from a/1")
	}
	if diff := cmp.Diff(ConnRef{Element: b, Conn: 0}, got); diff != "" {
		t.Errorf("forward lookup (-want +got):\n%s", diff)
	}
	got, ok = y.FindConnected(ConnRef{Element: b, Conn: 0})
	if !ok {
		t.Fatal("no connection from b/0")
	}
	if diff := cmp.Diff(ConnRef{Element: a, Conn: 1}, got); diff != "" {
		t.Errorf("reverse lookup (-want +got):\n%s", diff)
	}

	// Unconnected connectors stay unconnected.
	if _, ok := y.FindConnected(ConnRef{Element: a, Conn: 0}); ok {
		t.Error("a/0 should not be connected")
	}
}

func TestConnectExplicit(t *testing.T) {
	y := &Layout{}
	a := y.PlaceElement(Straight(10), Connector{Pos: geom.Vec{}, Dir: math.Pi})
	b := y.PlaceElement(Straight(10), Connector{Pos: geom.Vec{X: 10}, Dir: math.Pi})
	y.Connect(ConnRef{Element: a, Conn: 1}, ConnRef{Element: b, Conn: 0})
	got, ok := y.FindConnected(ConnRef{Element: b, Conn: 0})
	if !ok || got != (ConnRef{Element: a, Conn: 1}) {
		t.Errorf("got %s ok=%v, want a/1", got, ok)
	}
}

func TestMustLookup(t *testing.T) {
	y := &Layout{}
	id := y.PlaceElement(Straight(10), Connector{Pos: geom.Vec{}, Dir: math.Pi})
	y.Element(id).Comment = "home"
	if got := y.MustLookup("home").ID; got != id {
		t.Errorf("got %d, want %d", got, id)
	}
}
