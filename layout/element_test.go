package layout

import (
	"math"
	"testing"

	"github.com/sabamiso/gatan/geom"
)

func connApproxEq(a, b Connector) bool {
	return geom.PosEq(a.Pos, b.Pos) && geom.AngleEq(a.Dir, b.Dir)
}

func TestComputeConnectors(t *testing.T) {
	// Entry connector at the origin pointing -X outward: travel is +X.
	west := Connector{Pos: geom.Vec{}, Dir: math.Pi}
	tests := []struct {
		name string
		def  ElementDef
		want []Connector
	}{
		{
			name: "straight",
			def:  Straight(100),
			want: []Connector{west, {Pos: geom.Vec{X: 100}, Dir: 0}},
		},
		{
			name: "quarter circle left",
			def:  Curve(200, math.Pi / 2),
			want: []Connector{west, {Pos: geom.Vec{X: 200, Y: 200}, Dir: math.Pi / 2}},
		},
		{
			name: "quarter circle right",
			def:  Curve(200, -math.Pi / 2),
			want: []Connector{west, {Pos: geom.Vec{X: 200, Y: -200}, Dir: -math.Pi / 2}},
		},
		{
			name: "right-hand turnout",
			def:  Turnout(120, 300, -math.Pi / 6, HandRight),
			want: []Connector{
				west,
				{Pos: geom.Vec{X: 120}, Dir: 0},
				{Pos: geom.Vec{X: 300 * math.Sin(math.Pi/6), Y: -300 * (1 - math.Cos(math.Pi/6))}, Dir: -math.Pi / 6},
			},
		},
		{
			name: "left-hand turnout mirrors the branch",
			def:  Turnout(120, 300, -math.Pi / 6, HandLeft),
			want: []Connector{
				west,
				{Pos: geom.Vec{X: 120}, Dir: 0},
				{Pos: geom.Vec{X: 300 * math.Sin(math.Pi/6), Y: 300 * (1 - math.Cos(math.Pi/6))}, Dir: math.Pi / 6},
			},
		},
		{
			name: "end",
			def:  End(),
			want: []Connector{west},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ComputeConnectors(west, test.def)
			if len(got) != len(test.want) {
				t.Fatalf("got %d connectors, want %d", len(got), len(test.want))
			}
			if len(got) != test.def.ConnectorCount() {
				t.Fatalf("got %d connectors, ConnectorCount says %d", len(got), test.def.ConnectorCount())
			}
			for i := range got {
				if !connApproxEq(got[i], test.want[i]) {
					t.Errorf("connector %d: got %s, want %s", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestComputeConnectorsTranslated(t *testing.T) {
	// Same shapes away from the origin at an odd heading still produce
	// joined-up geometry: the exit of one straight is a valid entry for
	// the next.
	c0 := Connector{Pos: geom.Vec{X: 12.5, Y: -3}, Dir: geom.NormAngle(2.2 + math.Pi)}
	conns := ComputeConnectors(c0, Straight(40))
	travel := geom.Flip(c0.Dir)
	want := Connector{Pos: c0.Pos.Add(geom.Heading(travel).Scale(40)), Dir: travel}
	if !connApproxEq(conns[1], want) {
		t.Errorf("got %s, want %s", conns[1], want)
	}
	if !conns[1].Joined(Connector{Pos: want.Pos, Dir: geom.Flip(want.Dir)}) {
		t.Errorf("exit connector does not join its mirror")
	}
}
