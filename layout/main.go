// Package layout models a track plan as a graph: placed track elements plus
// an explicit, symmetric connection list between their connectors.
// The graph is mutable while a plan is being built and read-only afterwards.
package layout

import (
	"fmt"

	"github.com/sabamiso/gatan/geom"
)

// ElementID indexes into Layout.Elements.
type ElementID int

// ConnRef names one connector of one placed element.
// Like a port, it is directional: it points away from its own element.
type ConnRef struct {
	Element ElementID
	Conn    int
}

func (r ConnRef) String() string {
	return fmt.Sprintf("e%d/c%d", r.Element, r.Conn)
}

// PlacedElement is an element dropped into the world. Connectors are always
// derived from connector 0 via ComputeConnectors, never edited directly.
type PlacedElement struct {
	ID  ElementID
	Def ElementDef
	// Connectors has exactly Def.ConnectorCount() entries.
	Connectors []Connector
	// Comment is a human-readable name for lookups and debugging.
	Comment string
	// Switch names the switch state controlling this turnout.
	// Empty for everything except turnouts.
	Switch string
}

// Connection is a symmetric edge between two joined connectors.
type Connection struct {
	From ConnRef
	To   ConnRef
}

// SwitchState is a turnout's position. The zero value is Normal (through),
// so a layout with every switch unset routes every train straight ahead.
type SwitchState int

const (
	SwitchNormal SwitchState = iota
	SwitchReverse
)

func (s SwitchState) String() string {
	switch s {
	case SwitchNormal:
		return "normal"
	case SwitchReverse:
		return "reverse"
	default:
		return fmt.Sprintf("switch%d", int(s))
	}
}

// Switches is a snapshot of every switch's state, keyed by switch name.
// Missing keys read as SwitchNormal. Route building takes a snapshot
// argument, never ambient state, so routing stays pure.
type Switches map[string]SwitchState

func (sw Switches) Get(name string) SwitchState {
	return sw[name]
}

// Clone copies the snapshot so later mutation of the source cannot leak in.
func (sw Switches) Clone() Switches {
	c := make(Switches, len(sw))
	for k, v := range sw {
		c[k] = v
	}
	return c
}

// Layout is the track plan graph.
type Layout struct {
	Elements []PlacedElement
	Conns    []Connection
}

// checkRef panics if r doesn't exist in this Layout.
func (y *Layout) checkRef(r ConnRef) {
	if r.Element < 0 || int(r.Element) >= len(y.Elements) {
		panic(fmt.Sprintf("invalid ConnRef: element %d doesn't exist", r.Element))
	}
	if r.Conn < 0 || r.Conn >= y.Elements[r.Element].Def.ConnectorCount() {
		panic(fmt.Sprintf("invalid ConnRef: connector %d doesn't exist on element %d", r.Conn, r.Element))
	}
}

// Element returns the placed element with the given id.
func (y *Layout) Element(id ElementID) *PlacedElement {
	if id < 0 || int(id) >= len(y.Elements) {
		panic(fmt.Sprintf("element %d doesn't exist", id))
	}
	return &y.Elements[id]
}

// Connector returns the connector named by r.
func (y *Layout) Connector(r ConnRef) Connector {
	y.checkRef(r)
	return y.Elements[r.Element].Connectors[r.Conn]
}

// PlaceElement appends an element whose connectors are derived from c0.
func (y *Layout) PlaceElement(d ElementDef, c0 Connector) ElementID {
	id := ElementID(len(y.Elements))
	y.Elements = append(y.Elements, PlacedElement{
		ID:         id,
		Def:        d,
		Connectors: ComputeConnectors(c0, d),
	})
	return id
}

// PlaceElementAt places an element joined to an existing connector and
// records the connection. The new element's connector 0 mirrors the target
// connector: same position, flipped direction. This is how a fully
// connected layout is normally built up.
func (y *Layout) PlaceElementAt(d ElementDef, at ConnRef) ElementID {
	y.checkRef(at)
	t := y.Connector(at)
	id := y.PlaceElement(d, Connector{Pos: t.Pos, Dir: geom.Flip(t.Dir)})
	y.Connect(at, ConnRef{Element: id, Conn: 0})
	return id
}

// Connect records an explicit edge between two connectors. The caller is
// trusted that both satisfy the join condition; Connect does not verify.
func (y *Layout) Connect(a, b ConnRef) {
	y.checkRef(a)
	y.checkRef(b)
	y.Conns = append(y.Conns, Connection{From: a, To: b})
}

// FindConnected returns the connector joined to r, searching the
// connection list from both sides.
func (y *Layout) FindConnected(r ConnRef) (ConnRef, bool) {
	y.checkRef(r)
	for _, c := range y.Conns {
		if c.From == r {
			return c.To, true
		}
		if c.To == r {
			return c.From, true
		}
	}
	return ConnRef{}, false
}

// MustLookup finds an element with a matching comment. If it doesn't, it
// panics. This is for debugging/testing.
func (y *Layout) MustLookup(comment string) *PlacedElement {
	for i := range y.Elements {
		if y.Elements[i].Comment == comment {
			return &y.Elements[i]
		}
	}
	panic(fmt.Sprintf("found nothing when looking up for %s", comment))
}
