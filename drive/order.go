package drive

import (
	"fmt"

	"github.com/sabamiso/gatan/layout"
	"github.com/sabamiso/gatan/route"
)

// Reverser selects which of the two track directions counts as "forward"
// for a train's movement orders. Speed is always stored non-negative; the
// travel direction comes from here, never from the sign of speed.
type Reverser int

const (
	Forward Reverser = iota
	Reverse
)

func (r Reverser) String() string {
	if r == Reverse {
		return "reverse"
	}
	return "forward"
}

// sign is +1 going up the route's distance axis, -1 going down.
func (r Reverser) sign() float64 {
	if r == Reverse {
		return -1
	}
	return 1
}

// Order is one command in a train's program.
type Order interface {
	fmt.Stringer
	order()
}

// MoveTo drives the train to a named spot and stops there.
type MoveTo struct {
	Spot route.SpotID
}

func (o MoveTo) order() {}
func (o MoveTo) String() string {
	return fmt.Sprintf("move to %s", o.Spot)
}

// SetReverser flips the train's direction. Completes instantly.
type SetReverser struct {
	Dir Reverser
}

func (o SetReverser) order() {}
func (o SetReverser) String() string {
	return fmt.Sprintf("set reverser %s", o.Dir)
}

// SetSwitch asks the world to throw a switch. Completes instantly; the
// switch change is an Effect for the driver to apply, not something the
// engine does itself.
type SetSwitch struct {
	Switch string
	State  layout.SwitchState
}

func (o SetSwitch) order() {}
func (o SetSwitch) String() string {
	return fmt.Sprintf("set switch %s %s", o.Switch, o.State)
}

// Wait holds the train stationary for a number of seconds.
type Wait struct {
	Seconds float64
}

func (o Wait) order() {}
func (o Wait) String() string {
	return fmt.Sprintf("wait %gs", o.Seconds)
}

// Couple is not implemented yet and always fails the program.
type Couple struct{}

func (o Couple) order() {}
func (o Couple) String() string {
	return "couple"
}

// Uncouple is not implemented yet and always fails the program.
type Uncouple struct {
	Count int
}

func (o Uncouple) order() {}
func (o Uncouple) String() string {
	return fmt.Sprintf("uncouple %d", o.Count)
}

// Effect describes a world-state change the engine wants. The engine never
// applies effects; the driver folds them into shared state after the step.
type Effect interface {
	fmt.Stringer
	effect()
}

// SetSwitchEffect repositions a switch for subsequent route builds.
type SetSwitchEffect struct {
	Switch string
	State  layout.SwitchState
}

func (e SetSwitchEffect) effect() {}
func (e SetSwitchEffect) String() string {
	return fmt.Sprintf("set switch %s %s", e.Switch, e.State)
}
