// Package drive steps a train's program forward in continuous time: motion
// control toward named spots, instant commands, timed waits, and terminal
// failure when an order cannot be satisfied.
package drive

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sabamiso/gatan/layout"
	"github.com/sabamiso/gatan/route"
)

// Motion constants. 11.11 m/s is 40 km/h.
const (
	Accel           = 2.0
	Brake           = 3.0
	EmergencyBrake  = 5.0
	MaxSpeed        = 11.11
	ArriveThreshold = 0.5
)

// StateKind is a train's program-execution state.
type StateKind int

const (
	// StateExecuting means the current order is being worked on.
	StateExecuting StateKind = iota
	// StateWaiting means the program ran out of orders; the train coasts
	// to a stop and sits there.
	StateWaiting
	// StateStopped is terminal for the current program: an order could
	// not be satisfied. Only external reprogramming gets a train out.
	StateStopped
)

type State struct {
	Kind StateKind
	// Reason is the human-readable failure sentence, set iff Kind is
	// StateStopped. The driver surfaces it verbatim.
	Reason string
}

func (s State) String() string {
	switch s.Kind {
	case StateExecuting:
		return "executing"
	case StateWaiting:
		return "waiting for orders"
	case StateStopped:
		return fmt.Sprintf("stopped: %s", s.Reason)
	default:
		return fmt.Sprintf("state%d", int(s.Kind))
	}
}

func stopped(reason string) State {
	return State{Kind: StateStopped, Reason: reason}
}

// Reserved failure messages for coupling behavior that does not exist yet.
// Only the first two are ever produced; the rest are part of the taxonomy's
// shape and have no triggering code path.
const (
	failCoupleNoAdjacent    = "Couple: no adjacent cars found"
	failUncoupleUnsupported = "Uncouple: not yet supported"
	failUncoupleMoving      = "Uncouple: train must be stopped"
	failUncoupleNothing     = "Uncouple: nothing to uncouple"
	failUncoupleLocomotive  = "Uncouple: cannot detach the locomotive"
)

// Train is one active train's full execution state. The engine mutates a
// copy once per tick; nothing else writes it.
type Train struct {
	ID uuid.UUID
	// FormI is the formation this train was spawned from.
	FormI uuid.UUID
	// ConsistLength is the train body's length in meters, trailing behind
	// Position.
	ConsistLength float64
	// Position is the lead car's front, as a distance along Route.
	Position float64
	// Speed in m/s, never negative.
	Speed    float64
	Reverser Reverser
	Route    route.Route
	Program  []Order
	// PC indexes the current order; PC == len(Program) means done.
	PC        int
	State     State
	WaitTimer float64
}

func (t *Train) String() string {
	return fmt.Sprintf("train %s pos%.2f v%.2f pc%d %s", t.ID, t.Position, t.Speed, t.PC, t.State)
}

// NewTrain builds a train at the start of its program.
func NewTrain(formI uuid.UUID, consistLength float64, r route.Route, program []Order) Train {
	t := Train{
		ID:            uuid.New(),
		FormI:         formI,
		ConsistLength: consistLength,
		Route:         r,
		Program:       program,
		PC:            -1,
	}
	return advance(t)
}

// advance moves to the next order, arming its timer if it needs one.
func advance(t Train) Train {
	t.PC++
	if t.PC >= len(t.Program) {
		t.PC = len(t.Program)
		t.State = State{Kind: StateWaiting}
		return t
	}
	t.State = State{Kind: StateExecuting}
	if w, ok := t.Program[t.PC].(Wait); ok {
		t.WaitTimer = w.Seconds
	}
	return t
}

// Engine holds the read-only context a step needs: the layout the route
// was built over and the spot table. It carries no mutable state, so one
// engine serves every train.
type Engine struct {
	Layout *layout.Layout
	Spots  route.SpotTable
}

// Step advances one train by dt seconds. It is pure: it returns the new
// train state and the effects for the driver to fold into shared world
// state, and touches nothing else. The driver must call it once per train
// per tick with the same dt for every train.
func (e *Engine) Step(dt float64, t Train) (Train, []Effect) {
	switch t.State.Kind {
	case StateStopped:
		t.Speed = 0
		return t, nil
	case StateWaiting:
		return coast(dt, t), nil
	}
	if t.PC >= len(t.Program) {
		t.State = State{Kind: StateWaiting}
		return coast(dt, t), nil
	}
	switch o := t.Program[t.PC].(type) {
	case SetReverser:
		t.Reverser = o.Dir
		return advance(t), nil
	case SetSwitch:
		return advance(t), []Effect{SetSwitchEffect{Switch: o.Switch, State: o.State}}
	case Wait:
		t.Speed = 0
		t.WaitTimer = math.Max(0, t.WaitTimer-dt)
		if t.WaitTimer <= 0 {
			t = advance(t)
		}
		return t, nil
	case Couple:
		t.Speed = 0
		t.State = stopped(failCoupleNoAdjacent)
		return t, nil
	case Uncouple:
		t.Speed = 0
		t.State = stopped(failUncoupleUnsupported)
		return t, nil
	case MoveTo:
		return e.stepMoveTo(dt, t, o), nil
	default:
		panic(fmt.Sprintf("unknown order %T", t.Program[t.PC]))
	}
}

// stepMoveTo is the motion-control tick for a MoveTo order.
func (e *Engine) stepMoveTo(dt float64, t Train, o MoveTo) Train {
	target, ok := route.SpotPosition(e.Layout, e.Spots, o.Spot, t.Route)
	if !ok {
		t.Speed = 0
		t.State = stopped(fmt.Sprintf("Cannot reach %s", o.Spot))
		return t
	}
	dir := t.Reverser.sign()
	dist := (target - t.Position) * dir
	if math.Abs(dist) < ArriveThreshold {
		t.Position = target
		t.Speed = 0
		return advance(t)
	}
	prevPos, prevSpeed := t.Position, t.Speed
	if dist > 0 {
		// Brake when the stopping distance has caught up with the
		// remaining distance, otherwise keep accelerating.
		var next float64
		if prevSpeed*prevSpeed/(2*Brake) >= dist {
			next = math.Max(0, prevSpeed-Brake*dt)
		} else {
			next = math.Min(MaxSpeed, prevSpeed+Accel*dt)
		}
		t.Position = prevPos + dir*0.5*(prevSpeed+next)*dt
		t.Speed = next
	} else {
		// Overshot: hold still; the arrival re-check below resolves it.
		t.Speed = 0
	}
	t = bufferStopBrake(dt, prevPos, prevSpeed, t)
	dist = (target - t.Position) * dir
	if math.Abs(dist) < ArriveThreshold || (t.Speed == 0 && math.Abs(dist) < 2*ArriveThreshold) {
		t.Position = target
		t.Speed = 0
		return advance(t)
	}
	return t
}

// coast decelerates an order-less train to a stand.
func coast(dt float64, t Train) Train {
	if t.Speed <= 0 {
		t.Speed = 0
		return t
	}
	prevPos, prevSpeed := t.Position, t.Speed
	t.Speed = math.Max(0, prevSpeed-Brake*dt)
	t.Position = prevPos + t.Reverser.sign()*0.5*(prevSpeed+t.Speed)*dt
	return bufferStopBrake(dt, prevPos, prevSpeed, t)
}

// bufferStopBrake overrides the tick's motion with emergency braking when
// the forward end of the route is closer than the train can stop in,
// accounting for the consist trailing the lead car. The override rewinds
// the tick: it decelerates from the pre-tick speed and re-integrates from
// the pre-tick position, then the result is clamped so the train can never
// pass the end of the route. Only the forward direction is protected in
// this version.
func bufferStopBrake(dt, prevPos, prevSpeed float64, t Train) Train {
	if t.Reverser != Forward {
		return t
	}
	margin := t.Route.TotalLength - prevPos
	stopDist := prevSpeed*prevSpeed/(2*EmergencyBrake) + t.ConsistLength
	if margin < stopDist && t.Speed > 0 {
		next := math.Max(0, prevSpeed-EmergencyBrake*dt)
		t.Position = prevPos + 0.5*(prevSpeed+next)*dt
		t.Speed = next
	}
	if t.Position > t.Route.TotalLength {
		t.Position = t.Route.TotalLength
	}
	return t
}
