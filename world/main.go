// Package world is the driver around the execution engine: it owns the
// layout, the live switch states and every active train, steps them each
// tick with the same elapsed time, and folds the effects the engine
// returns back into shared state.
package world

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/sabamiso/gatan/drive"
	"github.com/sabamiso/gatan/layout"
	"github.com/sabamiso/gatan/notify"
	"github.com/sabamiso/gatan/route"
)

// SpawnPoint is a portal a train can enter the world through. Start is the
// portal element's single connector; the route is built by following its
// connection into the layout.
type SpawnPoint struct {
	Comment string
	Start   layout.ConnRef
}

// ScheduledTrain describes a train to spawn: where it enters, what it is,
// and the program it will execute.
type ScheduledTrain struct {
	FormI         uuid.UUID
	ConsistLength float64
	Spawn         SpawnPoint
	Program       []drive.Order
}

// World holds all shared simulation state.
type World struct {
	Layout *layout.Layout
	// Switches is the live switch state: written by folding effects,
	// read (as a snapshot) at route-build time only. Routes already
	// built are deliberately never rebuilt when a switch moves; a train
	// mid-journey keeps its stale route.
	Switches layout.Switches
	Spots    route.SpotTable
	Engine   *drive.Engine
	Trains   []drive.Train
	// Clock is accumulated simulated seconds.
	Clock float64

	snapS       *notify.Sender[Snapshot]
	SnapshotMux *notify.Multiplexer[Snapshot]
}

func New(y *layout.Layout, spots route.SpotTable) *World {
	w := &World{
		Layout:   y,
		Switches: layout.Switches{},
		Spots:    spots,
		Engine:   &drive.Engine{Layout: y, Spots: spots},
	}
	w.snapS, w.SnapshotMux = notify.New[Snapshot]("world")
	return w
}

// Spawn builds the train's route from the spawn portal using a snapshot of
// the current switch states, then adds the train. The route is built
// exactly once per train.
func (w *World) Spawn(st ScheduledTrain) (uuid.UUID, error) {
	r, err := route.Build(w.Layout, st.Spawn.Start, w.Switches.Clone())
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("spawn at %s: %w", st.Spawn.Comment, err)
	}
	t := drive.NewTrain(st.FormI, st.ConsistLength, r, st.Program)
	w.Trains = append(w.Trains, t)
	zap.S().Infow("spawned train",
		"train", t.ID,
		"spawn", st.Spawn.Comment,
		"routeLength", r.TotalLength,
		"orders", len(st.Program))
	return t.ID, nil
}

// Tick advances the whole world by dt seconds: every train is stepped with
// the same dt, effects are folded into shared state, and trains whose
// rearmost point has passed the end of their route are despawned.
func (w *World) Tick(dt float64) {
	var effects []drive.Effect
	for i := range w.Trains {
		before := w.Trains[i].State.Kind
		var fx []drive.Effect
		w.Trains[i], fx = w.Engine.Step(dt, w.Trains[i])
		effects = append(effects, fx...)
		if after := w.Trains[i].State; after.Kind != before {
			zap.S().Infow("train state changed",
				"train", w.Trains[i].ID,
				"state", after.String())
		}
	}
	for _, e := range effects {
		w.apply(e)
	}
	w.Trains = slices.DeleteFunc(w.Trains, func(t drive.Train) bool {
		gone := t.Position-t.ConsistLength > t.Route.TotalLength
		if gone {
			zap.S().Infow("despawned train", "train", t.ID)
		}
		return gone
	})
	w.Clock += dt
	w.snapS.Send(w.Snapshot())
}

// apply folds one effect into shared state. Switch changes affect future
// route builds only.
func (w *World) apply(e drive.Effect) {
	switch e := e.(type) {
	case drive.SetSwitchEffect:
		w.Switches[e.Switch] = e.State
		zap.S().Infow("switch thrown", "switch", e.Switch, "state", e.State.String())
	default:
		panic(fmt.Sprintf("unknown effect %T", e))
	}
}

// Snapshot is a JSON-friendly view of the world for feeds and panels.
type Snapshot struct {
	Clock    float64           `json:"clock"`
	Switches map[string]string `json:"switches"`
	Trains   []TrainSnapshot   `json:"trains"`
}

type TrainSnapshot struct {
	ID       string  `json:"id"`
	Position float64 `json:"position"`
	Speed    float64 `json:"speed"`
	PC       int     `json:"pc"`
	State    string  `json:"state"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Heading  float64 `json:"heading"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Clock:    w.Clock,
		Switches: map[string]string{},
		Trains:   make([]TrainSnapshot, 0, len(w.Trains)),
	}
	for name, st := range w.Switches {
		s.Switches[name] = st.String()
	}
	for i := range w.Trains {
		t := &w.Trains[i]
		ts := TrainSnapshot{
			ID:       t.ID.String(),
			Position: t.Position,
			Speed:    t.Speed,
			PC:       t.PC,
			State:    t.State.String(),
		}
		if pos, dir, ok := t.Route.At(t.Position); ok {
			ts.X, ts.Y, ts.Heading = pos.X, pos.Y, dir
		}
		s.Trains = append(s.Trains, ts)
	}
	return s
}

// Done reports whether every train has finished or failed its program.
func (w *World) Done() bool {
	for i := range w.Trains {
		if w.Trains[i].State.Kind == drive.StateExecuting {
			return false
		}
	}
	return true
}
