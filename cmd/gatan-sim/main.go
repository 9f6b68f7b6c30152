package main

import (
	"encoding/json"
	"flag"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sabamiso/gatan/cars"
	"github.com/sabamiso/gatan/drive"
	"github.com/sabamiso/gatan/feed"
	"github.com/sabamiso/gatan/layout"
	"github.com/sabamiso/gatan/route"
	"github.com/sabamiso/gatan/world"
)

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	carsPath := flag.String("cars", "cars.json", "formation catalog (optional)")
	listen := flag.String("listen", "localhost:8100", "address for the snapshot feed")
	dt := flag.Float64("dt", 0.05, "tick length in seconds")
	limit := flag.Duration("limit", 10*time.Minute, "maximum simulated time")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	carsData := loadCars(*carsPath)

	y, spots, spawns := world.InitYard()
	w := world.New(y, spots)

	go func() {
		http.Handle("/feed", feed.NewServer(w))
		zap.S().Infof("snapshot feed on http://%s/feed?stream=snapshot", *listen)
		zap.S().Error(http.ListenAndServe(*listen, nil))
	}()

	// Local freight: pull into the platform siding, work it, then leave
	// the way it came. The switch must already be reversed when the
	// train spawns: routes are built once, at spawn, and never rebuilt.
	w.Switches["main"] = layout.SwitchReverse
	var formI uuid.UUID
	var formLen float64
	for i, f := range carsData.Forms {
		formI, formLen = i, f.Length
		break
	}
	_, err = w.Spawn(world.ScheduledTrain{
		FormI:         formI,
		ConsistLength: formLen,
		Spawn:         spawns["east"],
		Program: []drive.Order{
			drive.MoveTo{Spot: route.SpotPlatform},
			drive.Wait{Seconds: 30},
			drive.SetSwitch{Switch: "main", State: layout.SwitchNormal},
			drive.SetReverser{Dir: drive.Reverse},
			drive.MoveTo{Spot: route.SpotEastTunnel},
		},
	})
	if err != nil {
		zap.S().Fatalf("spawn local freight: %s", err)
	}

	// Way freight from the west: set out on the team track, head home.
	_, err = w.Spawn(world.ScheduledTrain{
		FormI:         formI,
		ConsistLength: formLen,
		Spawn:         spawns["west"],
		Program: []drive.Order{
			drive.MoveTo{Spot: route.SpotTeamTrack},
			drive.Wait{Seconds: 10},
			drive.SetReverser{Dir: drive.Reverse},
			drive.MoveTo{Spot: route.SpotWestTunnel},
		},
	})
	if err != nil {
		zap.S().Fatalf("spawn through train: %s", err)
	}

	ticker := time.NewTicker(time.Duration(*dt * float64(time.Second)))
	defer ticker.Stop()
	for range ticker.C {
		w.Tick(*dt)
		if w.Clock > limit.Seconds() {
			zap.S().Warnw("time limit reached", "clock", w.Clock)
			break
		}
		if w.Done() {
			zap.S().Infow("all programs finished", "clock", w.Clock)
			break
		}
	}
	for i := range w.Trains {
		t := &w.Trains[i]
		zap.S().Infow("final train state",
			"train", t.ID,
			"position", math.Round(t.Position*100)/100,
			"state", t.State.String())
	}
}

// loadCars reads the formation catalog, falling back to a built-in demo
// formation when the file is missing.
func loadCars(path string) cars.Data {
	data, err := os.ReadFile(path)
	if err != nil {
		zap.S().Infow("no formation catalog, using built-in demo form", "path", path)
		return cars.Data{Forms: map[uuid.UUID]cars.Form{
			uuid.New(): {
				Comment: "demo local freight",
				Length:  30,
				Cars: []cars.Car{
					{Comment: "switcher", Length: 10, Powered: true},
					{Comment: "boxcar", Length: 10},
					{Comment: "boxcar", Length: 10},
				},
			},
		}}
	}
	var cd cars.Data
	if err := json.Unmarshal(data, &cd); err != nil {
		zap.S().Fatalf("parse %s: %s", path, err)
	}
	return cd
}
