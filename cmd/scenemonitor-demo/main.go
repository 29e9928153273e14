// Command scenemonitor-demo is a runnable usage sample for this
// module's libraries: it loads configuration, wires Prometheus
// telemetry into a monitor.Monitor, builds one symbolic property by
// hand (no external DFA artifact to load from disk in this sample),
// and drives it across a handful of synthetic frames.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gitrdm/gokanlogic/internal/config"
	"github.com/gitrdm/gokanlogic/internal/parallel"
	"github.com/gitrdm/gokanlogic/internal/telemetry"
	"github.com/gitrdm/gokanlogic/pkg/automaton"
	"github.com/gitrdm/gokanlogic/pkg/predicate"
	"github.com/gitrdm/gokanlogic/pkg/property"
	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("scenemonitor.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	baseLogger, err := telemetry.NewLogger(false)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer baseLogger.Sync()
	logger := baseLogger.With(zap.String("run_id", uuid.NewString()))

	sp, err := stoppedInBoxProperty()
	if err != nil {
		log.Fatalf("building property: %v", err)
	}

	streams := []parallel.Stream{
		{Route: "intersection_4", Frames: syntheticFrames()},
	}
	opts := parallel.Options{
		LogRoot:        cfg.LogRoot,
		Properties:     []*property.SymbolicProperty{sp},
		MaxConcurrency: cfg.MaxConcurrency,
		Recorder:       telemetry.PrometheusRecorder{},
	}

	logger.Info("starting demo run", zap.String("route", streams[0].Route), zap.Int("frames", len(streams[0].Frames)))

	results := parallel.RunStreams(context.Background(), streams, opts)
	for _, r := range results {
		if r.Err != nil {
			logger.Error("stream failed", zap.String("route", r.Route), zap.Error(r.Err))
			continue
		}
		fmt.Printf("route %q checked to completion; see %s/%s for violations and stats\n", r.Route, cfg.LogRoot, r.Route)
	}
}

// stoppedInBoxProperty declares a single entity "v" (any vehicle) and
// a one-step safety automaton: s0 self-loops while no vehicle has
// zero speed, and traps into a non-accepting state the first frame
// any vehicle is stopped.
func stoppedInBoxProperty() (*property.SymbolicProperty, error) {
	v := &property.SymbolicEntity{Name: "v", Acceptor: property.NewBaseClassAcceptor("vehicle")}

	filter := predicate.NumericFilter(func(speed float64) bool { return speed <= 0.1 })

	stoppedTerm := predicate.Gt(
		predicate.Size(predicate.FilterByAttr(predicate.EntityLit(property.EntityRef(v)), "speed_mps", filter)),
		predicate.IntLiteral(0),
	)

	dfa, err := automaton.New(
		"s0",
		[]automaton.State{"s0", "violation"},
		map[automaton.State]bool{"s0": true},
		map[automaton.State][]automaton.RawTransition{
			"s0":        {{Label: "stopped", Target: "violation"}, {Label: "!stopped", Target: "s0"}},
			"violation": {{Label: "true", Target: "violation"}},
		},
	)
	if err != nil {
		return nil, err
	}

	predicates := map[string]*predicate.Term{"stopped": stoppedTerm}
	return property.New("vehicle_must_not_stop", dfa, predicates, []*property.SymbolicEntity{v})
}

// syntheticFrames builds a three-frame sequence: the ego car and one
// other vehicle both moving, then the other vehicle coming to rest,
// then it moving again. On frame "2" two instances bound to car_2
// trap (the one carried over from frame "1" and the one expanded from
// frame "2"'s blank instance), so two violations are recorded, both
// written to the same file, 2.json.
func syntheticFrames() []*scenegraph.Graph {
	moving := map[string]interface{}{"speed_mps": 8.0}
	stopped := map[string]interface{}{"speed_mps": 0.0}

	frame := func(idx string, otherSpeed map[string]interface{}) *scenegraph.Graph {
		nodes := []*scenegraph.Node{
			scenegraph.NewNode("ego", "vehicle", moving),
			scenegraph.NewNode("car_2", "vehicle", otherSpeed),
		}
		return scenegraph.New(idx, "demo", nodes, nil)
	}

	return []*scenegraph.Graph{
		frame("1", moving),
		frame("2", stopped),
		frame("3", moving),
	}
}
