// Package monitor drives the per-frame work-queue loop: it seeds a
// blank instance of every registered property each frame, steps every
// live instance to a fixpoint (expanding against fresh candidate
// bindings whenever a step cannot be decided), retires trap states
// either silently (accepting) or as a recorded Violation (non-
// accepting), and persists progress incrementally so a fatal error
// mid-run still leaves a usable partial result.
package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitrdm/gokanlogic/pkg/property"
	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Monitor drives one route's worth of properties across a sequence of
// frames. A Monitor is not safe for concurrent use, callers wanting
// to check several routes in parallel should run one Monitor per
// route (see internal/parallel).
type Monitor struct {
	logRoot string
	route   string

	properties []*property.SymbolicProperty
	live       []*property.Instance
	violations map[string][]*Violation
	recorder   Recorder

	egoID              string
	egoSeen            bool
	iterationsPerFrame map[string]map[string]int
}

// Recorder observes a Monitor's per-frame activity. It exists so this
// package never binds to a concrete metrics backend, internal/telemetry
// supplies a Prometheus-backed implementation, wired in by the caller
// that constructs a Monitor (e.g. cmd/scenemonitor-demo).
type Recorder interface {
	RecordIterations(route, property string, n int)
	RecordViolation(route, property string)
	RecordLiveInstances(route, property string, n int)
}

type noopRecorder struct{}

func (noopRecorder) RecordIterations(string, string, int)    {}
func (noopRecorder) RecordViolation(string, string)          {}
func (noopRecorder) RecordLiveInstances(string, string, int) {}

// Option configures a Monitor at construction time.
type Option func(*Monitor)

// WithRecorder attaches a Recorder; without one, Monitor records
// nothing beyond what Check already returns and persists to disk.
func WithRecorder(r Recorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

// New constructs a Monitor rooted at <logRoot>/<route>, creating that
// directory (and every per-property violations/ subdirectory) up
// front so later writes are never the first ones to discover a
// missing path.
func New(logRoot, route string, properties []*property.SymbolicProperty, opts ...Option) (*Monitor, error) {
	routePath := filepath.Join(logRoot, route)
	if err := os.MkdirAll(routePath, 0o755); err != nil {
		return nil, fmt.Errorf("monitor: creating route directory: %w", err)
	}
	for _, sp := range properties {
		dir := filepath.Join(routePath, sp.Name, "violations")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("monitor: creating violations directory for %q: %w", sp.Name, err)
		}
	}
	m := &Monitor{
		logRoot:            logRoot,
		route:              route,
		properties:         properties,
		violations:         make(map[string][]*Violation),
		recorder:           noopRecorder{},
		iterationsPerFrame: make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// routePath returns <logRoot>/<route>.
func (m *Monitor) routePath() string {
	return filepath.Join(m.logRoot, m.route)
}

// Check evaluates one frame of graph g against every live instance
// plus a freshly seeded blank instance per registered property,
// draining the resulting work queue to a fixpoint.
//
// Error classification: a *property.DeferredError is never returned
// from Check (it is consumed internally to drive re-expansion). An
// error wrapping property.ErrMalformed is fatal for this frame: Check
// stops draining the queue and returns immediately, so every
// instance still waiting in the queue (including ones enqueued before
// the failure) does not run this frame, whatever violations were
// already recorded and the last successfully written stats.json are
// left in place. An error wrapping property.ErrInput drops only the
// single affected instance; every other instance (same or different
// property) continues to completion for this frame.
func (m *Monitor) Check(g *scenegraph.Graph) error {
	if !m.egoSeen {
		if n := g.Ego(); n != nil {
			m.egoID = n.ID()
		}
		m.egoSeen = true
	}

	queue := make([]*property.Instance, 0, len(m.live)+len(m.properties))
	queue = append(queue, m.live...)
	for _, sp := range m.properties {
		queue = append(queue, sp.Blank(g.Frame))
	}

	iterations := make(map[string]int)
	var kept []*property.Instance

	for len(queue) > 0 {
		inst := queue[0]
		queue = queue[1:]
		iterations[inst.Symbolic.Name]++

		prevState := inst.State
		soft, err := inst.Step(g, g.Frame)
		if err != nil {
			var deferred *property.DeferredError
			if errors.As(err, &deferred) {
				queue = append(queue, inst.ExpandSpecific(g, deferred.Entities, false, prevState)...)
				continue
			}
			if errors.Is(err, property.ErrMalformed) {
				return fmt.Errorf("monitor: frame %q: %w", g.Frame, err)
			}
			if errors.Is(err, property.ErrInput) {
				continue
			}
			return err
		}

		if inst.Symbolic.DFA.IsTrap(inst.State) {
			// A blank instance that reaches a violating trap with nothing
			// bound is re-run once per valid binding, so one violation is
			// recorded per valid binding rather than one for all-None.
			var blankNames []string
			for _, e := range inst.Symbolic.Entities {
				if inst.Binding[e.Name] != nil {
					blankNames = nil
					break
				}
				blankNames = append(blankNames, e.Name)
			}
			if len(blankNames) > 0 && !inst.Symbolic.DFA.IsAccepting(inst.State) {
				queue = append(queue, inst.Symbolic.Blank(inst.InitialFrame).ExpandSpecific(g, blankNames, true, prevState)...)
			} else if !inst.Symbolic.DFA.IsAccepting(inst.State) {
				v := &Violation{
					PropertyName:  inst.Symbolic.Name,
					ViolationTime: g.Frame,
					InitialFrame:  inst.InitialFrame,
					EgoID:         m.egoID,
					Binding:       inst.Binding,
					NameHistory:   inst.NameHistory,
					DataHistory:   inst.DataHistory,
				}
				if err := m.recordViolation(v); err != nil {
					return err
				}
			}
		} else {
			kept = append(kept, inst)
		}

		if len(soft) > 0 {
			queue = append(queue, inst.ExpandSpecific(g, soft, false, prevState)...)
		}
	}

	m.live = kept
	m.iterationsPerFrame[g.Frame] = iterations

	for name, n := range iterations {
		m.recorder.RecordIterations(m.route, name, n)
	}
	liveCounts := make(map[string]int, len(m.properties))
	for _, inst := range kept {
		liveCounts[inst.Symbolic.Name]++
	}
	for _, sp := range m.properties {
		m.recorder.RecordLiveInstances(m.route, sp.Name, liveCounts[sp.Name])
	}

	return m.writeStats()
}

// recordViolation appends v to the in-memory violation log and writes
// it to <route>/<property_name>/violations/<violation_time>.json
// immediately, so a fatal error on a later frame still leaves every
// violation discovered so far on disk.
func (m *Monitor) recordViolation(v *Violation) error {
	m.violations[v.PropertyName] = append(m.violations[v.PropertyName], v)
	m.recorder.RecordViolation(m.route, v.PropertyName)

	dir := filepath.Join(m.routePath(), v.PropertyName, "violations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("monitor: creating violations directory for %q: %w", v.PropertyName, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("monitor: marshalling violation for %q: %w", v.PropertyName, err)
	}
	path := filepath.Join(dir, v.ViolationTime+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("monitor: writing violation file %q: %w", path, err)
	}
	return nil
}

// writeStats overwrites <route>/stats.json with the iteration counts
// accumulated so far: frame -> property name -> iteration count. It is
// called after every frame so a fatal error mid-run leaves the last
// good snapshot rather than none at all.
func (m *Monitor) writeStats() error {
	data, err := json.Marshal(m.iterationsPerFrame)
	if err != nil {
		return fmt.Errorf("monitor: marshalling stats: %w", err)
	}
	path := filepath.Join(m.routePath(), "stats.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("monitor: writing stats file %q: %w", path, err)
	}
	return nil
}

// Violations returns every violation recorded so far for propertyName.
func (m *Monitor) Violations(propertyName string) []*Violation {
	return m.violations[propertyName]
}
