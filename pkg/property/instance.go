package property

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gitrdm/gokanlogic/pkg/automaton"
	"github.com/gitrdm/gokanlogic/pkg/predicate"
	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// NameRecord is one frame's snapshot of an instance's binding,
// projected to node names (not entity IDs) for human-readable
// history. A nil entry means the entity was unbound at that frame.
type NameRecord struct {
	Frame string
	Names map[string]*string
}

// DataRecord is one frame's snapshot of the symbol values an
// instance's step evaluated, including any Unbound results.
type DataRecord struct {
	Frame  string
	Values map[string]predicate.Value
}

// Instance is a concrete property instance: a symbolic property
// specialised by a (possibly partial) binding of its declared
// entities to concrete scene-graph nodes, tracked across frames.
type Instance struct {
	Symbolic     *SymbolicProperty
	State        automaton.State
	Binding      map[string]*ConcreteEntity
	InitialFrame string
	Frames       []string
	NameHistory  []NameRecord
	DataHistory  []DataRecord
}

// Resolve implements predicate.Binding.
func (inst *Instance) Resolve(ref predicate.EntityRef) (string, bool) {
	ce, ok := inst.Binding[ref.Name]
	if !ok || ce == nil {
		return "", false
	}
	return ce.EntityID, true
}

// Blank creates a fresh all-None concrete instance for sp, seeding a
// new match attempt that has not yet witnessed any participant.
func (sp *SymbolicProperty) Blank(frame string) *Instance {
	binding := make(map[string]*ConcreteEntity, len(sp.Entities))
	for _, e := range sp.Entities {
		binding[e.Name] = nil
	}
	return &Instance{
		Symbolic:     sp,
		State:        sp.DFA.Init,
		Binding:      binding,
		InitialFrame: frame,
	}
}

// ExpandSpecific produces every valid extension of inst's binding that
// assigns a candidate to each of entityNames, leaving every other
// entry unchanged. includeNone additionally offers None as a
// candidate for each named entity (the monitor loop calls this with
// includeNone=false when expanding on Unbound, and with
// includeNone=true only when re-running a blank instance that trapped
// with nothing bound, so None bindings only ever derive from Blank).
// Extended instances inherit
// inheritState, DataHistory, NameHistory, and Frames; InitialFrame is
// preserved.
func (inst *Instance) ExpandSpecific(g *scenegraph.Graph, entityNames []string, includeNone bool, inheritState automaton.State) []*Instance {
	type slot struct {
		name  string
		cands []*ConcreteEntity
	}
	slots := make([]slot, 0, len(entityNames))
	for _, name := range entityNames {
		se := inst.Symbolic.entityByName(name)
		if se == nil {
			continue
		}
		var opts []*ConcreteEntity
		if includeNone {
			opts = append(opts, nil)
		}
		opts = append(opts, candidates(se, g)...)
		slots = append(slots, slot{name: name, cands: opts})
	}
	if len(slots) == 0 {
		return nil
	}

	preBound := make(map[string]string)
	for name, ce := range inst.Binding {
		if ce != nil {
			preBound[name] = ce.EntityID
		}
	}

	combos := [][]*ConcreteEntity{{}}
	for _, s := range slots {
		var next [][]*ConcreteEntity
		for _, combo := range combos {
			for _, c := range s.cands {
				nc := make([]*ConcreteEntity, len(combo)+1)
				copy(nc, combo)
				nc[len(combo)] = c
				next = append(next, nc)
			}
		}
		combos = next
	}

	var out []*Instance
	for _, combo := range combos {
		used := make(map[string]string, len(preBound))
		for k, v := range preBound {
			used[k] = v
		}
		valid := true
		anyNonNone := len(preBound) > 0
		for i, s := range slots {
			c := combo[i]
			if c == nil {
				continue
			}
			for otherName, otherID := range used {
				if otherName != s.name && otherID == c.EntityID {
					valid = false
					break
				}
			}
			if !valid {
				break
			}
			used[s.name] = c.EntityID
			anyNonNone = true
		}
		if !valid || !anyNonNone {
			continue
		}

		newBinding := make(map[string]*ConcreteEntity, len(inst.Binding))
		for k, v := range inst.Binding {
			newBinding[k] = v
		}
		for i, s := range slots {
			newBinding[s.name] = combo[i]
		}

		out = append(out, &Instance{
			Symbolic:     inst.Symbolic,
			State:        inheritState,
			Binding:      newBinding,
			InitialFrame: inst.InitialFrame,
			Frames:       append([]string(nil), inst.Frames...),
			NameHistory:  append([]NameRecord(nil), inst.NameHistory...),
			DataHistory:  append([]DataRecord(nil), inst.DataHistory...),
		})
	}
	return out
}

// Step evaluates one frame for inst: it determines the minimal symbol
// set referenced by current_state's outgoing transitions, evaluates
// (with memoisation on g's per-frame cache) each symbol's predicate,
// steps the DFA, and on success appends to the instance's history.
//
// Two return values carry three outcomes. (nil error) the instance
// advanced and its history was recorded; softUnbound may still be
// non-empty, naming entities behind a symbol that was unbound on some
// OTHER transition even though a different one fired true this frame;
// the caller should additionally expand against these entities (using
// inst.State as it was *before* this call as inheritState) without
// discarding the instance that just advanced. (*DeferredError, via
// errors.As) the step itself could not be decided; err's Entities names
// the entities to expand against, again with the pre-call state as
// inheritState. Any other error is fatal (ErrMalformed wraps a broken
// DFA/predicate pairing, ErrInput wraps a bad attribute/filter
// encountered while evaluating a predicate).
func (inst *Instance) Step(g *scenegraph.Graph, frame string) (softUnbound []string, err error) {
	transitions := inst.Symbolic.DFA.Transitions[inst.State]
	needed := make(map[string]struct{})
	for _, tr := range transitions {
		for _, sym := range tr.Symbols {
			needed[sym] = struct{}{}
		}
	}

	values := make(map[string]predicate.Value, len(needed))
	for sym := range needed {
		term, ok := inst.Symbolic.Predicates[sym]
		if !ok {
			return nil, fmt.Errorf("%w: property %q: symbol %q has no predicate", ErrMalformed, inst.Symbolic.Name, sym)
		}
		key := cacheKey(inst.Symbolic.Name, sym, inst.Binding)
		if cached, hit := g.CacheGet(key); hit {
			values[sym] = cached.(predicate.Value)
			continue
		}
		v, evalErr := predicate.Eval(term, g, inst)
		if evalErr != nil {
			return nil, fmt.Errorf("%w: property %q symbol %q: %v", ErrInput, inst.Symbolic.Name, sym, evalErr)
		}
		g.CachePut(key, v)
		values[sym] = v
	}

	lookup := func(sym string) (bool, bool) {
		v := values[sym]
		if v.Kind == predicate.KindUnbound {
			return false, true
		}
		return v.Bool, false
	}

	next, unboundSymbols, stepErr := inst.Symbolic.DFA.Step(inst.State, lookup)
	if stepErr != nil {
		var deferred *automaton.DeferredError
		if errors.As(stepErr, &deferred) {
			return nil, &DeferredError{Entities: entitiesForSymbols(values, deferred.Symbols)}
		}
		return nil, fmt.Errorf("%w: property %q: %v", ErrMalformed, inst.Symbolic.Name, stepErr)
	}

	inst.State = next
	inst.Frames = append(inst.Frames, frame)
	inst.NameHistory = append(inst.NameHistory, NameRecord{Frame: frame, Names: snapshotNames(inst.Binding, g)})
	inst.DataHistory = append(inst.DataHistory, DataRecord{Frame: frame, Values: values})
	return entitiesForSymbols(values, unboundSymbols), nil
}

// entitiesForSymbols names the symbolic entities actually responsible
// for each named symbol being unbound, read from the runtime
// evaluation result (Value.Unbound), not from statically walking the
// predicate term's syntax tree: a symbol's term may reference several
// entities while only some of them are unbound at evaluation time
// (e.g. "too_close & same_lane" over a v1/v2 pair, where only v2 lacks
// a binding), and only those actually-unbound entities may be offered
// fresh candidates, never ones already bound.
func entitiesForSymbols(values map[string]predicate.Value, symbols []string) []string {
	seen := make(map[string]struct{})
	for _, sym := range symbols {
		v, ok := values[sym]
		if !ok || v.Kind != predicate.KindUnbound {
			continue
		}
		for _, ref := range v.Unbound {
			seen[ref.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func snapshotNames(binding map[string]*ConcreteEntity, g *scenegraph.Graph) map[string]*string {
	out := make(map[string]*string, len(binding))
	for name, ce := range binding {
		if ce == nil {
			out[name] = nil
			continue
		}
		if n, ok := g.NodeByID(ce.EntityID); ok {
			nm := n.Name
			out[name] = &nm
			continue
		}
		out[name] = nil
	}
	return out
}
