// Package predicate implements the set-algebra predicate language
// evaluated against a scenegraph.Graph and a binding environment.
//
// A Term is a first-class tagged tree of deferred operations, never
// an opaque closure, so that it is serialisable, inspectable for the
// symbolic entities it references, and memoisable by a structural
// cache key (spec.md §9, "Predicate closures via partial application").
// Evaluation produces a Value, a small three-valued-logic sum type:
// every result is either Decided (a bool, a node Set, or an int) or
// Unbound, carrying the symbolic entities responsible. Unbound is a
// control-flow signal, not a Go error, it propagates through the set
// and comparison operators unchanged and is handled specially by the
// logical operators (see doc comments on And/Or/Not below) and, above
// this package, by the monitor's work-queue loop, which reacts to it
// by expanding a symbolic property against fresh candidate bindings.
package predicate

import (
	"fmt"
	"sort"

	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Kind discriminates the payload carried by a Value.
type Kind int

const (
	// KindBool carries a decided boolean result.
	KindBool Kind = iota
	// KindSet carries a decided set of scene-graph nodes.
	KindSet
	// KindInt carries a decided integer result (e.g. from Size).
	KindInt
	// KindUnbound means the result cannot be decided with the current
	// binding; Unbound names the symbolic entities responsible.
	KindUnbound
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindSet:
		return "set"
	case KindInt:
		return "int"
	case KindUnbound:
		return "unbound"
	default:
		return "invalid"
	}
}

// EntityRef names a symbolic entity without importing the property
// package (which imports predicate to build Term trees referencing
// entities, so the reverse import would cycle). Identity is by Name
// alone: symbolic entities hash and compare by name.
type EntityRef struct {
	Name string
}

// Set is a collection of scene-graph nodes, keyed by node identity
// (scenegraph.Node.ID()) so that membership and set algebra respect
// cross-frame node identity rather than pointer identity.
type Set map[string]*scenegraph.Node

// NewSet builds a Set from a slice of nodes.
func NewSet(nodes ...*scenegraph.Node) Set {
	s := make(Set, len(nodes))
	for _, n := range nodes {
		if n != nil {
			s[n.ID()] = n
		}
	}
	return s
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// sortedIDs returns the set's member IDs in ascending order, used for
// deterministic cache keys and test assertions.
func (s Set) sortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Value is the result of evaluating a Term: exactly one of the Kind-
// tagged fields is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Set     Set
	Int     int
	Unbound []EntityRef
}

// Decided reports whether the value is anything other than Unbound.
func (v Value) Decided() bool { return v.Kind != KindUnbound }

// BoolValue constructs a decided boolean Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// SetValue constructs a decided set Value.
func SetValue(s Set) Value { return Value{Kind: KindSet, Set: s} }

// IntValue constructs a decided integer Value.
func IntValue(n int) Value { return Value{Kind: KindInt, Int: n} }

// UnboundValue constructs an Unbound Value responsible for the given
// entities, deduplicated by name.
func UnboundValue(entities ...EntityRef) Value {
	seen := make(map[string]struct{}, len(entities))
	var out []EntityRef
	for _, e := range entities {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e)
	}
	return Value{Kind: KindUnbound, Unbound: out}
}

func mergeUnbound(vals ...Value) Value {
	var all []EntityRef
	for _, v := range vals {
		if v.Kind == KindUnbound {
			all = append(all, v.Unbound...)
		}
	}
	return UnboundValue(all...)
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindSet:
		return fmt.Sprintf("Set%v", v.Set.sortedIDs())
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindUnbound:
		names := make([]string, len(v.Unbound))
		for i, e := range v.Unbound {
			names[i] = e.Name
		}
		return fmt.Sprintf("Unbound%v", names)
	default:
		return "<invalid value>"
	}
}
