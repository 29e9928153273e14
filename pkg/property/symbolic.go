package property

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/automaton"
	"github.com/gitrdm/gokanlogic/pkg/predicate"
)

// SymbolicProperty is a named (DFA, symbol→predicate, declared
// entities) triple, the universally-quantified template from which
// concrete Instances are produced.
type SymbolicProperty struct {
	Name       string
	DFA        *automaton.DFA
	Predicates map[string]*predicate.Term
	Entities   []*SymbolicEntity
}

// New validates and constructs a SymbolicProperty: every symbol
// referenced by the DFA's guards must have a predicate, and every
// entity a predicate references must be among the declared entities.
func New(name string, dfa *automaton.DFA, predicates map[string]*predicate.Term, entities []*SymbolicEntity) (*SymbolicProperty, error) {
	declared := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		declared[e.Name] = struct{}{}
	}

	dfaSymbols := make(map[string]struct{})
	for _, transitions := range dfa.Transitions {
		for _, tr := range transitions {
			for _, sym := range tr.Symbols {
				dfaSymbols[sym] = struct{}{}
			}
		}
	}
	for sym := range dfaSymbols {
		if _, ok := predicates[sym]; !ok {
			return nil, fmt.Errorf("%w: property %q: DFA symbol %q has no predicate", ErrMalformedProperty, name, sym)
		}
	}

	for sym, term := range predicates {
		for _, ref := range term.Entities() {
			if _, ok := declared[ref.Name]; !ok {
				return nil, fmt.Errorf("%w: property %q: predicate %q references undeclared entity %q", ErrMalformedProperty, name, sym, ref.Name)
			}
		}
	}

	return &SymbolicProperty{Name: name, DFA: dfa, Predicates: predicates, Entities: entities}, nil
}

// entityByName looks up a declared entity by name, or returns nil.
func (sp *SymbolicProperty) entityByName(name string) *SymbolicEntity {
	for _, e := range sp.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}
