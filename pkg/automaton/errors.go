package automaton

import "errors"

// ErrMalformed indicates a DFA was stepped from a state where zero or
// more than one outgoing transition evaluated true under a fully
// decided binding. A correct DFA guarantees its guards form a total,
// disjoint partition of assignments, so this always means the DFA or
// the predicates feeding it are broken, never a runtime data
// condition.
var ErrMalformed = errors.New("automaton: no unique transition fires")

// ErrInputDFA indicates the raw DFA artifact itself is unusable: it is
// empty, carries Mona's error marker state, lacks a usable "init"
// pseudo-edge, or names states it does not declare. (The unreachable
// parser sentinel node is dropped by Load, not reported.)
var ErrInputDFA = errors.New("automaton: unusable DFA artifact")

// ErrGuardSyntax indicates a transition label could not be parsed as a
// propositional formula.
var ErrGuardSyntax = errors.New("automaton: malformed guard expression")
