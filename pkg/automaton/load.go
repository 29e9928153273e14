package automaton

import "fmt"

// monaErrorState is the state name the LTLf-to-DFA compiler emits when
// its underlying Mona solver fails to parse the formula (typically
// because it is too large). An artifact containing it is unusable.
const monaErrorState State = "0.0"

// parserSentinel is a stray node some DFA compilers leave behind
// purely as a rendering artifact, unreachable from any real state. It
// is dropped rather than treated as part of the automaton.
const parserSentinel State = `\n`

// initPseudoState is the synthetic entry node some DFA artifacts use
// to carry an unconditional edge into the real initial state, rather
// than naming the initial state directly.
const initPseudoState State = "init"

// RawDFA is the external, not-yet-validated shape of a DFA artifact as
// produced by an upstream LTLf-to-DFA compiler: every state (including
// the synthetic "init" pseudo-state, if present) with its outgoing
// transition labels, plus the accepting set.
type RawDFA struct {
	States      []State
	Accepting   []State
	Transitions map[State][]RawTransition
}

// Load validates and unwraps a RawDFA into a DFA: it rejects Mona's
// error marker state, drops the unreachable parser sentinel node (and
// every transition into or out of it), then
// resolves the real initial state by following the synthetic "init"
// pseudo-state's single unconditional edge (when present), callers
// that already know their real initial state directly may skip Load
// and call New.
func Load(raw RawDFA) (*DFA, error) {
	if len(raw.States) == 0 {
		return nil, fmt.Errorf("%w: empty DFA artifact", ErrInputDFA)
	}
	for _, s := range raw.States {
		if s == monaErrorState {
			return nil, fmt.Errorf("%w: artifact contains Mona's error marker state %q (formula likely too large to compile)", ErrInputDFA, monaErrorState)
		}
	}

	states := make([]State, 0, len(raw.States))
	transitions := make(map[State][]RawTransition, len(raw.Transitions))
	for _, s := range raw.States {
		if s == parserSentinel {
			continue
		}
		states = append(states, s)
	}
	for s, ts := range raw.Transitions {
		if s == parserSentinel {
			continue
		}
		filtered := make([]RawTransition, 0, len(ts))
		for _, t := range ts {
			if t.Target == parserSentinel {
				continue
			}
			filtered = append(filtered, t)
		}
		transitions[s] = filtered
	}

	init, err := resolveInit(states, transitions)
	if err != nil {
		return nil, err
	}

	accepting := make(map[State]bool, len(raw.Accepting))
	for _, s := range raw.Accepting {
		if s == parserSentinel {
			continue
		}
		accepting[s] = true
	}

	// the synthetic "init" pseudo-state itself is not a real state of
	// the automaton once its single edge has been resolved.
	finalStates := make([]State, 0, len(states))
	for _, s := range states {
		if s == initPseudoState {
			continue
		}
		finalStates = append(finalStates, s)
	}
	delete(transitions, initPseudoState)

	return New(init, finalStates, accepting, transitions)
}

// resolveInit follows the "init" pseudo-state's unique unconditional
// edge to find the real start state. If no pseudo-state is present,
// or it does not have exactly one outgoing edge, an ErrInputDFA error
// is returned.
func resolveInit(states []State, transitions map[State][]RawTransition) (State, error) {
	edges, ok := transitions[initPseudoState]
	if !ok {
		return "", fmt.Errorf("%w: no initial state pseudo-edge found", ErrInputDFA)
	}
	if len(edges) != 1 {
		return "", fmt.Errorf("%w: \"init\" pseudo-state must have exactly one outgoing edge, found %d", ErrInputDFA, len(edges))
	}
	return edges[0].Target, nil
}
