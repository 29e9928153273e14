package property

import "errors"

// ErrMalformedProperty is raised at SymbolicProperty construction when
// the DFA's guards reference a symbol with no predicate, or a
// predicate references an entity not among the property's declared
// entities.
var ErrMalformedProperty = errors.New("property: malformed symbolic property")

// ErrMalformed marks a failed Step: no unique transition fired under a
// complete binding (the automaton's error text is included in the
// message, not wrapped), or a DFA symbol has no predicate. Fatal for
// the frame being processed.
var ErrMalformed = errors.New("property: no unique DFA transition fires")

// ErrInput wraps a predicate evaluation failure (missing attribute,
// filter/attribute type mismatch) bubbling up from Step. Fatal only
// for the affected instance.
var ErrInput = errors.New("property: predicate evaluation failed")

// DeferredError is returned by Instance.Step when the DFA step could
// not be decided because one or more predicates evaluated Unbound.
// Entities lists the symbolic entity names responsible, sorted and
// deduplicated; the caller re-queues extensions of this instance via
// ExpandSpecific.
type DeferredError struct {
	Entities []string
}

func (e *DeferredError) Error() string {
	return "property: step deferred pending entities " + join(e.Entities)
}

func join(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
