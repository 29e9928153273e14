package property

import (
	"github.com/gitrdm/gokanlogic/pkg/predicate"
	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Acceptor decides whether a scene-graph node is a valid candidate for
// a symbolic entity.
type Acceptor interface {
	Accepts(n *scenegraph.Node) bool
}

// AcceptorFunc adapts a plain function to the Acceptor interface.
type AcceptorFunc func(n *scenegraph.Node) bool

// Accepts implements Acceptor.
func (f AcceptorFunc) Accepts(n *scenegraph.Node) bool { return f(n) }

// BaseClassAcceptor accepts any node whose BaseClass is one of a fixed
// set, the common case for a symbolic entity ("any vehicle", "any
// stop sign").
type BaseClassAcceptor struct {
	classes map[string]struct{}
}

// NewBaseClassAcceptor builds a BaseClassAcceptor over the given class
// names.
func NewBaseClassAcceptor(classes ...string) BaseClassAcceptor {
	m := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		m[c] = struct{}{}
	}
	return BaseClassAcceptor{classes: m}
}

// Accepts implements Acceptor.
func (a BaseClassAcceptor) Accepts(n *scenegraph.Node) bool {
	_, ok := a.classes[n.BaseClass]
	return ok
}

// SymbolicEntity is a named, universally-quantified hole in a
// symbolic property: a declared identity plus an Acceptor that
// determines which scene-graph nodes may fill it. Identity is by Name
// alone, two SymbolicEntity values sharing a name are the same
// entity for every map/set purpose in this package.
type SymbolicEntity struct {
	Name     string
	Acceptor Acceptor
}

// EntityRef adapts a SymbolicEntity to the predicate package's opaque
// identity carrier, for use at the one call site where a Term literal
// is built from a SymbolicEntity (e.g. predicate.EntityLit(property.
// EntityRef(e))), the only place this package's callers need to
// reach across the predicate/property import boundary.
func EntityRef(e *SymbolicEntity) predicate.EntityRef {
	return predicate.EntityRef{Name: e.Name}
}

// ConcreteEntity is a symbolic entity specialised to one scene-graph
// node, identified by its stable cross-frame EntityID (not by a
// per-frame pointer, since the same logical node recurs across
// frames under a fresh *scenegraph.Node value each time).
type ConcreteEntity struct {
	Symbolic *SymbolicEntity
	EntityID string
}

// candidates returns every node in g that e's Acceptor accepts,
// excluding phantom nodes, as a ConcreteEntity, the candidate set for
// Cartesian-product expansion (spec §4.3).
func candidates(e *SymbolicEntity, g *scenegraph.Graph) []*ConcreteEntity {
	var out []*ConcreteEntity
	for _, n := range g.Nodes() {
		if n.Phantom {
			continue
		}
		if e.Acceptor.Accepts(n) {
			out = append(out, &ConcreteEntity{Symbolic: e, EntityID: n.ID()})
		}
	}
	return out
}
