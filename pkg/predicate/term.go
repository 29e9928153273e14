package predicate

import (
	"fmt"
	"regexp"

	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Op identifies the operator a Term applies.
type Op int

const (
	// OpEgo is the literal set containing the unique "ego" node.
	OpEgo Op = iota
	// OpG is the literal set of every node in the graph.
	OpG
	// OpEntity resolves a symbolic entity through the binding.
	OpEntity
	// OpIntLiteral is a constant integer.
	OpIntLiteral

	OpFilterByAttr
	OpRelSet
	OpUnion
	OpIntersection
	OpDifference
	OpSymmetricDifference

	OpSize
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe

	OpAnd
	OpOr
	OpNot
	OpImplies
	OpXor
	OpBooleanEquals
	OpIte

	OpDefined
)

// Filter selects nodes by attribute value inside FilterByAttr. Exactly
// one of Regex or Numeric must be set: Regex matches string-valued
// attributes (including the special "name" and "base_class" fields),
// Numeric matches numeric attributes.
type Filter struct {
	Regex   *regexp.Regexp
	Numeric func(float64) bool
}

// RegexFilter compiles pattern into a string-attribute Filter.
func RegexFilter(pattern string) (Filter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Filter{}, fmt.Errorf("predicate: invalid filter regexp %q: %w", pattern, err)
	}
	return Filter{Regex: re}, nil
}

// NumericFilter wraps a numeric comparison function into a Filter.
func NumericFilter(f func(float64) bool) Filter {
	return Filter{Numeric: f}
}

// Term is a node in the predicate expression tree. Exactly the fields
// relevant to Op are populated; this is a tagged tree (not an opaque
// closure) so that it can be walked for symbolic entities and hashed
// into a deterministic memoisation key.
type Term struct {
	Op       Op
	Children []*Term

	// OpEntity
	Entity EntityRef
	// OpIntLiteral
	IntLit int
	// OpFilterByAttr
	AttrName string
	Filter   Filter
	// OpRelSet
	Label string
	Dir   scenegraph.EdgeDirection
}

// Ego is the literal set containing the unique node named "ego".
func Ego() *Term { return &Term{Op: OpEgo} }

// G is the literal set of every node in the graph.
func G() *Term { return &Term{Op: OpG} }

// EntityLit resolves a symbolic entity to its (possibly empty)
// singleton node set via the binding.
func EntityLit(ref EntityRef) *Term { return &Term{Op: OpEntity, Entity: ref} }

// IntLiteral is a constant integer operand for comparisons.
func IntLiteral(n int) *Term { return &Term{Op: OpIntLiteral, IntLit: n} }

// FilterByAttr filters set by attr using filter.
func FilterByAttr(set *Term, attr string, filter Filter) *Term {
	return &Term{Op: OpFilterByAttr, Children: []*Term{set}, AttrName: attr, Filter: filter}
}

// RelSet follows relation label from set in the given direction.
func RelSet(set *Term, label string, dir scenegraph.EdgeDirection) *Term {
	return &Term{Op: OpRelSet, Children: []*Term{set}, Label: label, Dir: dir}
}

// Union, Intersection, Difference, and SymmetricDifference are the
// standard set operators, each propagating Unbound per Testable
// Property 5.
func Union(a, b *Term) *Term { return &Term{Op: OpUnion, Children: []*Term{a, b}} }

func Intersection(a, b *Term) *Term { return &Term{Op: OpIntersection, Children: []*Term{a, b}} }

func Difference(a, b *Term) *Term { return &Term{Op: OpDifference, Children: []*Term{a, b}} }

func SymmetricDifference(a, b *Term) *Term {
	return &Term{Op: OpSymmetricDifference, Children: []*Term{a, b}}
}

// Size returns the cardinality of set.
func Size(set *Term) *Term { return &Term{Op: OpSize, Children: []*Term{set}} }

// Lt, Le, Gt, and Ge compare two integer-valued operands; Eq and Ne
// compare two operands of any kind (operands of different kinds are
// unequal).
func Lt(a, b *Term) *Term { return &Term{Op: OpLt, Children: []*Term{a, b}} }
func Le(a, b *Term) *Term { return &Term{Op: OpLe, Children: []*Term{a, b}} }
func Gt(a, b *Term) *Term { return &Term{Op: OpGt, Children: []*Term{a, b}} }
func Ge(a, b *Term) *Term { return &Term{Op: OpGe, Children: []*Term{a, b}} }
func Eq(a, b *Term) *Term { return &Term{Op: OpEq, Children: []*Term{a, b}} }
func Ne(a, b *Term) *Term { return &Term{Op: OpNe, Children: []*Term{a, b}} }

// And, Or, Not, Implies, Xor, and BooleanEquals implement three-valued
// boolean logic over possibly-Unbound operands.
func And(a, b *Term) *Term { return &Term{Op: OpAnd, Children: []*Term{a, b}} }
func Or(a, b *Term) *Term  { return &Term{Op: OpOr, Children: []*Term{a, b}} }
func Not(a *Term) *Term    { return &Term{Op: OpNot, Children: []*Term{a}} }
func Implies(a, b *Term) *Term {
	return &Term{Op: OpImplies, Children: []*Term{a, b}}
}
func Xor(a, b *Term) *Term { return &Term{Op: OpXor, Children: []*Term{a, b}} }
func BooleanEquals(a, b *Term) *Term {
	return &Term{Op: OpBooleanEquals, Children: []*Term{a, b}}
}

// Ite is "if cond then a else b"; a and b may be any term kind.
func Ite(cond, a, b *Term) *Term { return &Term{Op: OpIte, Children: []*Term{cond, a, b}} }

// Defined reports whether the binding maps entity to a concrete node.
// This is the only symbolic-entity reference Defined takes directly
// (not an arbitrary subterm).
func Defined(entity EntityRef) *Term { return &Term{Op: OpDefined, Entity: entity} }

// Entities returns every distinct symbolic entity referenced anywhere
// in the term tree, sorted by name. This powers property.New's check
// that every predicate only references declared entities; it is a
// static over-approximation and must not be used to decide which
// entities are unbound at evaluation time (see Value.Unbound).
func (t *Term) Entities() []EntityRef {
	seen := make(map[string]EntityRef)
	var walk func(*Term)
	walk = func(n *Term) {
		if n == nil {
			return
		}
		if n.Op == OpEntity || n.Op == OpDefined {
			seen[n.Entity.Name] = n.Entity
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t)
	out := make([]EntityRef, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sortEntityRefs(out)
	return out
}

func sortEntityRefs(refs []EntityRef) {
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j-1].Name > refs[j].Name; j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
		}
	}
}
