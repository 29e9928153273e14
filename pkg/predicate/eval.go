package predicate

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Binding resolves a symbolic entity reference to the concrete node ID
// it is currently bound to, within one concrete property instance's
// binding environment. The second return value is false when the
// entity has no binding yet ("None").
type Binding interface {
	Resolve(ref EntityRef) (nodeID string, bound bool)
}

// Eval evaluates t against graph g under binding b, returning a Value
// or an InputError-class error. Unbound results are never Go errors;
// they are KindUnbound Values, propagated per the three-valued logic
// rules documented on Term's operator constructors.
func Eval(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	if t == nil {
		return Value{}, fmt.Errorf("%w: nil term", ErrMalformedTerm)
	}
	switch t.Op {
	case OpEgo:
		if n := g.Ego(); n != nil {
			return SetValue(NewSet(n)), nil
		}
		return SetValue(NewSet()), nil

	case OpG:
		return SetValue(NewSet(g.Nodes()...)), nil

	case OpEntity:
		id, bound := b.Resolve(t.Entity)
		if !bound {
			return UnboundValue(t.Entity), nil
		}
		if n, ok := g.NodeByID(id); ok {
			return SetValue(NewSet(n)), nil
		}
		return SetValue(NewSet()), nil

	case OpIntLiteral:
		return IntValue(t.IntLit), nil

	case OpFilterByAttr:
		return evalFilterByAttr(t, g, b)

	case OpRelSet:
		return evalRelSet(t, g, b)

	case OpUnion, OpIntersection, OpDifference, OpSymmetricDifference:
		return evalSetBinOp(t, g, b)

	case OpSize:
		a, err := Eval(t.Children[0], g, b)
		if err != nil {
			return Value{}, err
		}
		if a.Kind == KindUnbound {
			return a, nil
		}
		if a.Kind != KindSet {
			return Value{}, fmt.Errorf("%w: size() on non-set value %s", ErrMalformedTerm, a)
		}
		return IntValue(len(a.Set)), nil

	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return evalCompare(t, g, b)

	case OpAnd:
		return evalAndTerm(t, g, b)
	case OpOr:
		return evalOrTerm(t, g, b)
	case OpNot:
		return evalNotTerm(t, g, b)
	case OpImplies:
		return evalImpliesTerm(t, g, b)
	case OpXor:
		return evalXorTerm(t, g, b)
	case OpBooleanEquals:
		return evalBooleanEqualsTerm(t, g, b)
	case OpIte:
		return evalIte(t, g, b)

	case OpDefined:
		_, bound := b.Resolve(t.Entity)
		return BoolValue(bound), nil

	default:
		return Value{}, fmt.Errorf("%w: unknown op %d", ErrMalformedTerm, t.Op)
	}
}

func evalSetBinOp(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	if a.Kind == KindUnbound || c.Kind == KindUnbound {
		return mergeUnbound(a, c), nil
	}
	if a.Kind != KindSet || c.Kind != KindSet {
		return Value{}, fmt.Errorf("%w: set operator on non-set operand", ErrMalformedTerm)
	}
	out := make(Set, len(a.Set)+len(c.Set))
	switch t.Op {
	case OpUnion:
		for k, v := range a.Set {
			out[k] = v
		}
		for k, v := range c.Set {
			out[k] = v
		}
	case OpIntersection:
		for k, v := range a.Set {
			if _, ok := c.Set[k]; ok {
				out[k] = v
			}
		}
	case OpDifference:
		for k, v := range a.Set {
			if _, ok := c.Set[k]; !ok {
				out[k] = v
			}
		}
	case OpSymmetricDifference:
		for k, v := range a.Set {
			if _, ok := c.Set[k]; !ok {
				out[k] = v
			}
		}
		for k, v := range c.Set {
			if _, ok := a.Set[k]; !ok {
				out[k] = v
			}
		}
	}
	return SetValue(out), nil
}

func evalCompare(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	if a.Kind == KindUnbound || c.Kind == KindUnbound {
		return mergeUnbound(a, c), nil
	}
	if t.Op == OpEq || t.Op == OpNe {
		eq := valuesEqual(a, c)
		if t.Op == OpNe {
			eq = !eq
		}
		return BoolValue(eq), nil
	}
	if a.Kind != KindInt || c.Kind != KindInt {
		return Value{}, fmt.Errorf("%w: ordering comparison on non-int operand", ErrMalformedTerm)
	}
	switch t.Op {
	case OpLt:
		return BoolValue(a.Int < c.Int), nil
	case OpLe:
		return BoolValue(a.Int <= c.Int), nil
	case OpGt:
		return BoolValue(a.Int > c.Int), nil
	case OpGe:
		return BoolValue(a.Int >= c.Int), nil
	}
	return Value{}, fmt.Errorf("%w: unreachable comparison op", ErrMalformedTerm)
}

func valuesEqual(a, c Value) bool {
	if a.Kind != c.Kind {
		return false
	}
	switch a.Kind {
	case KindBool:
		return a.Bool == c.Bool
	case KindInt:
		return a.Int == c.Int
	case KindSet:
		if len(a.Set) != len(c.Set) {
			return false
		}
		for k := range a.Set {
			if _, ok := c.Set[k]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// evalAnd implements three-valued and(): and(false, Unbound) = false
// and and(true, Unbound) = Unbound. Both operands are evaluated
// eagerly; only the combination is short-circuit tolerant.
func evalAnd(a, c Value) Value {
	if a.Kind == KindBool && !a.Bool {
		return BoolValue(false)
	}
	if c.Kind == KindBool && !c.Bool {
		return BoolValue(false)
	}
	if a.Kind == KindUnbound || c.Kind == KindUnbound {
		return mergeUnbound(a, c)
	}
	return BoolValue(a.Bool && c.Bool)
}

// evalOr implements three-valued or(): or(true, Unbound) = true and
// or(false, Unbound) = Unbound.
func evalOr(a, c Value) Value {
	if a.Kind == KindBool && a.Bool {
		return BoolValue(true)
	}
	if c.Kind == KindBool && c.Bool {
		return BoolValue(true)
	}
	if a.Kind == KindUnbound || c.Kind == KindUnbound {
		return mergeUnbound(a, c)
	}
	return BoolValue(a.Bool || c.Bool)
}

func evalNotValue(a Value) Value {
	if a.Kind == KindUnbound {
		return a
	}
	return BoolValue(!a.Bool)
}

func evalAndTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	return evalAnd(a, c), nil
}

func evalOrTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	return evalOr(a, c), nil
}

func evalNotTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	return evalNotValue(a), nil
}

// implies(a, b) = or(not(a), b).
func evalImpliesTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	return evalOr(evalNotValue(a), c), nil
}

// xor(a, b) = or(and(not a, b), and(a, not b)).
func evalXorTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	return xorValues(a, c), nil
}

func xorValues(a, c Value) Value {
	left := evalAnd(evalNotValue(a), c)
	right := evalAnd(a, evalNotValue(c))
	return evalOr(left, right)
}

func evalBooleanEqualsTerm(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	c, err := Eval(t.Children[1], g, b)
	if err != nil {
		return Value{}, err
	}
	return evalNotValue(xorValues(a, c)), nil
}

func evalIte(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	cond, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	if cond.Kind == KindUnbound {
		return cond, nil
	}
	if cond.Bool {
		return Eval(t.Children[1], g, b)
	}
	return Eval(t.Children[2], g, b)
}
