package predicate

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

func evalFilterByAttr(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	if a.Kind == KindUnbound {
		return a, nil
	}
	if a.Kind != KindSet {
		return Value{}, fmt.Errorf("%w: filterByAttr on non-set operand", ErrMalformedTerm)
	}
	out := make(Set)
	for id, n := range a.Set {
		match, err := matchesFilter(n, t.AttrName, t.Filter)
		if err != nil {
			return Value{}, err
		}
		if match {
			out[id] = n
		}
	}
	return SetValue(out), nil
}

func matchesFilter(n *scenegraph.Node, attr string, f Filter) (bool, error) {
	val, ok := attrValue(n, attr)
	if !ok {
		return false, fmt.Errorf("%w: node %q has no attribute %q", ErrAttrMissing, n.ID(), attr)
	}
	if f.Regex != nil {
		s, ok := val.(string)
		if !ok {
			return false, fmt.Errorf("%w: attribute %q on node %q is not a string", ErrFilterTypeMismatch, attr, n.ID())
		}
		return f.Regex.MatchString(s), nil
	}
	if f.Numeric != nil {
		num, ok := toFloat(val)
		if !ok {
			return false, fmt.Errorf("%w: attribute %q on node %q is not numeric", ErrFilterTypeMismatch, attr, n.ID())
		}
		return f.Numeric(num), nil
	}
	return false, fmt.Errorf("%w: filter has neither Regex nor Numeric set", ErrMalformedTerm)
}

// attrValue reads the "name"/"base_class" special attributes from the
// node struct itself and everything else from Attr.
func attrValue(n *scenegraph.Node, attr string) (interface{}, bool) {
	switch attr {
	case "name":
		return n.Name, true
	case "base_class":
		return n.BaseClass, true
	default:
		v, ok := n.Attr[attr]
		return v, ok
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func evalRelSet(t *Term, g *scenegraph.Graph, b Binding) (Value, error) {
	a, err := Eval(t.Children[0], g, b)
	if err != nil {
		return Value{}, err
	}
	if a.Kind == KindUnbound {
		return a, nil
	}
	if a.Kind != KindSet {
		return Value{}, fmt.Errorf("%w: relSet on non-set operand", ErrMalformedTerm)
	}
	out := make(Set)
	for id := range a.Set {
		for _, neighborID := range g.Related(id, t.Label, t.Dir) {
			if n, ok := g.NodeByID(neighborID); ok {
				out[neighborID] = n
			}
		}
	}
	return SetValue(out), nil
}
