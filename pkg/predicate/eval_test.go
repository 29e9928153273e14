package predicate

import (
	"errors"
	"testing"

	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// mapBinding is a test-only Binding backed by a plain map.
type mapBinding map[string]string

func (m mapBinding) Resolve(ref EntityRef) (string, bool) {
	id, ok := m[ref.Name]
	return id, ok
}

func testGraph() *scenegraph.Graph {
	ego := scenegraph.NewNode("ego", "vehicle", map[string]interface{}{
		scenegraph.EntityIDAttr: "ego",
		"speed_mph":             float64(10),
	})
	lead := scenegraph.NewNode("vehicleB", "vehicle", map[string]interface{}{
		scenegraph.EntityIDAttr: "B",
		"speed_mph":             float64(30),
	})
	sign := scenegraph.NewNode("stopSignC", "stop_sign", map[string]interface{}{scenegraph.EntityIDAttr: "C"})
	return scenegraph.New("0", "test", []*scenegraph.Node{ego, lead, sign},
		[]scenegraph.Edge{{From: "B", To: "C", Label: "controlledBy"}})
}

func TestEvalEgoAndG(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	v, err := Eval(Ego(), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindSet || len(v.Set) != 1 {
		t.Fatalf("expected singleton ego set, got %s", v)
	}

	v, err = Eval(G(), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Set) != 3 {
		t.Errorf("expected all 3 nodes, got %d", len(v.Set))
	}
}

func TestEvalEntityUnbound(t *testing.T) {
	g := testGraph()
	b := mapBinding{}
	ref := EntityRef{Name: "leadVehicle"}

	v, err := Eval(EntityLit(ref), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindUnbound {
		t.Fatalf("expected Unbound, got %s", v)
	}
	if len(v.Unbound) != 1 || v.Unbound[0] != ref {
		t.Errorf("expected Unbound[%v], got %v", ref, v.Unbound)
	}
}

func TestEvalEntityBound(t *testing.T) {
	g := testGraph()
	b := mapBinding{"leadVehicle": "B"}

	v, err := Eval(EntityLit(EntityRef{Name: "leadVehicle"}), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindSet || len(v.Set) != 1 {
		t.Fatalf("expected singleton set, got %s", v)
	}
	if _, ok := v.Set["B"]; !ok {
		t.Errorf("expected set to contain node B, got %v", v.Set)
	}
}

func TestEvalFilterByAttr(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	vehFilter, _ := RegexFilter("^vehicle$")
	vehicles := FilterByAttr(G(), "base_class", vehFilter)

	t.Run("base_class regex", func(t *testing.T) {
		filter, err := RegexFilter("^vehicle$")
		if err != nil {
			t.Fatal(err)
		}
		v, err := Eval(FilterByAttr(G(), "base_class", filter), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Set) != 2 {
			t.Errorf("expected 2 vehicles, got %d: %s", len(v.Set), v)
		}
	})

	t.Run("numeric filter", func(t *testing.T) {
		filter := NumericFilter(func(f float64) bool { return f > 20 })
		v, err := Eval(FilterByAttr(vehicles, "speed_mph", filter), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Set) != 1 {
			t.Errorf("expected 1 fast vehicle, got %d: %s", len(v.Set), v)
		}
	})

	t.Run("missing attribute is an error", func(t *testing.T) {
		filter := NumericFilter(func(f float64) bool { return true })
		_, err := Eval(FilterByAttr(G(), "speed_mph", filter), g, b)
		if !errors.Is(err, ErrAttrMissing) {
			t.Errorf("expected ErrAttrMissing, got %v", err)
		}
	})

	t.Run("type mismatch is an error", func(t *testing.T) {
		filter, _ := RegexFilter(".*")
		_, err := Eval(FilterByAttr(vehicles, "speed_mph", filter), g, b)
		if !errors.Is(err, ErrFilterTypeMismatch) {
			t.Errorf("expected ErrFilterTypeMismatch, got %v", err)
		}
	})

	t.Run("unbound input propagates", func(t *testing.T) {
		filter, _ := RegexFilter(".*")
		term := FilterByAttr(EntityLit(EntityRef{Name: "x"}), "name", filter)
		v, err := Eval(term, g, b)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind != KindUnbound {
			t.Errorf("expected Unbound, got %s", v)
		}
	})
}

func TestEvalRelSet(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	filter, _ := RegexFilter("^vehicleB$")
	leadSet := FilterByAttr(G(), "name", filter)

	v, err := Eval(RelSet(leadSet, "controlledBy", scenegraph.Outgoing), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Set) != 1 {
		t.Fatalf("expected one controlling sign, got %d: %s", len(v.Set), v)
	}
	if _, ok := v.Set["C"]; !ok {
		t.Errorf("expected sign C in result, got %v", v.Set)
	}
}

func TestEvalSetOps(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	vehFilter, _ := RegexFilter("^vehicle$")
	vehicles := FilterByAttr(G(), "base_class", vehFilter)

	nameFilter, _ := RegexFilter("^ego$")
	egoByName := FilterByAttr(G(), "name", nameFilter)

	t.Run("union", func(t *testing.T) {
		v, err := Eval(Union(vehicles, egoByName), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Set) != 2 {
			t.Errorf("expected 2, got %d", len(v.Set))
		}
	})

	t.Run("intersection", func(t *testing.T) {
		v, err := Eval(Intersection(vehicles, egoByName), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Set) != 1 {
			t.Errorf("expected 1, got %d", len(v.Set))
		}
	})

	t.Run("difference", func(t *testing.T) {
		v, err := Eval(Difference(vehicles, egoByName), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Set) != 1 {
			t.Errorf("expected 1, got %d", len(v.Set))
		}
		if _, ok := v.Set["B"]; !ok {
			t.Errorf("expected leftover vehicle B, got %v", v.Set)
		}
	})

	t.Run("symmetric difference with unbound operand propagates", func(t *testing.T) {
		unboundTerm := EntityLit(EntityRef{Name: "x"})
		v, err := Eval(SymmetricDifference(vehicles, unboundTerm), g, b)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind != KindUnbound {
			t.Errorf("expected Unbound, got %s", v)
		}
	})
}

func TestEvalSizeAndCompare(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	v, err := Eval(Size(G()), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindInt || v.Int != 3 {
		t.Fatalf("expected int 3, got %s", v)
	}

	v, err = Eval(Gt(Size(G()), IntLiteral(1)), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("expected true, got %s", v)
	}

	v, err = Eval(Eq(IntLiteral(3), IntLiteral(3)), g, b)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Bool {
		t.Errorf("expected 3 == 3 to be true")
	}
}

func TestEvalDefined(t *testing.T) {
	g := testGraph()

	v, err := Eval(Defined(EntityRef{Name: "x"}), g, mapBinding{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindBool || v.Bool {
		t.Errorf("expected false for unbound entity, got %s", v)
	}

	v, err = Eval(Defined(EntityRef{Name: "x"}), g, mapBinding{"x": "B"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindBool || !v.Bool {
		t.Errorf("expected true for bound entity, got %s", v)
	}
}

// TestThreeValuedLogicTable exercises every equation the three-valued
// combinators are specified to satisfy.
func TestThreeValuedLogicTable(t *testing.T) {
	unbound := UnboundValue(EntityRef{Name: "x"})
	tru := BoolValue(true)
	fls := BoolValue(false)

	cases := []struct {
		name string
		got  Value
		want Value
	}{
		{"and(false, Unbound) = false", evalAnd(fls, unbound), fls},
		{"and(Unbound, false) = false", evalAnd(unbound, fls), fls},
		{"and(true, Unbound) = Unbound", evalAnd(tru, unbound), unbound},
		{"or(true, Unbound) = true", evalOr(tru, unbound), tru},
		{"or(Unbound, true) = true", evalOr(unbound, tru), tru},
		{"or(false, Unbound) = Unbound", evalOr(fls, unbound), unbound},
		{"not(Unbound) = Unbound", evalNotValue(unbound), unbound},
		{"and(true, true) = true", evalAnd(tru, tru), tru},
		{"or(false, false) = false", evalOr(fls, fls), fls},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got.Kind != c.want.Kind {
				t.Fatalf("kind mismatch: got %s, want %s", c.got, c.want)
			}
			if c.got.Kind == KindBool && c.got.Bool != c.want.Bool {
				t.Fatalf("got %s, want %s", c.got, c.want)
			}
		})
	}

	t.Run("implies(false, _) = true", func(t *testing.T) {
		got := evalOr(evalNotValue(fls), unbound)
		if got.Kind != KindBool || !got.Bool {
			t.Errorf("expected true, got %s", got)
		}
	})

	t.Run("xor(a, b) = or(and(not a, b), and(a, not b))", func(t *testing.T) {
		got := xorValues(tru, fls)
		if got.Kind != KindBool || !got.Bool {
			t.Errorf("expected xor(true, false) = true, got %s", got)
		}
		got = xorValues(tru, tru)
		if got.Kind != KindBool || got.Bool {
			t.Errorf("expected xor(true, true) = false, got %s", got)
		}
	})
}

func TestEvalIte(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	term := Ite(Eq(IntLiteral(1), IntLiteral(1)), IntLiteral(10), IntLiteral(20))
	v, err := Eval(term, g, b)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindInt || v.Int != 10 {
		t.Errorf("expected 10, got %s", v)
	}
}

func TestEvalMalformed(t *testing.T) {
	g := testGraph()
	b := mapBinding{}

	_, err := Eval(Lt(G(), IntLiteral(1)), g, b)
	if !errors.Is(err, ErrMalformedTerm) {
		t.Errorf("expected ErrMalformedTerm, got %v", err)
	}
}
