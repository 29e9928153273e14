package automaton

import "testing"

func TestParseGuardSymbolsAndEval(t *testing.T) {
	cases := []struct {
		label   string
		values  map[string]bool
		want    bool
		symbols []string
	}{
		{"a", map[string]bool{"a": true}, true, []string{"a"}},
		{"a & b", map[string]bool{"a": true, "b": false}, false, []string{"a", "b"}},
		{"a | b", map[string]bool{"a": false, "b": true}, true, []string{"a", "b"}},
		{"!a", map[string]bool{"a": true}, false, []string{"a"}},
		{"(a & b) | !c", map[string]bool{"a": false, "b": true, "c": false}, true, []string{"a", "b", "c"}},
		{"true", nil, true, nil},
		{"false", nil, false, nil},
	}

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			g, symbols, err := ParseGuard(c.label)
			if err != nil {
				t.Fatal(err)
			}
			if got := g.Eval(c.values); got != c.want {
				t.Errorf("Eval(%q) = %v, want %v", c.label, got, c.want)
			}
			if len(symbols) != len(c.symbols) {
				t.Errorf("symbols = %v, want %v", symbols, c.symbols)
			}
		})
	}
}

func TestParseGuardSyntaxError(t *testing.T) {
	cases := []string{"", "a &", "(a", "a @ b"}
	for _, label := range cases {
		t.Run(label, func(t *testing.T) {
			if _, _, err := ParseGuard(label); err == nil {
				t.Errorf("expected a syntax error for %q", label)
			}
		})
	}
}

func TestParseGuardDeduplicatesSymbols(t *testing.T) {
	_, symbols, err := ParseGuard("a & a & b")
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 2 {
		t.Errorf("expected 2 distinct symbols, got %v", symbols)
	}
}
