package automaton

import "testing"

func TestLoadUnwrapsInitPseudoState(t *testing.T) {
	raw := RawDFA{
		States:    []State{"init", "s0", "s1"},
		Accepting: []State{"s1"},
		Transitions: map[State][]RawTransition{
			"init": {{Label: "true", Target: "s0"}},
			"s0":   {{Label: "a", Target: "s1"}, {Label: "!a", Target: "s0"}},
			"s1":   {{Label: "true", Target: "s1"}},
		},
	}
	d, err := Load(raw)
	if err != nil {
		t.Fatal(err)
	}
	if d.Init != "s0" {
		t.Errorf("expected init unwrapped to s0, got %s", d.Init)
	}
	for _, s := range d.States {
		if s == initPseudoState {
			t.Error("synthetic init pseudo-state should not survive Load")
		}
	}
}

func TestLoadRejectsMonaErrorMarker(t *testing.T) {
	raw := RawDFA{States: []State{"init", monaErrorState}}
	if _, err := Load(raw); err == nil {
		t.Fatal("expected rejection of Mona error marker state")
	}
}

func TestLoadDropsParserSentinel(t *testing.T) {
	raw := RawDFA{
		States:    []State{"init", "s0", "s1", parserSentinel},
		Accepting: []State{"s1"},
		Transitions: map[State][]RawTransition{
			"init": {{Label: "true", Target: "s0"}},
			"s0":   {{Label: "a", Target: "s1"}, {Label: "!a", Target: parserSentinel}},
			"s1":   {{Label: "true", Target: "s1"}},
		},
	}
	d, err := Load(raw)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range d.States {
		if s == parserSentinel {
			t.Error("parser sentinel node should not survive Load")
		}
	}
	for _, tr := range d.Transitions["s0"] {
		if tr.Target == parserSentinel {
			t.Error("transitions into the parser sentinel should be dropped")
		}
	}
}

func TestLoadRejectsMissingInitEdge(t *testing.T) {
	raw := RawDFA{States: []State{"s0"}, Transitions: map[State][]RawTransition{}}
	if _, err := Load(raw); err == nil {
		t.Fatal("expected error for missing init pseudo-edge")
	}
}

func TestLoadRejectsEmptyArtifact(t *testing.T) {
	if _, err := Load(RawDFA{}); err == nil {
		t.Fatal("expected error for empty artifact")
	}
}
