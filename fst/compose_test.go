package fst

import (
	"math"
	"testing"
)

func TestComposeLinear(t *testing.T) {
	// a: 1/2 -> 10, b: 10 -> 20, weights add up.
	a := linear([][2]Label{{1, 10}, {2, 10}}, []float64{0.5, 0.25}, 0)
	b := linear([][2]Label{{10, 20}, {10, 21}}, []float64{1, 2}, 0.5)
	c := Compose(a, b)
	paths := Paths(c, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	p := paths[0]
	if len(p.ILabels) != 2 || p.ILabels[0] != 1 || p.ILabels[1] != 2 {
		t.Errorf("ilabels = %v, want [1 2]", p.ILabels)
	}
	if len(p.OLabels) != 2 || p.OLabels[0] != 20 || p.OLabels[1] != 21 {
		t.Errorf("olabels = %v, want [20 21]", p.OLabels)
	}
	want := 0.5 + 0.25 + 1 + 2 + 0.5
	if math.Abs(p.Weight-want) > 1e-12 {
		t.Errorf("weight = %f, want %f", p.Weight, want)
	}
}

func TestComposeMismatchIsEmpty(t *testing.T) {
	a := linear([][2]Label{{1, 10}}, nil, 0)
	b := linear([][2]Label{{11, 20}}, nil, 0)
	c := Compose(a, b)
	if c.Start() != NoStateID {
		t.Errorf("composition of mismatched transducers has start state %d", c.Start())
	}
}

func TestComposeWithEmpty(t *testing.T) {
	a := linear([][2]Label{{1, 10}}, nil, 0)
	if c := Compose(a, New()); c.Start() != NoStateID {
		t.Error("compose with empty right side not empty")
	}
	if c := Compose(New(), a); c.Start() != NoStateID {
		t.Error("compose with empty left side not empty")
	}
}

func TestComposeEpsilonOutput(t *testing.T) {
	// a emits 10 then an output-epsilon arc; b consumes just 10.
	a := linear([][2]Label{{1, 10}, {2, 0}}, nil, 0)
	b := linear([][2]Label{{10, 20}}, nil, 0)
	c := Compose(a, b)
	paths := Paths(c, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	p := paths[0]
	if len(p.ILabels) != 2 || p.ILabels[0] != 1 || p.ILabels[1] != 2 {
		t.Errorf("ilabels = %v, want [1 2]", p.ILabels)
	}
	if len(p.OLabels) != 1 || p.OLabels[0] != 20 {
		t.Errorf("olabels = %v, want [20]", p.OLabels)
	}
}

func TestComposeEpsilonInput(t *testing.T) {
	// b has an input-epsilon arc emitting 21 before consuming 10.
	a := linear([][2]Label{{1, 10}}, nil, 0)
	b := linear([][2]Label{{0, 21}, {10, 20}}, nil, 0)
	c := Compose(a, b)
	paths := Paths(c, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	p := paths[0]
	if len(p.OLabels) != 2 || p.OLabels[0] != 21 || p.OLabels[1] != 20 {
		t.Errorf("olabels = %v, want [21 20]", p.OLabels)
	}
}

func TestConnectTrimsDeadStates(t *testing.T) {
	f := New()
	s0 := f.AddState()
	s1 := f.AddState()
	dead := f.AddState() // reachable, cannot reach final
	unreachable := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Next: s1})
	f.AddArc(s0, Arc{ILabel: 2, OLabel: 2, Next: dead})
	f.AddArc(unreachable, Arc{ILabel: 3, OLabel: 3, Next: s1})
	f.SetFinal(s1, 0)

	Connect(f)
	if f.NumStates() != 2 {
		t.Fatalf("NumStates = %d, want 2", f.NumStates())
	}
	paths := Paths(f, 0)
	if len(paths) != 1 || len(paths[0].ILabels) != 1 || paths[0].ILabels[0] != 1 {
		t.Errorf("paths after Connect = %+v", paths)
	}
}

func TestConnectAllDead(t *testing.T) {
	f := New()
	s0 := f.AddState()
	f.SetStart(s0) // no final state anywhere
	Connect(f)
	if f.Start() != NoStateID {
		t.Errorf("start = %d, want NoStateID", f.Start())
	}
}
