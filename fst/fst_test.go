package fst

import (
	"bytes"
	"testing"
)

// linear builds an acceptor-like transducer with one arc per label pair.
func linear(pairs [][2]Label, weights []float64, finalWeight float64) *Fst {
	f := New()
	cur := f.AddState()
	f.SetStart(cur)
	for i, p := range pairs {
		next := f.AddState()
		w := 0.0
		if weights != nil {
			w = weights[i]
		}
		f.AddArc(cur, Arc{ILabel: p[0], OLabel: p[1], Weight: w, Next: next})
		cur = next
	}
	f.SetFinal(cur, finalWeight)
	return f
}

func TestEmptyFst(t *testing.T) {
	f := New()
	if f.Start() != NoStateID {
		t.Errorf("Start() = %d, want NoStateID", f.Start())
	}
	if f.NumStates() != 0 {
		t.Errorf("NumStates() = %d, want 0", f.NumStates())
	}
}

func TestDeleteStates(t *testing.T) {
	f := linear([][2]Label{{1, 2}}, nil, 0)
	f.DeleteStates()
	if f.Start() != NoStateID {
		t.Errorf("Start() after DeleteStates = %d, want NoStateID", f.Start())
	}
	if f.NumStates() != 0 {
		t.Errorf("NumStates() after DeleteStates = %d, want 0", f.NumStates())
	}
}

func TestFinality(t *testing.T) {
	f := New()
	s := f.AddState()
	if f.IsFinal(s) {
		t.Error("new state is final")
	}
	f.SetFinal(s, 1.5)
	if !f.IsFinal(s) {
		t.Error("state not final after SetFinal")
	}
	if f.Final(s) != 1.5 {
		t.Errorf("Final = %f, want 1.5", f.Final(s))
	}
}

func TestCopyIsDeep(t *testing.T) {
	f := linear([][2]Label{{1, 1}, {2, 2}}, []float64{0.5, 0.25}, 1)
	c := f.Copy()
	c.AddArc(0, Arc{ILabel: 9, OLabel: 9, Next: 0})
	c.SetFinal(0, 0)
	if f.NumArcs(0) != 1 {
		t.Errorf("original arc count changed: %d", f.NumArcs(0))
	}
	if f.IsFinal(0) {
		t.Error("original finality changed")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	f := linear([][2]Label{{1, 3}, {2, 0}}, []float64{0.5, 2}, 1.5)
	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	g, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := Paths(g, 0)
	want := Paths(f, 0)
	if len(got) != 1 || len(want) != 1 {
		t.Fatalf("paths: got %d, want 1", len(got))
	}
	if got[0].Weight != want[0].Weight {
		t.Errorf("weight = %f, want %f", got[0].Weight, want[0].Weight)
	}
	if len(got[0].ILabels) != 2 || got[0].ILabels[0] != 1 || got[0].ILabels[1] != 2 {
		t.Errorf("ilabels = %v, want [1 2]", got[0].ILabels)
	}
	if len(got[0].OLabels) != 1 || got[0].OLabels[0] != 3 {
		t.Errorf("olabels = %v, want [3]", got[0].OLabels)
	}
}

func TestGobEmbedding(t *testing.T) {
	f := linear([][2]Label{{7, 8}}, nil, 0)
	b, err := f.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode: %v", err)
	}
	var g Fst
	if err := g.GobDecode(b); err != nil {
		t.Fatalf("GobDecode: %v", err)
	}
	if g.NumStates() != f.NumStates() || g.Start() != f.Start() {
		t.Errorf("decoded shape mismatch: %d states start %d", g.NumStates(), g.Start())
	}
}
