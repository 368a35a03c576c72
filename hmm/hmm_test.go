package hmm

import (
	"bytes"
	"math"
	"testing"

	"github.com/ieee0824/traingraph-go/tree"
)

func testModel(t *testing.T) *TransitionModel {
	t.Helper()
	topo, err := LeftToRight([]int32{1, 2}, 3)
	if err != nil {
		t.Fatalf("LeftToRight: %v", err)
	}
	cd := tree.Monophone([]int32{1, 2}, 3)
	return NewTransitionModel(topo, cd)
}

func TestLeftToRightShape(t *testing.T) {
	topo, err := LeftToRight([]int32{1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	states, ok := topo.States(1)
	if !ok || len(states) != 4 {
		t.Fatalf("States(1) = %d states, want 4", len(states))
	}
	for i := 0; i < 3; i++ {
		if states[i].PdfClass != int32(i) {
			t.Errorf("state %d pdf-class = %d", i, states[i].PdfClass)
		}
		if len(states[i].Transitions) != 2 {
			t.Fatalf("state %d has %d transitions, want 2", i, len(states[i].Transitions))
		}
		if states[i].Transitions[0].Dest != int32(i) || states[i].Transitions[1].Dest != int32(i+1) {
			t.Errorf("state %d transitions go to %d and %d", i, states[i].Transitions[0].Dest, states[i].Transitions[1].Dest)
		}
	}
	if states[3].PdfClass != -1 || len(states[3].Transitions) != 0 {
		t.Error("final state not non-emitting")
	}
}

func TestSetPhoneValidation(t *testing.T) {
	logHalf := math.Log(0.5)
	tests := []struct {
		name   string
		phone  int32
		states []State
	}{
		{"non-positive phone", 0, []State{{PdfClass: 0, Transitions: []Transition{{Dest: 1, LogProb: 0}}}, {PdfClass: -1}}},
		{"too short", 1, []State{{PdfClass: -1}}},
		{"emitting final state", 1, []State{{PdfClass: 0, Transitions: []Transition{{Dest: 1, LogProb: 0}}}, {PdfClass: 2}}},
		{"probs do not sum to one", 1, []State{{PdfClass: 0, Transitions: []Transition{{Dest: 0, LogProb: logHalf}, {Dest: 1, LogProb: logHalf * 2}}}, {PdfClass: -1}}},
		{"dangling transition", 1, []State{{PdfClass: 0, Transitions: []Transition{{Dest: 5, LogProb: 0}}}, {PdfClass: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewTopology().SetPhone(tt.phone, tt.states); err == nil {
				t.Error("invalid topology accepted")
			}
		})
	}
}

func TestTransitionIDBijection(t *testing.T) {
	tm := testModel(t)
	// 2 phones x 3 emitting states x 1 pdf each, 2 arcs per state.
	if tm.NumTransitionIDs() != 12 {
		t.Fatalf("NumTransitionIDs = %d, want 12", tm.NumTransitionIDs())
	}
	seen := map[int32]bool{}
	for id := int32(1); id <= tm.NumTransitionIDs(); id++ {
		tup, arc, err := tm.Decode(id)
		if err != nil {
			t.Fatalf("Decode(%d): %v", id, err)
		}
		ts, ok := tm.TupleToState(tup)
		if !ok {
			t.Fatalf("tuple %+v of id %d not found", tup, id)
		}
		back := tm.PairToTransitionID(ts, arc)
		if back != id {
			t.Errorf("roundtrip of id %d gave %d", id, back)
		}
		if seen[id] {
			t.Errorf("id %d decoded twice", id)
		}
		seen[id] = true
	}
	if _, _, err := tm.Decode(0); err == nil {
		t.Error("Decode(0) succeeded")
	}
	if _, _, err := tm.Decode(13); err == nil {
		t.Error("Decode past range succeeded")
	}
}

func TestSelfLoopAndProb(t *testing.T) {
	tm := testModel(t)
	logHalf := math.Log(0.5)
	var loops int
	for id := int32(1); id <= tm.NumTransitionIDs(); id++ {
		loop, err := tm.IsSelfLoop(id)
		if err != nil {
			t.Fatal(err)
		}
		if loop {
			loops++
		}
		lp, err := tm.LogProb(id)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(lp-logHalf) > 1e-12 {
			t.Errorf("LogProb(%d) = %f, want log(0.5)", id, lp)
		}
	}
	if loops != 6 {
		t.Errorf("%d self-loops, want 6", loops)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	tm := testModel(t)
	var buf bytes.Buffer
	if err := tm.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.NumTransitionIDs() != tm.NumTransitionIDs() {
		t.Fatalf("NumTransitionIDs = %d, want %d", got.NumTransitionIDs(), tm.NumTransitionIDs())
	}
	for id := int32(1); id <= tm.NumTransitionIDs(); id++ {
		a, aArc, _ := tm.Decode(id)
		b, bArc, err := got.Decode(id)
		if err != nil {
			t.Fatalf("Decode(%d) after load: %v", id, err)
		}
		if a != b || aArc != bArc {
			t.Errorf("id %d decodes to %+v/%d, want %+v/%d", id, b, bArc, a, aArc)
		}
	}
}
