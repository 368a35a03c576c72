package hmm

import (
	"fmt"

	"github.com/ieee0824/traingraph-go/tree"
)

// Tuple identifies one transition state: a phone, a topology state index
// and the pdf the tree assigned to that state in some context.
type Tuple struct {
	Phone int32
	State int32
	Pdf   int32
}

// TransitionModel numbers every HMM arc of every tuple with a
// transition-id. Ids start at 1; 0 stays free for epsilon. Each
// transition-id decodes back to (phone, state, pdf, arc-index).
type TransitionModel struct {
	topo     *Topology
	tuples   []Tuple
	tupleIdx map[Tuple]int32 // tuple -> transition state (1-based)
	state2id []int32         // transition state -> first transition-id
	id2state []int32         // transition-id -> transition state
}

// NewTransitionModel enumerates tuples for every (phone, emitting state,
// reachable pdf) combination the tree admits.
func NewTransitionModel(topo *Topology, cd *tree.ContextDependency) *TransitionModel {
	tm := &TransitionModel{
		topo:     topo,
		tupleIdx: make(map[Tuple]int32),
	}
	for _, phone := range topo.Phones() {
		states, _ := topo.States(phone)
		for si, s := range states {
			if s.PdfClass < 0 {
				continue
			}
			for _, pdf := range cd.PossiblePdfs(phone, s.PdfClass) {
				tm.tuples = append(tm.tuples, Tuple{Phone: phone, State: int32(si), Pdf: pdf})
			}
		}
	}
	tm.buildIndex()
	return tm
}

func (tm *TransitionModel) buildIndex() {
	tm.state2id = make([]int32, len(tm.tuples)+2)
	cur := int32(1)
	for i, tup := range tm.tuples {
		ts := int32(i + 1)
		tm.tupleIdx[tup] = ts
		tm.state2id[ts] = cur
		states, _ := tm.topo.States(tup.Phone)
		cur += int32(len(states[tup.State].Transitions))
	}
	tm.state2id[len(tm.tuples)+1] = cur
	tm.id2state = make([]int32, cur)
	for ts := int32(1); ts <= int32(len(tm.tuples)); ts++ {
		for id := tm.state2id[ts]; id < tm.state2id[ts+1]; id++ {
			tm.id2state[id] = ts
		}
	}
}

// Topology returns the underlying HMM topology.
func (tm *TransitionModel) Topology() *Topology {
	return tm.topo
}

// NumTransitionIDs returns the largest valid transition-id.
func (tm *TransitionModel) NumTransitionIDs() int32 {
	return tm.state2id[len(tm.tuples)+1] - 1
}

// TupleToState returns the transition state for a tuple.
func (tm *TransitionModel) TupleToState(tup Tuple) (int32, bool) {
	ts, ok := tm.tupleIdx[tup]
	return ts, ok
}

// StateToTuple returns the tuple of a transition state.
func (tm *TransitionModel) StateToTuple(ts int32) Tuple {
	return tm.tuples[ts-1]
}

// PairToTransitionID returns the transition-id of the arcIndex-th
// transition of a transition state.
func (tm *TransitionModel) PairToTransitionID(ts int32, arcIndex int) int32 {
	return tm.state2id[ts] + int32(arcIndex)
}

// Decode splits a transition-id into its tuple and arc index.
func (tm *TransitionModel) Decode(id int32) (Tuple, int, error) {
	if id < 1 || id > tm.NumTransitionIDs() {
		return Tuple{}, 0, fmt.Errorf("transition-id %d out of range [1, %d]", id, tm.NumTransitionIDs())
	}
	ts := tm.id2state[id]
	return tm.tuples[ts-1], int(id - tm.state2id[ts]), nil
}

// LogProb returns the log probability of a transition-id's arc.
func (tm *TransitionModel) LogProb(id int32) (float64, error) {
	tup, arc, err := tm.Decode(id)
	if err != nil {
		return 0, err
	}
	states, _ := tm.topo.States(tup.Phone)
	return states[tup.State].Transitions[arc].LogProb, nil
}

// IsSelfLoop reports whether a transition-id's arc returns to its own
// topology state.
func (tm *TransitionModel) IsSelfLoop(id int32) (bool, error) {
	tup, arc, err := tm.Decode(id)
	if err != nil {
		return false, err
	}
	states, _ := tm.topo.States(tup.Phone)
	return states[tup.State].Transitions[arc].Dest == tup.State, nil
}
