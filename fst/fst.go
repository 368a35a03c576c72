// Package fst implements weighted finite-state transducers over the
// tropical semiring (weights are costs, paths combine by addition, and
// alternatives by minimum). Label 0 is epsilon on both tapes.
package fst

import "math"

// StateID identifies a state within an Fst.
type StateID = int32

// NoStateID is the start state of an empty Fst.
const NoStateID StateID = -1

// Label is an input or output tape symbol. 0 is epsilon.
type Label = int32

// Epsilon is the empty label.
const Epsilon Label = 0

// Arc is a single transition.
type Arc struct {
	ILabel Label
	OLabel Label
	Weight float64
	Next   StateID
}

// Infinity is the tropical zero: the final weight of a non-final state.
var Infinity = math.Inf(1)

// Fst is a mutable weighted transducer.
type Fst struct {
	arcs  [][]Arc
	final []float64 // Infinity for non-final states
	start StateID
}

// New creates an empty Fst with no states and no start state.
func New() *Fst {
	return &Fst{start: NoStateID}
}

// AddState appends a new state and returns its id.
func (f *Fst) AddState() StateID {
	f.arcs = append(f.arcs, nil)
	f.final = append(f.final, Infinity)
	return StateID(len(f.arcs) - 1)
}

// AddArc appends an arc leaving state s.
func (f *Fst) AddArc(s StateID, a Arc) {
	f.arcs[s] = append(f.arcs[s], a)
}

// SetStart sets the start state.
func (f *Fst) SetStart(s StateID) {
	f.start = s
}

// Start returns the start state, or NoStateID if the Fst is empty.
func (f *Fst) Start() StateID {
	return f.start
}

// SetFinal marks s final with the given weight.
func (f *Fst) SetFinal(s StateID, w float64) {
	f.final[s] = w
}

// Final returns the final weight of s (Infinity if s is not final).
func (f *Fst) Final(s StateID) float64 {
	return f.final[s]
}

// IsFinal reports whether s is a final state.
func (f *Fst) IsFinal(s StateID) bool {
	return !math.IsInf(f.final[s], 1)
}

// NumStates returns the number of states.
func (f *Fst) NumStates() int {
	return len(f.arcs)
}

// NumArcs returns the number of arcs leaving s.
func (f *Fst) NumArcs(s StateID) int {
	return len(f.arcs[s])
}

// Arcs returns the arcs leaving s. The slice is owned by the Fst.
func (f *Fst) Arcs(s StateID) []Arc {
	return f.arcs[s]
}

// DeleteStates empties the Fst, leaving it with no start state. This is
// the sentinel form used to signal a failed graph compilation.
func (f *Fst) DeleteStates() {
	f.arcs = nil
	f.final = nil
	f.start = NoStateID
}

// Copy returns a deep copy.
func (f *Fst) Copy() *Fst {
	c := &Fst{
		arcs:  make([][]Arc, len(f.arcs)),
		final: make([]float64, len(f.final)),
		start: f.start,
	}
	copy(c.final, f.final)
	for s, arcs := range f.arcs {
		c.arcs[s] = append([]Arc(nil), arcs...)
	}
	return c
}

// FinalStates returns the ids of all final states.
func (f *Fst) FinalStates() []StateID {
	var out []StateID
	for s := range f.final {
		if f.IsFinal(StateID(s)) {
			out = append(out, StateID(s))
		}
	}
	return out
}
