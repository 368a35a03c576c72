// Package hmm defines per-phone hidden-Markov topologies and the
// transition model that numbers every HMM arc with a transition-id.
package hmm

import (
	"fmt"
	"math"
	"sort"

	"github.com/ieee0824/traingraph-go/internal/mathutil"
)

// Transition is one outgoing HMM arc with its log probability.
type Transition struct {
	Dest    int32
	LogProb float64
}

// State is one topology state. The final state of a phone is non-emitting
// (PdfClass -1) and has no transitions; every other state is emitting.
type State struct {
	PdfClass    int32
	Transitions []Transition
}

// Topology holds the HMM shape for every phone.
type Topology struct {
	phones  []int32
	entries map[int32][]State
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{entries: make(map[int32][]State)}
}

// SetPhone installs the state sequence for a phone. The last state must be
// the non-emitting final state, and every emitting state's outgoing
// probabilities must sum to one.
func (t *Topology) SetPhone(phone int32, states []State) error {
	if phone <= 0 {
		return fmt.Errorf("phone label %d is not positive", phone)
	}
	if len(states) < 2 {
		return fmt.Errorf("phone %d: topology needs at least one emitting and one final state", phone)
	}
	last := len(states) - 1
	if states[last].PdfClass != -1 || len(states[last].Transitions) != 0 {
		return fmt.Errorf("phone %d: last state must be non-emitting with no transitions", phone)
	}
	for i, s := range states[:last] {
		if s.PdfClass < 0 {
			return fmt.Errorf("phone %d state %d: emitting state without pdf-class", phone, i)
		}
		if len(s.Transitions) == 0 {
			return fmt.Errorf("phone %d state %d: no outgoing transitions", phone, i)
		}
		logSum := mathutil.LogZero
		for _, tr := range s.Transitions {
			if tr.Dest < 0 || int(tr.Dest) >= len(states) {
				return fmt.Errorf("phone %d state %d: transition to missing state %d", phone, i, tr.Dest)
			}
			logSum = mathutil.LogAdd(logSum, tr.LogProb)
		}
		if math.Abs(logSum) > 1e-6 {
			return fmt.Errorf("phone %d state %d: transition probs sum to %f", phone, i, math.Exp(logSum))
		}
	}
	if _, ok := t.entries[phone]; !ok {
		t.phones = append(t.phones, phone)
		sort.Slice(t.phones, func(i, j int) bool { return t.phones[i] < t.phones[j] })
	}
	t.entries[phone] = states
	return nil
}

// Phones returns the phone labels in ascending order.
func (t *Topology) Phones() []int32 {
	return t.phones
}

// States returns the state sequence for a phone.
func (t *Topology) States(phone int32) ([]State, bool) {
	s, ok := t.entries[phone]
	return s, ok
}

// NumEmitting returns the number of emitting states for a phone.
func (t *Topology) NumEmitting(phone int32) int {
	if s, ok := t.entries[phone]; ok {
		return len(s) - 1
	}
	return 0
}

// LeftToRight builds the standard topology for a set of phones: n emitting
// states in a row, each with a 0.5 self-loop and a 0.5 forward transition.
func LeftToRight(phones []int32, numEmitting int) (*Topology, error) {
	logHalf := math.Log(0.5)
	t := NewTopology()
	for _, p := range phones {
		states := make([]State, numEmitting+1)
		for i := 0; i < numEmitting; i++ {
			states[i] = State{
				PdfClass: int32(i),
				Transitions: []Transition{
					{Dest: int32(i), LogProb: logHalf},
					{Dest: int32(i + 1), LogProb: logHalf},
				},
			}
		}
		states[numEmitting] = State{PdfClass: -1}
		if err := t.SetPhone(p, states); err != nil {
			return nil, err
		}
	}
	return t, nil
}
