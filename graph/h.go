package graph

import (
	"github.com/ieee0824/traingraph-go/fst"
	"github.com/ieee0824/traingraph-go/hmm"
	"github.com/ieee0824/traingraph-go/tree"
)

// hTransducer builds the H transducer for every label in tbl: input side
// transition-ids, output side context-dependent labels. Each window entry
// becomes a detour from the shared start state through its phone's HMM
// states, self-loops included; forward arcs cost transitionScale times
// the negated log probability and self-loops selfLoopScale times it, so
// zero scales leave the topology purely structural. Disambiguation
// entries become single pass-through arcs whose input labels (returned as
// markers) live above the transition-id range and are epsilon-ized later.
// Entries whose window the tree cannot classify get no arcs, which prunes
// the paths needing them from the composition.
func hTransducer(tbl *contextTable, tm *hmm.TransitionModel, cd *tree.ContextDependency, transitionScale, selfLoopScale float64) (*fst.Fst, []fst.Label) {
	h := fst.New()
	start := h.AddState()
	h.SetStart(start)
	h.SetFinal(start, 0)

	markerBase := tm.NumTransitionIDs() + 1
	markerIdx := map[int32]fst.Label{}
	var markers []fst.Label

	for i := 1; i < len(tbl.entries); i++ {
		entry := tbl.entries[i]
		label := fst.Label(i)

		if entry.Disambig > 0 {
			marker, ok := markerIdx[entry.Disambig]
			if !ok {
				marker = markerBase + fst.Label(len(markers))
				markerIdx[entry.Disambig] = marker
				markers = append(markers, marker)
			}
			h.AddArc(start, fst.Arc{ILabel: marker, OLabel: label, Weight: 0, Next: start})
			continue
		}

		phone := entry.Window[cd.CentralPosition()]
		states, ok := tm.Topology().States(phone)
		if !ok {
			continue
		}
		if !addHMMDetour(h, start, label, entry.Window, states, tm, cd, transitionScale, selfLoopScale) {
			continue
		}
	}
	return h, markers
}

// addHMMDetour adds the start → HMM states → start path for one window.
// Returns false when the tree cannot classify some state of the window.
func addHMMDetour(h *fst.Fst, start fst.StateID, label fst.Label, window []int32, states []hmm.State, tm *hmm.TransitionModel, cd *tree.ContextDependency, transitionScale, selfLoopScale float64) bool {
	phone := window[cd.CentralPosition()]

	// Resolve every emitting state's pdf up front so a miss adds nothing.
	resolved := make([]int32, len(states))
	for si, s := range states {
		if s.PdfClass < 0 {
			continue
		}
		pdf, ok := cd.Compute(window, s.PdfClass)
		if !ok {
			return false
		}
		ts, ok := tm.TupleToState(hmm.Tuple{Phone: phone, State: int32(si), Pdf: pdf})
		if !ok {
			return false
		}
		resolved[si] = ts
	}

	hs := make([]fst.StateID, len(states))
	for si := range states {
		hs[si] = h.AddState()
	}
	h.AddArc(start, fst.Arc{ILabel: fst.Epsilon, OLabel: label, Weight: 0, Next: hs[0]})
	for si, s := range states {
		if s.PdfClass < 0 {
			h.AddArc(hs[si], fst.Arc{ILabel: fst.Epsilon, OLabel: fst.Epsilon, Weight: 0, Next: start})
			continue
		}
		for ai, tr := range s.Transitions {
			tid := tm.PairToTransitionID(resolved[si], ai)
			scale := transitionScale
			if tr.Dest == int32(si) {
				scale = selfLoopScale
			}
			h.AddArc(hs[si], fst.Arc{
				ILabel: tid,
				OLabel: fst.Epsilon,
				Weight: -scale * tr.LogProb,
				Next:   hs[tr.Dest],
			})
		}
	}
	return true
}
