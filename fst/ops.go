package fst

// Relabel rewrites arc labels in place. imap applies to input labels and
// omap to output labels; labels absent from a map are left alone. A nil
// map skips that tape.
func Relabel(f *Fst, imap, omap map[Label]Label) {
	for s := range f.arcs {
		for i := range f.arcs[s] {
			a := &f.arcs[s][i]
			if imap != nil {
				if l, ok := imap[a.ILabel]; ok {
					a.ILabel = l
				}
			}
			if omap != nil {
				if l, ok := omap[a.OLabel]; ok {
					a.OLabel = l
				}
			}
		}
	}
}

// RmEpsilon removes arcs that are epsilon on both tapes by folding their
// weight-minimal closure into the surrounding arcs and final weights.
// Arcs that are epsilon on only one tape are kept.
func RmEpsilon(f *Fst) {
	n := f.NumStates()
	if n == 0 {
		return
	}

	arcs := make([][]Arc, n)
	final := make([]float64, n)
	for s := 0; s < n; s++ {
		closure := epsClosure(f, StateID(s))
		final[s] = f.final[s]
		for t, d := range closure {
			if tf := f.final[t]; !isInf(tf) && d+tf < final[s] {
				final[s] = d + tf
			}
			for _, a := range f.arcs[t] {
				if a.ILabel == Epsilon && a.OLabel == Epsilon {
					continue
				}
				a.Weight += d
				arcs[s] = append(arcs[s], a)
			}
		}
	}
	f.arcs = arcs
	f.final = final
	Connect(f)
}

// epsClosure returns states reachable from s by epsilon-only arcs, mapped
// to the minimal accumulated weight. s itself is included with weight 0.
func epsClosure(f *Fst, s StateID) map[StateID]float64 {
	dist := map[StateID]float64{s: 0}
	queue := []StateID{s}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, a := range f.Arcs(q) {
			if a.ILabel != Epsilon || a.OLabel != Epsilon {
				continue
			}
			d := dist[q] + a.Weight
			if old, ok := dist[a.Next]; !ok || d < old {
				dist[a.Next] = d
				queue = append(queue, a.Next)
			}
		}
	}
	return dist
}

// AddSubsequentialLoop lets every accepted input sequence be followed by
// any number of trailing occurrences of label (output-epsilon, weight
// folded from the final weight). Context expansion needs the trailing
// symbols to flush phones whose right context is not yet known.
func AddSubsequentialLoop(f *Fst, label Label) {
	if f.Start() == NoStateID {
		return
	}
	super := f.AddState()
	f.SetFinal(super, 0)
	f.AddArc(super, Arc{ILabel: label, OLabel: Epsilon, Weight: 0, Next: super})
	for s := StateID(0); s < StateID(f.NumStates()); s++ {
		if s == super || !f.IsFinal(s) {
			continue
		}
		f.AddArc(s, Arc{ILabel: label, OLabel: Epsilon, Weight: f.Final(s), Next: super})
	}
}

// Path is one accepting path with epsilons stripped from both tapes.
type Path struct {
	ILabels []Label
	OLabels []Label
	Weight  float64
}

// Paths enumerates accepting paths, skipping self-loop arcs so that
// graphs with self-loops stay enumerable. Enumeration stops after max
// paths (0 means no limit). Intended for tests and debugging.
func Paths(f *Fst, max int) []Path {
	var out []Path
	if f.Start() == NoStateID {
		return out
	}
	var ilabels, olabels []Label
	var walk func(s StateID, w float64)
	walk = func(s StateID, w float64) {
		if max > 0 && len(out) >= max {
			return
		}
		if f.IsFinal(s) {
			out = append(out, Path{
				ILabels: append([]Label(nil), ilabels...),
				OLabels: append([]Label(nil), olabels...),
				Weight:  w + f.Final(s),
			})
		}
		for _, a := range f.Arcs(s) {
			if a.Next == s {
				continue
			}
			ni, no := len(ilabels), len(olabels)
			if a.ILabel != Epsilon {
				ilabels = append(ilabels, a.ILabel)
			}
			if a.OLabel != Epsilon {
				olabels = append(olabels, a.OLabel)
			}
			walk(a.Next, w+a.Weight)
			ilabels = ilabels[:ni]
			olabels = olabels[:no]
		}
	}
	walk(f.Start(), 0)
	return out
}
