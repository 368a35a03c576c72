package fst

// statePair keys the product construction during composition.
type statePair struct {
	a, b StateID
}

// Compose returns the composition a ∘ b: a path exists in the result for
// every pair of paths whose output (in a) and input (in b) label sequences
// agree, with weights added. Epsilons on the matching tapes are followed
// freely; under the tropical semiring the redundant interleavings this
// admits carry identical weights, so path semantics are unaffected.
func Compose(a, b *Fst) *Fst {
	out := New()
	if a.Start() == NoStateID || b.Start() == NoStateID {
		return out
	}

	states := map[statePair]StateID{}
	var queue []statePair

	find := func(p statePair) StateID {
		if s, ok := states[p]; ok {
			return s
		}
		s := out.AddState()
		states[p] = s
		queue = append(queue, p)
		return s
	}

	start := statePair{a.Start(), b.Start()}
	out.SetStart(find(start))

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		s := states[p]

		fa, fb := a.Final(p.a), b.Final(p.b)
		if !isInf(fa) && !isInf(fb) {
			out.SetFinal(s, fa+fb)
		}

		// a moves alone on output-epsilon arcs.
		for _, arcA := range a.Arcs(p.a) {
			if arcA.OLabel != Epsilon {
				continue
			}
			out.AddArc(s, Arc{
				ILabel: arcA.ILabel,
				OLabel: Epsilon,
				Weight: arcA.Weight,
				Next:   find(statePair{arcA.Next, p.b}),
			})
		}
		// b moves alone on input-epsilon arcs.
		for _, arcB := range b.Arcs(p.b) {
			if arcB.ILabel != Epsilon {
				continue
			}
			out.AddArc(s, Arc{
				ILabel: Epsilon,
				OLabel: arcB.OLabel,
				Weight: arcB.Weight,
				Next:   find(statePair{p.a, arcB.Next}),
			})
		}
		// Matched moves on non-epsilon labels.
		for _, arcA := range a.Arcs(p.a) {
			if arcA.OLabel == Epsilon {
				continue
			}
			for _, arcB := range b.Arcs(p.b) {
				if arcB.ILabel != arcA.OLabel {
					continue
				}
				out.AddArc(s, Arc{
					ILabel: arcA.ILabel,
					OLabel: arcB.OLabel,
					Weight: arcA.Weight + arcB.Weight,
					Next:   find(statePair{arcA.Next, arcB.Next}),
				})
			}
		}
	}

	Connect(out)
	return out
}

// Connect trims the Fst to states that are both reachable from the start
// state and can reach a final state. An Fst with no surviving states is
// left empty with no start state.
func Connect(f *Fst) {
	n := f.NumStates()
	if n == 0 || f.Start() == NoStateID {
		f.DeleteStates()
		return
	}

	access := make([]bool, n)
	var stack []StateID
	access[f.Start()] = true
	stack = append(stack, f.Start())
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range f.Arcs(s) {
			if !access[a.Next] {
				access[a.Next] = true
				stack = append(stack, a.Next)
			}
		}
	}

	// Reverse adjacency for coaccessibility.
	rev := make([][]StateID, n)
	for s := 0; s < n; s++ {
		for _, a := range f.arcs[s] {
			rev[a.Next] = append(rev[a.Next], StateID(s))
		}
	}
	coaccess := make([]bool, n)
	for s := 0; s < n; s++ {
		if f.IsFinal(StateID(s)) && !coaccess[s] {
			coaccess[s] = true
			stack = append(stack, StateID(s))
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[s] {
			if !coaccess[p] {
				coaccess[p] = true
				stack = append(stack, p)
			}
		}
	}

	keep := make([]StateID, n)
	kept := int32(0)
	for s := 0; s < n; s++ {
		if access[s] && coaccess[s] {
			keep[s] = kept
			kept++
		} else {
			keep[s] = NoStateID
		}
	}
	if kept == int32(n) {
		return
	}
	if keep[f.Start()] == NoStateID {
		f.DeleteStates()
		return
	}

	arcs := make([][]Arc, kept)
	final := make([]float64, kept)
	for s := 0; s < n; s++ {
		ns := keep[s]
		if ns == NoStateID {
			continue
		}
		final[ns] = f.final[s]
		for _, a := range f.arcs[s] {
			if keep[a.Next] == NoStateID {
				continue
			}
			a.Next = keep[a.Next]
			arcs[ns] = append(arcs[ns], a)
		}
	}
	f.arcs = arcs
	f.final = final
	f.start = keep[f.start]
}

func isInf(w float64) bool {
	return w > 1e300
}
