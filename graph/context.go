// Package graph compiles per-utterance training graphs: it composes a
// word grammar with the lexicon, expands phonetic context, attaches HMM
// transition-ids and strips disambiguation symbols, producing one
// transducer from transition-id sequences to word sequences.
package graph

import (
	"strconv"
	"strings"

	"github.com/ieee0824/traingraph-go/fst"
)

// contextEntry is one label of the context-dependent alphabet: either a
// phone-in-context window or a disambiguation symbol passing through
// context expansion untouched.
type contextEntry struct {
	Window   []int32
	Disambig int32
}

// contextTable assigns dense labels to context entries. Label 0 is
// reserved for epsilon. A table can be shared by a whole batch so that a
// single H transducer covers every utterance in it.
type contextTable struct {
	entries []contextEntry
	index   map[string]fst.Label
}

func newContextTable() *contextTable {
	return &contextTable{
		entries: []contextEntry{{}},
		index:   make(map[string]fst.Label),
	}
}

func (t *contextTable) windowLabel(window []int32) fst.Label {
	key := windowKey(window)
	if l, ok := t.index[key]; ok {
		return l
	}
	l := fst.Label(len(t.entries))
	t.entries = append(t.entries, contextEntry{Window: append([]int32(nil), window...)})
	t.index[key] = l
	return l
}

func (t *contextTable) disambigLabel(sym int32) fst.Label {
	key := "#" + strconv.Itoa(int(sym))
	if l, ok := t.index[key]; ok {
		return l
	}
	l := fst.Label(len(t.entries))
	t.entries = append(t.entries, contextEntry{Disambig: sym})
	t.index[key] = l
	return l
}

func windowKey(window []int32) string {
	var b strings.Builder
	for i, p := range window {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(p)))
	}
	return b.String()
}

// ctxState keys the product of a phone-level state with the context
// history (the last width-1 symbols read, zero-padded at the start).
type ctxState struct {
	state   fst.StateID
	history string
}

// expandContext rewrites the phone-side input labels of lg into
// context-dependent labels from tbl. Reading a phone completes the window
// of an earlier phone, so labels are emitted with a delay of
// width-central-1 symbols; the subsequential symbol (treated as a word
// boundary) flushes the tail. Disambiguation symbols pass through without
// touching the history. A state is final only once every pending phone
// has been flushed.
func expandContext(lg *fst.Fst, width, central int, disambig map[fst.Label]bool, subseq fst.Label, tbl *contextTable) *fst.Fst {
	out := fst.New()
	if lg.Start() == fst.NoStateID {
		return out
	}

	histLen := width - 1
	states := map[ctxState]fst.StateID{}
	type item struct {
		cs   ctxState
		hist []int32
	}
	var queue []item

	find := func(s fst.StateID, hist []int32) fst.StateID {
		cs := ctxState{state: s, history: windowKey(hist)}
		if id, ok := states[cs]; ok {
			return id
		}
		id := out.AddState()
		states[cs] = id
		queue = append(queue, item{cs: cs, hist: append([]int32(nil), hist...)})
		return id
	}

	start := find(lg.Start(), make([]int32, histLen))
	out.SetStart(start)

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		s := states[it.cs]

		if lg.IsFinal(it.cs.state) && flushed(it.hist, central) {
			out.SetFinal(s, lg.Final(it.cs.state))
		}

		for _, a := range lg.Arcs(it.cs.state) {
			ilabel := a.ILabel
			hist := it.hist
			switch {
			case ilabel == fst.Epsilon:
				// keep as epsilon, history unchanged
			case disambig[ilabel]:
				ilabel = tbl.disambigLabel(a.ILabel)
			default:
				phone := a.ILabel
				if phone == subseq {
					phone = 0
				}
				window := append(append([]int32(nil), it.hist...), phone)
				if window[central] != 0 {
					ilabel = tbl.windowLabel(window)
				} else {
					ilabel = fst.Epsilon
				}
				hist = window[1:]
			}
			out.AddArc(s, fst.Arc{
				ILabel: ilabel,
				OLabel: a.OLabel,
				Weight: a.Weight,
				Next:   find(a.Next, hist),
			})
		}
	}

	fst.Connect(out)
	return out
}

// flushed reports whether no real phone is still waiting for its right
// context: every history position at or after the central one is empty.
func flushed(hist []int32, central int) bool {
	for i := central; i < len(hist); i++ {
		if hist[i] != 0 {
			return false
		}
	}
	return true
}
