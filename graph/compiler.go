package graph

import (
	"github.com/ieee0824/traingraph-go/fst"
	"github.com/ieee0824/traingraph-go/hmm"
	"github.com/ieee0824/traingraph-go/tree"
)

// Options configures graph compilation. Both scales default to zero:
// transition probabilities are reintroduced during the later alignment
// pass, so compiling them in here would count them twice.
type Options struct {
	TransitionScale float64
	SelfLoopScale   float64
}

// Compiler compiles per-utterance training graphs against a fixed
// transition model, context tree and lexicon transducer. All three are
// immutable after construction; graphs for different utterances differ
// only through the grammar input.
type Compiler struct {
	tm       *hmm.TransitionModel
	cd       *tree.ContextDependency
	lex      *fst.Fst
	disambig map[fst.Label]bool
	opts     Options
	subseq   fst.Label
}

// NewCompiler creates a compiler. Ownership of lex transfers to the
// compiler, which mutates it in place (context expansion needs a
// subsequential loop when the window extends to the right); the caller
// must not use lex afterwards. An empty disambiguation set is allowed but
// risks non-determinism; callers are expected to warn.
func NewCompiler(tm *hmm.TransitionModel, cd *tree.ContextDependency, lex *fst.Fst, disambigSyms []int32, opts Options) *Compiler {
	c := &Compiler{
		tm:       tm,
		cd:       cd,
		lex:      lex,
		disambig: make(map[fst.Label]bool, len(disambigSyms)),
		opts:     opts,
	}
	maxLabel := fst.Label(0)
	for _, sym := range disambigSyms {
		c.disambig[sym] = true
		if sym > maxLabel {
			maxLabel = sym
		}
	}
	for _, p := range tm.Topology().Phones() {
		if p > maxLabel {
			maxLabel = p
		}
	}
	for s := fst.StateID(0); s < fst.StateID(lex.NumStates()); s++ {
		for _, a := range lex.Arcs(s) {
			if a.ILabel > maxLabel {
				maxLabel = a.ILabel
			}
		}
	}
	c.subseq = maxLabel + 1
	if cd.ContextWidth()-cd.CentralPosition()-1 > 0 {
		fst.AddSubsequentialLoop(c.lex, c.subseq)
	}
	return c
}

// CompileGraph compiles the training graph for one utterance grammar.
// On failure (empty grammar, vocabulary the lexicon cannot cover, or a
// context the tree cannot classify) it returns an empty graph with no
// start state and false; this never aborts the process.
func (c *Compiler) CompileGraph(grammar *fst.Fst) (*fst.Fst, bool) {
	tbl := newContextTable()
	clg := c.contextExpandedGraph(grammar, tbl)
	if clg.Start() == fst.NoStateID {
		return fst.New(), false
	}
	h, markers := hTransducer(tbl, c.tm, c.cd, c.opts.TransitionScale, c.opts.SelfLoopScale)
	return c.attachTransitions(h, markers, clg)
}

// CompileGraphs compiles a batch in input order. The context label table
// is shared across the batch so one H transducer serves every item. The
// result always has exactly one graph per grammar; slots for failed items
// hold empty graphs and make the second result false.
func (c *Compiler) CompileGraphs(grammars []*fst.Fst) ([]*fst.Fst, bool) {
	tbl := newContextTable()
	clgs := make([]*fst.Fst, len(grammars))
	for i, g := range grammars {
		clgs[i] = c.contextExpandedGraph(g, tbl)
	}
	h, markers := hTransducer(tbl, c.tm, c.cd, c.opts.TransitionScale, c.opts.SelfLoopScale)

	out := make([]*fst.Fst, len(grammars))
	allOK := true
	for i, clg := range clgs {
		if clg.Start() == fst.NoStateID {
			out[i] = fst.New()
			allOK = false
			continue
		}
		graph, ok := c.attachTransitions(h, markers, clg)
		out[i] = graph
		allOK = allOK && ok
	}
	return out, allOK
}

// contextExpandedGraph composes the lexicon with the grammar and expands
// phone context, registering windows in tbl. An empty result means the
// utterance cannot be compiled.
func (c *Compiler) contextExpandedGraph(grammar *fst.Fst, tbl *contextTable) *fst.Fst {
	lg := fst.Compose(c.lex, grammar)
	if lg.Start() == fst.NoStateID {
		return lg
	}
	return expandContext(lg, c.cd.ContextWidth(), c.cd.CentralPosition(), c.disambig, c.subseq, tbl)
}

// attachTransitions composes H with the context-expanded graph and strips
// the disambiguation markers from the input side.
func (c *Compiler) attachTransitions(h *fst.Fst, markers []fst.Label, clg *fst.Fst) (*fst.Fst, bool) {
	out := fst.Compose(h, clg)
	if out.Start() == fst.NoStateID {
		return fst.New(), false
	}
	if len(markers) > 0 {
		imap := make(map[fst.Label]fst.Label, len(markers))
		for _, m := range markers {
			imap[m] = fst.Epsilon
		}
		fst.Relabel(out, imap, nil)
	}
	fst.RmEpsilon(out)
	if out.Start() == fst.NoStateID {
		return fst.New(), false
	}
	return out, true
}
