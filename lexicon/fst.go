package lexicon

import (
	"fmt"
	"strings"

	"github.com/ieee0824/traingraph-go/fst"
)

// BuildFst builds the lexicon transducer L: input phones, output words,
// every pronunciation a loop through the shared root state. Missing
// phones and words are added to the given symbol tables.
//
// Pronunciations that are a prefix of another pronunciation, or that are
// shared by several words, get a trailing disambiguation symbol (#1, #2,
// ...) so later composition stays determinizable. The labels of the
// symbols used are returned; they belong to the phone alphabet and are
// stripped again during graph compilation.
func BuildFst(d *Dictionary, phoneSyms, wordSyms *fst.SymbolTable) (*fst.Fst, []int32) {
	type pron struct {
		word   string
		phones []string
		key    string
	}
	var prons []pron
	counts := map[string]int{}
	prefixes := map[string]bool{}
	for _, w := range d.Words() {
		for _, e := range d.Entries[w] {
			key := strings.Join(e.Phones, " ")
			prons = append(prons, pron{word: w, phones: e.Phones, key: key})
			counts[key]++
			for l := 1; l < len(e.Phones); l++ {
				prefixes[strings.Join(e.Phones[:l], " ")] = true
			}
		}
	}

	// Assign disambiguation symbol numbers per pronunciation.
	numbers := make([]int, len(prons))
	lastUsed := map[string]int{}
	maxNumber := 0
	for i, p := range prons {
		if counts[p.key] > 1 || prefixes[p.key] {
			n := lastUsed[p.key] + 1
			lastUsed[p.key] = n
			numbers[i] = n
			if n > maxNumber {
				maxNumber = n
			}
		}
	}
	disambig := make([]int32, 0, maxNumber)
	disambigLabels := make([]fst.Label, maxNumber+1)
	for n := 1; n <= maxNumber; n++ {
		l := phoneSyms.AddSymbol(fmt.Sprintf("#%d", n))
		disambigLabels[n] = l
		disambig = append(disambig, l)
	}

	lex := fst.New()
	root := lex.AddState()
	lex.SetStart(root)
	lex.SetFinal(root, 0)

	for i, p := range prons {
		wordLabel := wordSyms.AddSymbol(p.word)
		cur := root
		for j, ph := range p.phones {
			olabel := fst.Epsilon
			if j == 0 {
				olabel = wordLabel
			}
			next := root
			if j < len(p.phones)-1 || numbers[i] > 0 {
				next = lex.AddState()
			}
			lex.AddArc(cur, fst.Arc{
				ILabel: phoneSyms.AddSymbol(ph),
				OLabel: olabel,
				Weight: 0,
				Next:   next,
			})
			cur = next
		}
		if numbers[i] > 0 {
			lex.AddArc(cur, fst.Arc{
				ILabel: disambigLabels[numbers[i]],
				OLabel: fst.Epsilon,
				Weight: 0,
				Next:   root,
			})
		}
	}
	return lex, disambig
}
