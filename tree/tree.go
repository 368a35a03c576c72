// Package tree implements the phonetic context-dependency tree: a mapping
// from a phone in its context window (plus an HMM pdf-class) to a leaf,
// the probability-density identifier shared by tied states.
package tree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Leaf ties one (context window, pdf-class) pair to a pdf identifier.
// Position 0 in a window value means "outside the phone sequence" (or an
// unspecified context in a backoff entry).
type Leaf struct {
	Window   []int32
	PdfClass int32
	Pdf      int32
}

// ContextDependency maps context windows to pdfs. Lookup first tries the
// exact window, then backs off to an entry with every non-central
// position cleared, so monophone ties answer for unseen contexts.
type ContextDependency struct {
	width   int
	central int
	numPdfs int32
	leaves  []Leaf
	index   map[string]int32
}

// New creates an empty tree for the given context window shape. width is
// the window size (1 = monophone, 3 = triphone) and central the index of
// the phone being classified within the window.
func New(width, central int) (*ContextDependency, error) {
	if width < 1 || central < 0 || central >= width {
		return nil, fmt.Errorf("bad context shape: width %d, central position %d", width, central)
	}
	return &ContextDependency{
		width:   width,
		central: central,
		index:   make(map[string]int32),
	}, nil
}

// ContextWidth returns the context window size.
func (cd *ContextDependency) ContextWidth() int {
	return cd.width
}

// CentralPosition returns the index of the classified phone in the window.
func (cd *ContextDependency) CentralPosition() int {
	return cd.central
}

// NumPdfs returns one past the largest pdf identifier tied so far.
func (cd *ContextDependency) NumPdfs() int32 {
	return cd.numPdfs
}

// Tie maps (window, pdfClass) to pdf. The window must have exactly
// ContextWidth entries and a non-zero central phone.
func (cd *ContextDependency) Tie(window []int32, pdfClass, pdf int32) error {
	if len(window) != cd.width {
		return fmt.Errorf("window has %d phones, tree wants %d", len(window), cd.width)
	}
	if window[cd.central] == 0 {
		return fmt.Errorf("central phone of window %v is epsilon", window)
	}
	key := leafKey(window, pdfClass)
	if _, ok := cd.index[key]; ok {
		return fmt.Errorf("window %v pdf-class %d already tied", window, pdfClass)
	}
	cd.index[key] = pdf
	cd.leaves = append(cd.leaves, Leaf{
		Window:   append([]int32(nil), window...),
		PdfClass: pdfClass,
		Pdf:      pdf,
	})
	if pdf >= cd.numPdfs {
		cd.numPdfs = pdf + 1
	}
	return nil
}

// Compute returns the pdf for a phone-in-context window and pdf-class.
// The second result is false when neither the exact window nor its
// central-phone backoff is tied.
func (cd *ContextDependency) Compute(window []int32, pdfClass int32) (int32, bool) {
	if len(window) != cd.width || window[cd.central] == 0 {
		return 0, false
	}
	if pdf, ok := cd.index[leafKey(window, pdfClass)]; ok {
		return pdf, true
	}
	backoff := make([]int32, cd.width)
	backoff[cd.central] = window[cd.central]
	pdf, ok := cd.index[leafKey(backoff, pdfClass)]
	return pdf, ok
}

// PossiblePdfs returns the sorted set of pdfs a (phone, pdf-class) pair
// can resolve to across all tied contexts. The transition model uses this
// to enumerate its transition-id tuples.
func (cd *ContextDependency) PossiblePdfs(phone, pdfClass int32) []int32 {
	seen := map[int32]bool{}
	for _, l := range cd.leaves {
		if l.Window[cd.central] == phone && l.PdfClass == pdfClass {
			seen[l.Pdf] = true
		}
	}
	out := make([]int32, 0, len(seen))
	for pdf := range seen {
		out = append(out, pdf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Monophone builds a context-independent tree: every (phone, pdf-class)
// pair gets its own pdf, in phone order.
func Monophone(phones []int32, pdfClassesPerPhone int) *ContextDependency {
	cd, _ := New(1, 0)
	for _, p := range phones {
		for c := 0; c < pdfClassesPerPhone; c++ {
			cd.Tie([]int32{p}, int32(c), cd.numPdfs)
		}
	}
	return cd
}

func leafKey(window []int32, pdfClass int32) string {
	var b strings.Builder
	for i, p := range window {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(p)))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(pdfClass)))
	return b.String()
}
