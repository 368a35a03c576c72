package fst

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// SymbolTable maps symbol strings to labels and back. Label 0 is
// conventionally "<eps>".
type SymbolTable struct {
	byName map[string]Label
	byID   map[Label]string
	next   Label
}

// NewSymbolTable creates a table containing only "<eps>" at label 0.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{
		byName: make(map[string]Label),
		byID:   make(map[Label]string),
	}
	t.AddSymbol("<eps>")
	return t
}

// AddSymbol adds sym with the next free label, or returns the existing
// label if sym is already present.
func (t *SymbolTable) AddSymbol(sym string) Label {
	if l, ok := t.byName[sym]; ok {
		return l
	}
	l := t.next
	t.byName[sym] = l
	t.byID[l] = sym
	t.next++
	return l
}

// AddSymbolID adds sym with an explicit label.
func (t *SymbolTable) AddSymbolID(sym string, l Label) {
	t.byName[sym] = l
	t.byID[l] = sym
	if l >= t.next {
		t.next = l + 1
	}
}

// Find returns the label for sym.
func (t *SymbolTable) Find(sym string) (Label, bool) {
	l, ok := t.byName[sym]
	return l, ok
}

// Symbol returns the string for a label, or a numeric fallback.
func (t *SymbolTable) Symbol(l Label) string {
	if s, ok := t.byID[l]; ok {
		return s
	}
	return strconv.Itoa(int(l))
}

// NumSymbols returns the number of symbols in the table.
func (t *SymbolTable) NumSymbols() int {
	return len(t.byName)
}

// WriteText writes the table in "symbol<TAB>label" form, sorted by label.
func (t *SymbolTable) WriteText(w io.Writer) error {
	labels := make([]Label, 0, len(t.byID))
	for l := range t.byID {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	for _, l := range labels {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", t.byID[l], l); err != nil {
			return err
		}
	}
	return nil
}

// ReadSymbolTable reads a "symbol<TAB-or-space>label" table.
func ReadSymbolTable(r io.Reader) (*SymbolTable, error) {
	t := &SymbolTable{
		byName: make(map[string]Label),
		byID:   make(map[Label]string),
	}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", lineNum, len(fields))
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad label %q: %w", lineNum, fields[1], err)
		}
		t.AddSymbolID(fields[0], Label(id))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadSymbolTableFile is a convenience wrapper that opens a file path.
func ReadSymbolTableFile(path string) (*SymbolTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSymbolTable(f)
}
