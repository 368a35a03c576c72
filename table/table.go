// Package table implements keyed sequential streams of transducers: the
// input side yields (utterance key, grammar) pairs in file order, the
// output side writes (utterance key, graph) pairs. Records are a single
// gob stream.
package table

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ieee0824/traingraph-go/fst"
)

type record struct {
	Key   string
	Graph *fst.Fst
}

// Reader reads a keyed stream sequentially, bufio.Scanner style.
type Reader struct {
	dec   *gob.Decoder
	key   string
	graph *fst.Fst
	err   error
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: gob.NewDecoder(r)}
}

// Scan advances to the next record. It returns false at end of stream or
// on error; Err distinguishes the two.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	var rec record
	if err := r.dec.Decode(&rec); err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}
	r.key = rec.Key
	r.graph = rec.Graph
	return true
}

// Key returns the key of the current record.
func (r *Reader) Key() string {
	return r.key
}

// Fst returns the transducer of the current record.
func (r *Reader) Fst() *fst.Fst {
	return r.graph
}

// Err returns the first error hit by Scan, if any.
func (r *Reader) Err() error {
	return r.err
}

// Writer writes a keyed stream.
type Writer struct {
	enc *gob.Encoder
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: gob.NewEncoder(w)}
}

// Write appends one (key, transducer) record.
func (w *Writer) Write(key string, graph *fst.Fst) error {
	if err := w.enc.Encode(record{Key: key, Graph: graph}); err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}

// ReadIntVector reads whitespace-separated integers from a file, one or
// more per line. Used for disambiguation symbol lists.
func ReadIntVector(path string) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []int32
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		for _, field := range strings.Fields(scanner.Text()) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad integer %q: %w", path, lineNum, field, err)
			}
			out = append(out, int32(n))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
