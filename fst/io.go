package fst

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"
)

// serializable mirror for gob encoding
type wireFst struct {
	Start StateID
	Final []float64
	Arcs  [][]Arc
}

// Save serializes the Fst to a writer using gob encoding.
func (f *Fst) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(wireFst{
		Start: f.start,
		Final: f.final,
		Arcs:  f.arcs,
	})
}

// Load deserializes an Fst from a reader.
func Load(r io.Reader) (*Fst, error) {
	var wf wireFst
	if err := gob.NewDecoder(r).Decode(&wf); err != nil {
		return nil, err
	}
	return &Fst{start: wf.Start, final: wf.Final, arcs: wf.Arcs}, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Fst, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// GobEncode implements gob.GobEncoder so an *Fst can be embedded in
// larger records (the keyed table format relies on this).
func (f *Fst) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (f *Fst) GobDecode(b []byte) error {
	g, err := Load(bytes.NewReader(b))
	if err != nil {
		return err
	}
	*f = *g
	return nil
}
