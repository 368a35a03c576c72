package hmm

import (
	"encoding/gob"
	"io"
	"os"
)

// serializable mirrors for gob encoding
type wireModel struct {
	Phones []int32
	States map[int32][]State
	Tuples []Tuple
}

// Save serializes the transition model (topology included) using gob.
func (tm *TransitionModel) Save(w io.Writer) error {
	wm := wireModel{
		Phones: tm.topo.phones,
		States: tm.topo.entries,
		Tuples: tm.tuples,
	}
	return gob.NewEncoder(w).Encode(wm)
}

// Load deserializes a transition model from a reader.
func Load(r io.Reader) (*TransitionModel, error) {
	var wm wireModel
	if err := gob.NewDecoder(r).Decode(&wm); err != nil {
		return nil, err
	}
	topo := &Topology{phones: wm.Phones, entries: wm.States}
	tm := &TransitionModel{
		topo:     topo,
		tuples:   wm.Tuples,
		tupleIdx: make(map[Tuple]int32),
	}
	tm.buildIndex()
	return tm, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*TransitionModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
