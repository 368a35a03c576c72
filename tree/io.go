package tree

import (
	"encoding/gob"
	"io"
	"os"
)

// serializable mirror for gob encoding
type wireTree struct {
	Width   int
	Central int
	Leaves  []Leaf
}

// Save serializes the tree to a writer using gob encoding.
func (cd *ContextDependency) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(wireTree{
		Width:   cd.width,
		Central: cd.central,
		Leaves:  cd.leaves,
	})
}

// Load deserializes a tree from a reader.
func Load(r io.Reader) (*ContextDependency, error) {
	var wt wireTree
	if err := gob.NewDecoder(r).Decode(&wt); err != nil {
		return nil, err
	}
	cd, err := New(wt.Width, wt.Central)
	if err != nil {
		return nil, err
	}
	for _, l := range wt.Leaves {
		if err := cd.Tie(l.Window, l.PdfClass, l.Pdf); err != nil {
			return nil, err
		}
	}
	return cd, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*ContextDependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
