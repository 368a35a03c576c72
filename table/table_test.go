package table

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ieee0824/traingraph-go/fst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(labels ...fst.Label) *fst.Fst {
	f := fst.New()
	s := f.AddState()
	f.SetStart(s)
	for _, l := range labels {
		next := f.AddState()
		f.AddArc(s, fst.Arc{ILabel: l, OLabel: l, Next: next})
		s = next
	}
	f.SetFinal(s, 0)
	return f
}

func TestReadWriteRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write("utt1", chain(1, 2)))
	require.NoError(t, w.Write("utt2", fst.New())) // failure sentinel
	require.NoError(t, w.Write("utt3", chain(3)))

	r := NewReader(&buf)
	var keys []string
	var states []int
	for r.Scan() {
		keys = append(keys, r.Key())
		states = append(states, r.Fst().NumStates())
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []string{"utt1", "utt2", "utt3"}, keys)
	assert.Equal(t, []int{3, 0, 2}, states)
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	assert.False(t, r.Scan())
	assert.NoError(t, r.Err())
}

func TestReaderCorruptStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write("utt1", chain(1)))
	// Truncate mid-record.
	data := buf.Bytes()[:buf.Len()-4]

	r := NewReader(bytes.NewReader(data))
	for r.Scan() {
	}
	assert.Error(t, r.Err())
}

func TestReadIntVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disambig.int")
	require.NoError(t, os.WriteFile(path, []byte("4 5\n6\n"), 0o644))

	got, err := ReadIntVector(path)
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 5, 6}, got)
}

func TestReadIntVectorErrors(t *testing.T) {
	if _, err := ReadIntVector(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.int")
	require.NoError(t, os.WriteFile(path, []byte("4 x\n"), 0o644))
	_, err := ReadIntVector(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad integer")
}
