package graph

import (
	"github.com/asticode/go-astilog"
	"github.com/ieee0824/traingraph-go/fst"
	"github.com/ieee0824/traingraph-go/table"
	"github.com/pkg/errors"
)

// GraphCompiler is the compile surface the driver needs. *Compiler
// satisfies it; tests substitute stubs to probe the batch invariants.
type GraphCompiler interface {
	CompileGraph(grammar *fst.Fst) (*fst.Fst, bool)
	CompileGraphs(grammars []*fst.Fst) ([]*fst.Fst, bool)
}

// DefaultBatchSize is used when DriverOptions.BatchSize is zero.
const DefaultBatchSize = 250

// DriverOptions configures the batch driver.
//
// A batch size of 1 selects the per-item path: each failure is logged,
// written as an empty sentinel graph and counted, and the run continues.
// Larger batch sizes compile whole batches at once; batched compilation
// is contracted to succeed for every item, and a failed batch aborts the
// run unless IsolateBatchFailures opts into per-item accounting there
// too. The asymmetry is a deliberate, configurable policy.
type DriverOptions struct {
	BatchSize            int
	IsolateBatchFailures bool
}

// Stats counts per-utterance outcomes of a driver run.
type Stats struct {
	Succeeded int
	Failed    int
}

// Driver streams grammars from a keyed reader through a compiler to a
// keyed writer, one output record per input record, in input order.
type Driver struct {
	c    GraphCompiler
	opts DriverOptions
}

// NewDriver creates a driver around a compiler.
func NewDriver(c GraphCompiler, opts DriverOptions) *Driver {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Driver{c: c, opts: opts}
}

// Run consumes the reader until exhaustion. The returned error is fatal
// for the run (I/O failure or a violated batch invariant); per-utterance
// compile failures are reported only through Stats and sentinel outputs.
func (d *Driver) Run(in *table.Reader, out *table.Writer) (Stats, error) {
	var stats Stats
	var err error
	if d.opts.BatchSize == 1 {
		stats, err = d.runSingle(in, out)
	} else {
		stats, err = d.runBatched(in, out)
	}
	if err != nil {
		return stats, err
	}
	if err := in.Err(); err != nil {
		return stats, errors.Wrap(err, "reading grammar stream failed")
	}
	return stats, nil
}

func (d *Driver) runSingle(in *table.Reader, out *table.Writer) (Stats, error) {
	var stats Stats
	for in.Scan() {
		key := in.Key()
		graph, ok := d.c.CompileGraph(in.Fst())
		if !ok {
			astilog.Warnf("graph: problem creating decoding graph for utterance %s", key)
		}
		if graph.Start() != fst.NoStateID {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		if err := out.Write(key, graph); err != nil {
			return stats, errors.Wrap(err, "writing graph failed")
		}
	}
	return stats, nil
}

func (d *Driver) runBatched(in *table.Reader, out *table.Writer) (Stats, error) {
	var stats Stats
	keys := make([]string, 0, d.opts.BatchSize)
	grammars := make([]*fst.Fst, 0, d.opts.BatchSize)

	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		graphs, ok := d.c.CompileGraphs(grammars)
		if len(graphs) != len(keys) {
			return errors.Errorf("compiled %d graphs for a batch of %d utterances", len(graphs), len(keys))
		}
		if !ok && !d.opts.IsolateBatchFailures {
			return errors.New("not expecting batch graph compilation to fail")
		}
		for i, graph := range graphs {
			if graph.Start() != fst.NoStateID {
				stats.Succeeded++
			} else {
				astilog.Warnf("graph: problem creating decoding graph for utterance %s", keys[i])
				stats.Failed++
			}
			if err := out.Write(keys[i], graph); err != nil {
				return errors.Wrap(err, "writing graph failed")
			}
		}
		keys = keys[:0]
		grammars = grammars[:0]
		return nil
	}

	for in.Scan() {
		keys = append(keys, in.Key())
		grammars = append(grammars, in.Fst())
		if len(keys) == d.opts.BatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}
