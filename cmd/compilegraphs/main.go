package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/asticode/go-astilog"
	"github.com/ieee0824/traingraph-go/fst"
	"github.com/ieee0824/traingraph-go/graph"
	"github.com/ieee0824/traingraph-go/hmm"
	"github.com/ieee0824/traingraph-go/table"
	"github.com/ieee0824/traingraph-go/tree"
	"github.com/pkg/errors"
)

func main() {
	batchSize := flag.Int("batch-size", graph.DefaultBatchSize, "number of grammars to compile at a time (more is faster but uses more memory)")
	disambigPath := flag.String("read-disambig-syms", "", "file listing the disambiguation symbol labels of the phone alphabet")
	transitionScale := flag.Float64("transition-scale", 0.0, "scale on forward transition log probabilities")
	selfLoopScale := flag.Float64("self-loop-scale", 0.0, "scale on self-loop log probabilities")
	isolateBatchFailures := flag.Bool("isolate-batch-failures", false, "write sentinel graphs for failed utterances in batched mode instead of aborting")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: compilegraphs [options] <tree-in> <model-in> <lexicon-fst-in> <grammars-in> <graphs-out>")
		fmt.Fprintln(os.Stderr, "  Compiles one training graph per utterance from a keyed stream of")
		fmt.Fprintln(os.Stderr, "  weighted word grammars. The lexicon should carry disambiguation")
		fmt.Fprintln(os.Stderr, "  symbols, listed via -read-disambig-syms.")
		fmt.Fprintln(os.Stderr, "  The default scales of zero are intended for training graphs; the")
		fmt.Fprintln(os.Stderr, "  probabilities are added back in the alignment pass.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()
	astilog.FlagInit()

	if flag.NArg() != 5 {
		flag.Usage()
		os.Exit(1)
	}
	treePath := flag.Arg(0)
	modelPath := flag.Arg(1)
	lexiconPath := flag.Arg(2)
	grammarsPath := flag.Arg(3)
	graphsPath := flag.Arg(4)

	cd, err := tree.LoadFile(treePath)
	if err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: loading context tree %s failed", treePath))
	}
	tm, err := hmm.LoadFile(modelPath)
	if err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: loading transition model %s failed", modelPath))
	}
	lex, err := fst.LoadFile(lexiconPath)
	if err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: loading lexicon fst %s failed", lexiconPath))
	}

	var disambig []int32
	if *disambigPath != "" {
		disambig, err = table.ReadIntVector(*disambigPath)
		if err != nil {
			astilog.Fatal(errors.Wrapf(err, "compilegraphs: reading disambiguation symbols from %s failed", *disambigPath))
		}
	}
	if len(disambig) == 0 {
		astilog.Warnf("compilegraphs: no disambiguation symbols supplied; these are typically necessary when compiling graphs from grammar fsts (build the lexicon with them and pass -read-disambig-syms)")
	}

	// The compiler owns lex from here on.
	c := graph.NewCompiler(tm, cd, lex, disambig, graph.Options{
		TransitionScale: *transitionScale,
		SelfLoopScale:   *selfLoopScale,
	})

	in, err := os.Open(grammarsPath)
	if err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: opening grammar stream %s failed", grammarsPath))
	}
	defer in.Close()
	out, err := os.Create(graphsPath)
	if err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: creating graph stream %s failed", graphsPath))
	}
	defer out.Close()

	d := graph.NewDriver(c, graph.DriverOptions{
		BatchSize:            *batchSize,
		IsolateBatchFailures: *isolateBatchFailures,
	})
	stats, err := d.Run(table.NewReader(in), table.NewWriter(out))
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "compilegraphs: driver run failed"))
	}
	if err := out.Close(); err != nil {
		astilog.Fatal(errors.Wrapf(err, "compilegraphs: closing graph stream %s failed", graphsPath))
	}

	astilog.Infof("compilegraphs: succeeded for %d graphs, failed for %d", stats.Succeeded, stats.Failed)
}
