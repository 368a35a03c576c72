package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ieee0824/traingraph-go/fst"
	"github.com/ieee0824/traingraph-go/lexicon"
)

func main() {
	phoneSymsPath := flag.String("write-phone-syms", "", "write the phone symbol table (disambiguation symbols included) to this path")
	wordSymsPath := flag.String("write-word-syms", "", "write the word symbol table to this path")
	disambigPath := flag.String("write-disambig-syms", "", "write the disambiguation symbol list to this path")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: makelexfst [options] <dict-in> <lexicon-fst-out>")
		fmt.Fprintln(os.Stderr, "  Builds the lexicon transducer from a pronunciation dictionary")
		fmt.Fprintln(os.Stderr, "  (word<TAB>phone phone ...), inserting disambiguation symbols for")
		fmt.Fprintln(os.Stderr, "  homophones and pronunciation prefixes.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	dict, err := lexicon.LoadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load dict: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Dictionary: %d words\n", len(dict.Entries))

	phoneSyms := fst.NewSymbolTable()
	wordSyms := fst.NewSymbolTable()
	lex, disambig := lexicon.BuildFst(dict, phoneSyms, wordSyms)
	fmt.Fprintf(os.Stderr, "Lexicon fst: %d states, %d disambiguation symbols\n", lex.NumStates(), len(disambig))

	of, err := os.Create(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer of.Close()
	if err := lex.Save(of); err != nil {
		fmt.Fprintf(os.Stderr, "save lexicon fst: %v\n", err)
		os.Exit(1)
	}

	if *phoneSymsPath != "" {
		writeSyms(*phoneSymsPath, phoneSyms)
	}
	if *wordSymsPath != "" {
		writeSyms(*wordSymsPath, wordSyms)
	}
	if *disambigPath != "" {
		f, err := os.Create(*disambigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *disambigPath, err)
			os.Exit(1)
		}
		defer f.Close()
		for _, sym := range disambig {
			fmt.Fprintln(f, sym)
		}
	}
}

func writeSyms(path string, t *fst.SymbolTable) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := t.WriteText(f); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}
