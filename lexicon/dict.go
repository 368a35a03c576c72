// Package lexicon loads pronunciation dictionaries and builds the
// lexicon transducer (phones in, words out) with the disambiguation
// symbols graph compilation needs.
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry represents a single pronunciation for a word.
type Entry struct {
	Word   string
	Phones []string
}

// Dictionary holds word-to-pronunciation mappings. Word order follows
// first appearance in the source so derived transducers are stable.
type Dictionary struct {
	Entries map[string][]Entry
	words   []string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Entries: make(map[string][]Entry),
	}
}

// Add adds a pronunciation entry to the dictionary.
func (d *Dictionary) Add(word string, phones []string) {
	if _, ok := d.Entries[word]; !ok {
		d.words = append(d.words, word)
	}
	d.Entries[word] = append(d.Entries[word], Entry{
		Word:   word,
		Phones: phones,
	})
}

// Load reads a pronunciation dictionary from a tab-separated file.
// Format: word<TAB>phone1 phone2 phone3 ...
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 tab-separated fields, got %d", lineNum, len(parts))
		}

		word := parts[0]
		phones := strings.Fields(parts[1])
		if len(phones) == 0 {
			return nil, fmt.Errorf("line %d: word %q has no phones", lineNum, word)
		}

		d.Add(word, phones)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns all pronunciation variants for a word.
func (d *Dictionary) Lookup(word string) []Entry {
	return d.Entries[word]
}

// Words returns all words in first-appearance order.
func (d *Dictionary) Words() []string {
	return d.words
}
