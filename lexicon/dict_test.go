package lexicon

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	src := "# comment\nAB\ta b\nBA\tb a\n\nAB\ta b b\n"
	d, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := d.Words(); len(got) != 2 || got[0] != "AB" || got[1] != "BA" {
		t.Errorf("Words = %v, want [AB BA]", got)
	}
	entries := d.Lookup("AB")
	if len(entries) != 2 {
		t.Fatalf("AB has %d pronunciations, want 2", len(entries))
	}
	if len(entries[0].Phones) != 2 || entries[0].Phones[0] != "a" || entries[0].Phones[1] != "b" {
		t.Errorf("first pronunciation = %v", entries[0].Phones)
	}
	if len(entries[1].Phones) != 3 {
		t.Errorf("second pronunciation = %v", entries[1].Phones)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing phones column", "AB\n"},
		{"empty phone list", "AB\t \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.src)); err == nil {
				t.Error("bad dictionary accepted")
			}
		})
	}
}
