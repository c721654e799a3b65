package words

import (
	"errors"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader("Word\ncrane\n\n# comment\nTrace\ncrane\n  slate \n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"CRANE", "TRACE", "SLATE"}
	got := c.Words()
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only comments", "# nothing\n\n"},
		{"too short", "crane\nabc\n"},
		{"too long", "cranes\n"},
		{"non letter", "cr4ne\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			if !errors.Is(err, ErrCorpus) {
				t.Errorf("Load(%q) error = %v, want ErrCorpus", tt.input, err)
			}
		})
	}
}

func TestLoadReportsLine(t *testing.T) {
	_, err := Load(strings.NewReader("crane\ntrace\nxx\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error = %v, want mention of line 3", err)
	}
}

func TestContains(t *testing.T) {
	c, err := Load(strings.NewReader("crane\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"crane", "CRANE", "CrAnE", " crane "} {
		if !c.Contains(w) {
			t.Errorf("Contains(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"trace", "", "cran"} {
		if c.Contains(w) {
			t.Errorf("Contains(%q) = true, want false", w)
		}
	}
}

func TestRandomWordFromCorpus(t *testing.T) {
	c, err := Load(strings.NewReader("crane\ntrace\nslate\n"))
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		w := c.RandomWord()
		if !c.Contains(w) {
			t.Fatalf("RandomWord() = %q, not in corpus", w)
		}
		seen[w] = true
	}
	if len(seen) < 2 {
		t.Errorf("RandomWord() returned only %v over 200 draws", seen)
	}
}

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}
	if c.Len() < 100 {
		t.Errorf("embedded corpus has %d words, want at least 100", c.Len())
	}
	for _, w := range []string{"CRANE", "TRACE"} {
		if !c.Contains(w) {
			t.Errorf("embedded corpus missing %s", w)
		}
	}
}

func TestIsWordShape(t *testing.T) {
	tests := map[string]bool{
		"CRANE":  true,
		"crane":  false,
		"CRAN":   false,
		"CRANES": false,
		"CR-NE":  false,
		"ÉCRAN":  false,
	}
	for in, want := range tests {
		if got := IsWordShape(in); got != want {
			t.Errorf("IsWordShape(%q) = %v, want %v", in, got, want)
		}
	}
}
