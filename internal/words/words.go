// internal/words/words.go
//
// Word corpus for the Wordle engine.
//
// Responsibilities:
//   - Parse a word list (one word per line) into an immutable, ordered corpus.
//   - Case-insensitive membership tests for guess validation.
//   - Uniform random answer selection.
//
// Input format:
//   - Blank lines and lines starting with '#' are ignored.
//   - A leading "Word" header line (CSV export) is ignored.
//   - Every other line must be exactly 5 ASCII letters; anything else fails the load.
//
// A Corpus is built once at process start and injected wherever it is needed.
// It is never mutated afterwards, so concurrent readers need no locking.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordle-rounds/assets"
)

// WordLen is the number of letters in every corpus entry.
const WordLen = 5

// ErrCorpus marks any failure to build a corpus. Startup treats it as fatal.
var ErrCorpus = errors.New("words: corpus load failed")

// Corpus is the fixed dictionary of acceptable answers and guesses.
type Corpus struct {
	list []string            // upper-case, load order, no duplicates
	set  map[string]struct{} // same entries, for lookups
}

// Load parses a word list from r.
func Load(r io.Reader) (*Corpus, error) {
	c := &Corpus{set: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if line == 1 && strings.EqualFold(w, "word") {
			continue
		}
		w = strings.ToUpper(w)
		if !IsWordShape(w) {
			return nil, fmt.Errorf("%w: line %d: %q is not a %d-letter word", ErrCorpus, line, w, WordLen)
		}
		if _, dup := c.set[w]; dup {
			continue
		}
		c.set[w] = struct{}{}
		c.list = append(c.list, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
	}
	if len(c.list) == 0 {
		return nil, fmt.Errorf("%w: word list is empty", ErrCorpus)
	}
	return c, nil
}

// LoadFile reads a word list from disk.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadEmbedded reads the word list compiled into the binary.
func LoadEmbedded() (*Corpus, error) {
	f, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
	}
	defer f.Close()
	return Load(f)
}

// FromPath loads path when set, otherwise the embedded list.
func FromPath(path string) (*Corpus, error) {
	if path != "" {
		return LoadFile(path)
	}
	return LoadEmbedded()
}

// Contains reports whether word is in the corpus, ignoring case and surrounding space.
func (c *Corpus) Contains(word string) bool {
	_, ok := c.set[strings.ToUpper(strings.TrimSpace(word))]
	return ok
}

// RandomWord returns a uniformly chosen entry.
func (c *Corpus) RandomWord() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.list))))
	if err != nil {
		return c.list[0]
	}
	return c.list[n.Int64()]
}

// Pick satisfies game.AnswerSource.
func (c *Corpus) Pick() string { return c.RandomWord() }

// Words returns a copy of the corpus in load order.
func (c *Corpus) Words() []string {
	return append([]string(nil), c.list...)
}

// At returns the i-th word in load order.
func (c *Corpus) At(i int) string { return c.list[i] }

// Len returns the number of words.
func (c *Corpus) Len() int { return len(c.list) }

// IsWordShape reports whether s is exactly WordLen upper-case ASCII letters.
func IsWordShape(s string) bool {
	if len(s) != WordLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
