// Package daily runs the game on a calendar: one answer and one game per
// player per UTC day. A Picker is both the answer source and the schedule
// the engine checks before starting a game.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

const keyLayout = "2006-01-02"

// Key is the period a time falls in: its UTC date as YYYY-MM-DD.
func Key(t time.Time) string {
	return t.UTC().Format(keyLayout)
}

// Index maps a day key onto [0, n) with HMAC-SHA256(salt, key). The salt keeps
// the sequence from being guessable from the word list alone.
func Index(key, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	return int(binary.BigEndian.Uint64(h.Sum(nil)[:8]) % uint64(n))
}

// Words is the slice of the corpus a Picker needs.
type Words interface {
	Len() int
	At(i int) string
}

// Picker hands out the day's word and tells the engine which day it is.
type Picker struct {
	words Words
	salt  string
	now   func() time.Time
}

// NewPicker builds a Picker. A nil now defaults to time.Now.
func NewPicker(words Words, salt string, now func() time.Time) *Picker {
	if now == nil {
		now = time.Now
	}
	return &Picker{words: words, salt: salt, now: now}
}

// Period returns the day key for t. Two games with the same key belong to
// the same day, so a player gets one of them.
func (p *Picker) Period(t time.Time) string {
	return Key(t)
}

// Pick returns today's word.
func (p *Picker) Pick() string {
	return p.words.At(Index(p.Period(p.now()), p.salt, p.words.Len()))
}
