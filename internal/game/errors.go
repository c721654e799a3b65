package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGuess is the parent of every rejected submission.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrGuessLength rejects guesses that are not exactly 5 letters A–Z.
	ErrGuessLength = fmt.Errorf("%w: 5 letters only", ErrInvalidGuess)
	// ErrNotInWordList rejects well-formed guesses missing from the corpus.
	ErrNotInWordList = fmt.Errorf("%w: word not accepted", ErrInvalidGuess)

	// ErrGameTerminal means the game is already won or lost; start a new one.
	ErrGameTerminal = errors.New("game finished")
	// ErrNoGame means the user has no game record yet.
	ErrNoGame = errors.New("no game")
	// ErrAlreadyPlayed means the user already has a game in the current
	// schedule period (today, in daily mode).
	ErrAlreadyPlayed = errors.New("already played this period")
)

// StoreError wraps a persistence failure. The game passed to the engine is
// left exactly as it was before the call.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
