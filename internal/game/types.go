// internal/game/types.go
//
// Core type definitions for the Wordle engine.
// Defines:
//   - State:  lifecycle of a persisted game (playing → won | lost).
//   - Mark:   per-tile classification (correct/present/absent/empty).
//   - Policy: how repeated letters are colored.
//   - Tile/Grid: the 5×5 board handed to the presentation layer.
//   - Game:   one persisted game record.

package game

import (
	"fmt"
	"time"
)

const (
	// MaxRounds is the number of guesses a game allows.
	MaxRounds = 5
	// WordLen is the number of letters per guess.
	WordLen = 5
	// GridSize is the number of tiles on the board.
	GridSize = MaxRounds * WordLen

	// LossRound is stored in WinRound when a game ends without a win.
	LossRound = -1
)

// State is the lifecycle state of a game record.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether no further guesses may be applied.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Mark is the color classification of one tile.
//   - "correct": right letter, right position.
//   - "present": letter occurs elsewhere in the answer.
//   - "absent":  letter does not count toward the answer.
//   - "empty":   slot for a round not yet played.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
	MarkEmpty   Mark = "empty"
)

// Policy selects the duplicate-letter rule used by Score.
type Policy string

const (
	// PolicyStandard deducts matched letters from the answer pool, so a
	// repeated guess letter is only marked as many times as it occurs.
	PolicyStandard Policy = "standard"
	// PolicyIndependent checks each position on its own: any letter found
	// anywhere in the answer is present, however many times it repeats.
	PolicyIndependent Policy = "independent"
)

// ParsePolicy maps a config value to a Policy. Empty means PolicyStandard.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStandard:
		return PolicyStandard, nil
	case PolicyIndependent:
		return PolicyIndependent, nil
	}
	return "", fmt.Errorf("unknown scoring policy %q", s)
}

// Tile is one letter slot on the board.
type Tile struct {
	Letter string `json:"letter"`
	Mark   Mark   `json:"mark"`
}

// Grid is the full board, row-major: rounds 1..5 top to bottom.
type Grid [GridSize]Tile

// Row returns the tiles of round r (0-based).
func (g *Grid) Row(r int) []Tile {
	return g[r*WordLen : (r+1)*WordLen]
}

// EmptyGrid returns a board with every tile blank.
func EmptyGrid() Grid {
	var g Grid
	for i := range g {
		g[i] = Tile{Mark: MarkEmpty}
	}
	return g
}

// Game is one persisted Wordle record. A user's current game is their
// most recent record by ID.
type Game struct {
	ID         int64
	UserID     string
	Answer     string            // upper-case, immutable after creation
	Guesses    [MaxRounds]string // upper-case; "" for rounds not played
	Round      int               // number of guesses submitted, 0..5
	WinRound   int               // 1..5 on a win, LossRound on a loss, 0 while playing
	State      State
	Policy     Policy // scoring rule fixed at creation so replays stay stable
	Period     string // schedule period the game was started in; "" when unscheduled
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Played returns the guesses submitted so far, in order.
func (g *Game) Played() []string {
	n := g.Round
	if n > MaxRounds {
		n = MaxRounds
	}
	return append([]string(nil), g.Guesses[:n]...)
}
