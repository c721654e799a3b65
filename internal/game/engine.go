// internal/game/engine.go
//
// Wordle round-state machine.
// Responsibilities:
//   - Start games with an answer drawn from the corpus (or a daily picker).
//   - Validate guesses (length, letters, optionally the word list).
//   - Apply a guess to the persisted record: append, advance the round,
//     settle won/lost, and write the record back in a single update.
//   - Rebuild the board from the record on every call.
//   - With a schedule (daily mode), allow one game per user per period.
//
// The engine holds no per-game state between calls; every request loads the
// record from the Store, and a failed write leaves the caller's copy untouched.

package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store persists game records. Implementations live in internal/store.
type Store interface {
	// MostRecent returns the user's latest game by ID, or (nil, nil) if none.
	MostRecent(ctx context.Context, userID string) (*Game, error)
	// Create inserts g and assigns g.ID.
	Create(ctx context.Context, g *Game) error
	// Update writes g back atomically.
	Update(ctx context.Context, g *Game) error
}

// Dictionary is the word corpus as the engine sees it.
type Dictionary interface {
	Contains(word string) bool
	Pick() string
}

// AnswerSource chooses the answer for a new game.
type AnswerSource interface {
	Pick() string
}

// Schedule limits a user to one game per period. Period maps a time to the
// key of the period it falls in (a UTC date in daily mode).
type Schedule interface {
	Period(t time.Time) string
}

// Observer receives game events (metrics). All methods must be cheap.
type Observer interface {
	GameStarted()
	GuessRejected(err error)
	GuessAccepted(g *Game)
}

type nopObserver struct{}

func (nopObserver) GameStarted()          {}
func (nopObserver) GuessRejected(error)   {}
func (nopObserver) GuessAccepted(g *Game) {}

// Engine runs the game rules against a Store.
type Engine struct {
	dict    Dictionary
	answers AnswerSource
	store   Store
	policy  Policy
	strict  bool
	sched   Schedule // nil: a new game may start as soon as the last one ends
	now     func() time.Time
	log     zerolog.Logger
	obs     Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy sets the scoring policy recorded on new games.
func WithPolicy(p Policy) Option { return func(e *Engine) { e.policy = p } }

// WithStrict toggles the word-list check on guesses (default on).
func WithStrict(strict bool) Option { return func(e *Engine) { e.strict = strict } }

// WithAnswers overrides where new answers come from (default: the dictionary).
func WithAnswers(a AnswerSource) Option { return func(e *Engine) { e.answers = a } }

// WithSchedule allows one game per user per schedule period. A finished game
// stays current until the period rolls over.
func WithSchedule(s Schedule) Option { return func(e *Engine) { e.sched = s } }

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithLogger sets the engine logger (default: disabled).
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithObserver attaches an event observer.
func WithObserver(o Observer) Option { return func(e *Engine) { e.obs = o } }

// NewEngine builds an Engine over a dictionary and a store.
func NewEngine(dict Dictionary, st Store, opts ...Option) *Engine {
	e := &Engine{
		dict:    dict,
		answers: dict,
		store:   st,
		policy:  PolicyStandard,
		strict:  true,
		now:     time.Now,
		log:     zerolog.Nop(),
		obs:     nopObserver{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start creates and persists a fresh game for userID and returns it with a
// blank board. With a schedule, ErrAlreadyPlayed is returned when the user
// already has a game in the current period.
func (e *Engine) Start(ctx context.Context, userID string) (*Game, Grid, error) {
	var last *Game
	if e.sched != nil {
		var err error
		if last, err = e.store.MostRecent(ctx, userID); err != nil {
			return nil, Grid{}, &StoreError{Op: "load", Err: err}
		}
	}
	return e.start(ctx, userID, last)
}

func (e *Engine) start(ctx context.Context, userID string, last *Game) (*Game, Grid, error) {
	now := e.now().UTC()
	var period string
	if e.sched != nil {
		period = e.sched.Period(now)
		if last != nil && last.Period == period {
			return nil, Grid{}, ErrAlreadyPlayed
		}
	}

	answer := strings.ToUpper(strings.TrimSpace(e.answers.Pick()))
	if !isWord(answer) {
		return nil, Grid{}, fmt.Errorf("answer source returned %q", answer)
	}
	g := &Game{
		UserID:    userID,
		Answer:    answer,
		State:     StatePlaying,
		Policy:    e.policy,
		Period:    period,
		StartedAt: now,
	}
	if err := e.store.Create(ctx, g); err != nil {
		if errors.Is(err, ErrAlreadyPlayed) {
			return nil, Grid{}, ErrAlreadyPlayed
		}
		return nil, Grid{}, &StoreError{Op: "create", Err: err}
	}
	e.obs.GameStarted()
	e.log.Debug().Str("user", userID).Int64("game", g.ID).Str("period", period).Msg("game started")
	return g, EmptyGrid(), nil
}

// Current returns the user's game in progress with its board. When the user
// has no game, or the latest one is finished, a new game is started, unless
// a schedule is set and the finished game belongs to the current period, in
// which case that game is returned as is.
func (e *Engine) Current(ctx context.Context, userID string) (*Game, Grid, error) {
	g, err := e.store.MostRecent(ctx, userID)
	if err != nil {
		return nil, Grid{}, &StoreError{Op: "load", Err: err}
	}
	if g != nil && !g.State.Terminal() {
		return g, Reconstruct(g), nil
	}
	if g != nil && e.sched != nil && g.Period == e.sched.Period(e.now().UTC()) {
		return g, Reconstruct(g), nil
	}

	started, grid, err := e.start(ctx, userID, g)
	if errors.Is(err, ErrAlreadyPlayed) {
		// a concurrent request created this period's game first
		if g, err = e.Load(ctx, userID); err != nil {
			return nil, Grid{}, err
		}
		return g, Reconstruct(g), nil
	}
	return started, grid, err
}

// Load returns the user's most recent game, finished or not.
func (e *Engine) Load(ctx context.Context, userID string) (*Game, error) {
	g, err := e.store.MostRecent(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	if g == nil {
		return nil, ErrNoGame
	}
	return g, nil
}

// Play applies raw to the user's most recent game.
func (e *Engine) Play(ctx context.Context, userID, raw string) (*Game, Grid, error) {
	g, err := e.Load(ctx, userID)
	if err != nil {
		return nil, Grid{}, err
	}
	_, grid, err := e.SubmitGuess(ctx, g, raw)
	return g, grid, err
}

// SubmitGuess validates raw, applies it to g and persists the result.
//
// Order of checks:
//  1. raw must be 5 letters A–Z (and in the word list when strict) → ErrInvalidGuess.
//  2. g must still be playing → ErrGameTerminal.
//
// The guess fills the next round; an exact match wins on that round, and a
// fifth miss loses with WinRound = LossRound. g is only modified once the
// store has accepted the update. The returned grid is rebuilt from g.
func (e *Engine) SubmitGuess(ctx context.Context, g *Game, raw string) (State, Grid, error) {
	guess, err := e.validate(raw)
	if err != nil {
		e.obs.GuessRejected(err)
		return g.State, Reconstruct(g), err
	}
	if g.State.Terminal() || g.Round >= MaxRounds {
		e.obs.GuessRejected(ErrGameTerminal)
		return g.State, Reconstruct(g), ErrGameTerminal
	}

	next := *g
	next.Guesses[next.Round] = guess
	next.Round++
	switch {
	case guess == next.Answer:
		next.State = StateWon
		next.WinRound = next.Round
	case next.Round == MaxRounds:
		next.State = StateLost
		next.WinRound = LossRound
	}
	if next.State.Terminal() {
		at := e.now().UTC()
		next.FinishedAt = &at
	}

	if err := e.store.Update(ctx, &next); err != nil {
		e.log.Warn().Err(err).Int64("game", g.ID).Msg("update game")
		return g.State, Reconstruct(g), &StoreError{Op: "update", Err: err}
	}
	*g = next

	e.obs.GuessAccepted(g)
	if g.State.Terminal() {
		e.log.Info().
			Str("user", g.UserID).
			Int64("game", g.ID).
			Str("state", string(g.State)).
			Int("winRound", g.WinRound).
			Msg("game finished")
	}
	return g.State, Reconstruct(g), nil
}

// validate normalizes raw to upper case and checks it.
func (e *Engine) validate(raw string) (string, error) {
	guess := strings.ToUpper(strings.TrimSpace(raw))
	if !isWord(guess) {
		return "", ErrGuessLength
	}
	if e.strict && !e.dict.Contains(guess) {
		return "", ErrNotInWordList
	}
	return guess, nil
}

// isWord reports whether s is exactly WordLen upper-case ASCII letters.
func isWord(s string) bool {
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
