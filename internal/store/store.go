// Package store holds the game.Store implementations: an in-memory map for
// tests and local runs, and a SQL store for real deployments.
package store

import (
	"context"
	"errors"

	"github.com/robalobadob/wordle-rounds/internal/game"
)

var (
	// ErrNotFound means the game id does not exist.
	ErrNotFound = errors.New("game not found")
	// ErrStale means the stored game already has this round or a later one,
	// i.e. another submit got there first.
	ErrStale = errors.New("stale game update")
)

// GameStore is a game.Store that can also list a user's past games.
type GameStore interface {
	game.Store
	History(ctx context.Context, userID string, limit int) ([]*game.Game, error)
}

var (
	_ GameStore = (*Memory)(nil)
	_ GameStore = (*SQLStore)(nil)
)
