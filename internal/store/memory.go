// internal/store/memory.go
//
// In-memory implementation of game.Store.
// Used by tests and by STORE=memory for throwaway local runs.
//
// Characteristics:
//   - Records are copied in and out, so callers never share state with the map.
//   - IDs come from a counter, so "most recent" is "highest ID" as in SQL.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/wordle-rounds/internal/game"
)

// Memory is the in-memory store; it also serves history queries.
type Memory struct {
	mu     sync.RWMutex         // guards games and nextID
	games  map[int64]*game.Game // keyed by Game.ID
	nextID int64
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[int64]*game.Game)}
}

// MostRecent returns a copy of the user's highest-ID game, or nil.
func (m *Memory) MostRecent(ctx context.Context, userID string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *game.Game
	for _, g := range m.games {
		if g.UserID == userID && (best == nil || g.ID > best.ID) {
			best = g
		}
	}
	if best == nil {
		return nil, nil
	}
	return clone(best), nil
}

// Create stores a copy of g under a new ID. A second game for the same user
// and non-empty period is refused with game.ErrAlreadyPlayed.
func (m *Memory) Create(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.Period != "" {
		for _, cur := range m.games {
			if cur.UserID == g.UserID && cur.Period == g.Period {
				return game.ErrAlreadyPlayed
			}
		}
	}
	m.nextID++
	g.ID = m.nextID
	m.games[g.ID] = clone(g)
	return nil
}

// Update replaces the stored record. It refuses writes that do not advance
// the round, so a replayed or out-of-order submit cannot overwrite a newer one.
func (m *Memory) Update(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.games[g.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Round >= g.Round {
		return ErrStale
	}
	m.games[g.ID] = clone(g)
	return nil
}

// History returns up to limit of the user's games, newest first.
func (m *Memory) History(ctx context.Context, userID string, limit int) ([]*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*game.Game{}
	for _, g := range m.games {
		if g.UserID == userID {
			out = append(out, clone(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clone(g *game.Game) *game.Game {
	c := *g
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
