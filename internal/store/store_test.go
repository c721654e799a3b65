package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordle-rounds/internal/database"
	"github.com/robalobadob/wordle-rounds/internal/game"
	"github.com/robalobadob/wordle-rounds/internal/users"
)

func newGame(userID string) *game.Game {
	return &game.Game{
		UserID:    userID,
		Answer:    "CRANE",
		State:     game.StatePlaying,
		Policy:    game.PolicyStandard,
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// testContract exercises the behaviour every GameStore must share.
func testContract(t *testing.T, st GameStore, userID, otherID string) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		g, err := st.MostRecent(ctx, userID)
		if err != nil || g != nil {
			t.Fatalf("MostRecent() = %v, %v; want nil, nil", g, err)
		}
	})

	first := newGame(userID)
	second := newGame(userID)
	other := newGame(otherID)

	t.Run("create assigns increasing ids", func(t *testing.T) {
		for _, g := range []*game.Game{first, other, second} {
			if err := st.Create(ctx, g); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}
		if first.ID == 0 || second.ID <= first.ID {
			t.Fatalf("ids = %d, %d; want increasing and non-zero", first.ID, second.ID)
		}
		got, err := st.MostRecent(ctx, userID)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != second.ID {
			t.Errorf("MostRecent().ID = %d, want %d", got.ID, second.ID)
		}
	})

	t.Run("update round trip", func(t *testing.T) {
		g, _ := st.MostRecent(ctx, userID)
		g.Guesses[0] = "TRACE"
		g.Round = 1
		if err := st.Update(ctx, g); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := st.MostRecent(ctx, userID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Round != 1 || got.Guesses[0] != "TRACE" || got.Guesses[1] != "" {
			t.Errorf("reloaded = %+v", got)
		}
		if got.Answer != "CRANE" || got.State != game.StatePlaying || got.Policy != game.PolicyStandard {
			t.Errorf("reloaded = %+v", got)
		}
		if !got.StartedAt.Equal(second.StartedAt) {
			t.Errorf("StartedAt = %v, want %v", got.StartedAt, second.StartedAt)
		}
	})

	t.Run("stale update rejected", func(t *testing.T) {
		g, _ := st.MostRecent(ctx, userID)
		g.Guesses[0] = "SLATE"
		if err := st.Update(ctx, g); !errors.Is(err, ErrStale) {
			t.Fatalf("Update() same round error = %v, want ErrStale", err)
		}
		got, _ := st.MostRecent(ctx, userID)
		if got.Guesses[0] != "TRACE" {
			t.Errorf("stale write landed: %+v", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		g := newGame(userID)
		g.ID = 9999
		g.Round = 1
		if err := st.Update(ctx, g); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() unknown id error = %v, want ErrNotFound", err)
		}
	})

	t.Run("finished game", func(t *testing.T) {
		g, _ := st.MostRecent(ctx, userID)
		g.Guesses[1] = "CRANE"
		g.Round = 2
		g.WinRound = 2
		g.State = game.StateWon
		at := time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
		g.FinishedAt = &at
		if err := st.Update(ctx, g); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, _ := st.MostRecent(ctx, userID)
		if got.State != game.StateWon || got.WinRound != 2 || got.FinishedAt == nil || !got.FinishedAt.Equal(at) {
			t.Errorf("reloaded = %+v", got)
		}
	})

	t.Run("history", func(t *testing.T) {
		list, err := st.History(ctx, userID, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
			t.Fatalf("History() = %d games, want [%d %d]", len(list), second.ID, first.ID)
		}
		list, _ = st.History(ctx, userID, 1)
		if len(list) != 1 {
			t.Errorf("History(limit 1) = %d games", len(list))
		}
		list, _ = st.History(ctx, otherID, 10)
		if len(list) != 1 || list[0].ID != other.ID {
			t.Errorf("History(other) = %v", list)
		}
	})

	t.Run("one game per period", func(t *testing.T) {
		day := newGame(userID)
		day.Period = "2024-03-01"
		if err := st.Create(ctx, day); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		again := newGame(userID)
		again.Period = "2024-03-01"
		if err := st.Create(ctx, again); !errors.Is(err, game.ErrAlreadyPlayed) {
			t.Fatalf("second Create() error = %v, want ErrAlreadyPlayed", err)
		}

		// other users, other days and unscheduled games are unaffected
		for _, g := range []*game.Game{
			{UserID: otherID, Answer: "CRANE", State: game.StatePlaying, Policy: game.PolicyStandard, Period: "2024-03-01", StartedAt: day.StartedAt},
			{UserID: userID, Answer: "CRANE", State: game.StatePlaying, Policy: game.PolicyStandard, Period: "2024-03-02", StartedAt: day.StartedAt},
			newGame(userID),
			newGame(userID),
		} {
			if err := st.Create(ctx, g); err != nil {
				t.Errorf("Create(%s, %q) error = %v", g.UserID, g.Period, err)
			}
		}

		got, err := st.History(ctx, userID, 10)
		if err != nil {
			t.Fatal(err)
		}
		var periods []string
		for _, g := range got {
			if g.Period != "" {
				periods = append(periods, g.Period)
			}
		}
		if len(periods) != 2 || periods[0] != "2024-03-02" || periods[1] != "2024-03-01" {
			t.Errorf("stored periods = %v", periods)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testContract(t, NewMemoryStore(), "u1", "u2")
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := newGame("u1")
	if err := st.Create(ctx, g); err != nil {
		t.Fatal(err)
	}
	g.Answer = "TRACE"
	got, _ := st.MostRecent(ctx, "u1")
	got.Round = 4
	again, _ := st.MostRecent(ctx, "u1")
	if again.Answer != "CRANE" || again.Round != 0 {
		t.Errorf("store shares memory with callers: %+v", again)
	}
}

func openSQL(t *testing.T) (*database.DB, *users.Repo) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Type: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, users.NewRepo(db)
}

func TestSQLStore(t *testing.T) {
	db, repo := openSQL(t)
	ctx := context.Background()
	a, err := repo.Create(ctx, "alice", "hash")
	if err != nil {
		t.Fatal(err)
	}
	b, err := repo.Create(ctx, "bob", "hash")
	if err != nil {
		t.Fatal(err)
	}
	testContract(t, NewSQLStore(db), a.ID, b.ID)

	// the won game in the contract run is recorded on alice exactly once
	u, err := repo.ByID(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 1 || u.Wins != 1 || u.Streak != 1 || u.BestStreak != 1 {
		t.Errorf("alice stats = %+v", u)
	}
}

func TestSQLStoreLossResetsStreak(t *testing.T) {
	db, repo := openSQL(t)
	ctx := context.Background()
	st := NewSQLStore(db)
	u, _ := repo.Create(ctx, "carol", "hash")

	play := func(won bool) {
		g := newGame(u.ID)
		if err := st.Create(ctx, g); err != nil {
			t.Fatal(err)
		}
		g.Round = game.MaxRounds
		for i := range g.Guesses {
			g.Guesses[i] = "TRACE"
		}
		g.State, g.WinRound = game.StateLost, game.LossRound
		if won {
			g.Guesses[4] = "CRANE"
			g.State, g.WinRound = game.StateWon, 5
		}
		if err := st.Update(ctx, g); err != nil {
			t.Fatal(err)
		}
	}
	play(true)
	play(true)
	play(false)

	got, _ := repo.ByID(ctx, u.ID)
	if got.GamesPlayed != 3 || got.Wins != 2 || got.Streak != 0 || got.BestStreak != 2 {
		t.Errorf("stats = %+v", got)
	}
	last, _ := st.MostRecent(ctx, u.ID)
	if last.WinRound != game.LossRound {
		t.Errorf("WinRound = %d, want %d", last.WinRound, game.LossRound)
	}
}

func TestSQLStoreRejectsBadTimestamps(t *testing.T) {
	db, repo := openSQL(t)
	ctx := context.Background()
	st := NewSQLStore(db)
	u, _ := repo.Create(ctx, "dave", "hash")

	tests := []struct {
		name, started, finished string
	}{
		{"started_at", "soon", ""},
		{"finished_at", "2024-03-01T12:00:00Z", "later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var finished any
			if tt.finished != "" {
				finished = tt.finished
			}
			if _, err := db.ExecContext(ctx, `INSERT INTO wordle_games (user_id, answer, round_no, state, policy, started_at, finished_at)
                VALUES (?, 'CRANE', 0, 'playing', 'standard', ?, ?)`, u.ID, tt.started, finished); err != nil {
				t.Fatal(err)
			}
			if _, err := st.MostRecent(ctx, u.ID); err == nil {
				t.Errorf("MostRecent() accepted a bad %s", tt.name)
			}
		})
	}
}
