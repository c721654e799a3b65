// internal/store/sql.go
//
// SQL implementation of game.Store over the wordle_games table.
//
// One row per game; guesses live in guess1..guess5 (NULL until played).
// The user's current game is the row with the highest id.
// Update writes the row and, when the game has just finished, the user's
// stats in the same transaction.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle-rounds/internal/database"
	"github.com/robalobadob/wordle-rounds/internal/game"
	"github.com/robalobadob/wordle-rounds/internal/users"
)

// SQLStore persists games through database/sql.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

const gameColumns = `id, user_id, answer, guess1, guess2, guess3, guess4, guess5,
        round_no, win_round, state, policy, period_key, started_at, finished_at`

// MostRecent returns the user's highest-id game, or (nil, nil).
func (s *SQLStore) MostRecent(ctx context.Context, userID string) (*game.Game, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+gameColumns+`
        FROM wordle_games WHERE user_id=? ORDER BY id DESC LIMIT 1`), userID)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("most recent game: %w", err)
	}
	return g, nil
}

// Create inserts g and assigns its id. A second game for the same user and
// period hits the unique index and comes back as game.ErrAlreadyPlayed.
func (s *SQLStore) Create(ctx context.Context, g *game.Game) error {
	id, err := s.db.InsertReturningID(ctx, s.db.DB, `
        INSERT INTO wordle_games (user_id, answer, round_no, state, policy, period_key, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Answer, g.Round, string(g.State), string(g.Policy), nullString(g.Period),
		g.StartedAt.UTC().Format(time.RFC3339Nano))
	if database.IsUniqueViolation(err) {
		return game.ErrAlreadyPlayed
	}
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	g.ID = id
	return nil
}

// Update writes the round, guesses and outcome of g. The write only lands if
// it advances the stored round; otherwise ErrStale (or ErrNotFound).
func (s *SQLStore) Update(ctx context.Context, g *game.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.db.Rebind(`
        UPDATE wordle_games
        SET guess1=?, guess2=?, guess3=?, guess4=?, guess5=?,
            round_no=?, win_round=?, state=?, finished_at=?
        WHERE id=? AND round_no < ?`),
		nullString(g.Guesses[0]), nullString(g.Guesses[1]), nullString(g.Guesses[2]),
		nullString(g.Guesses[3]), nullString(g.Guesses[4]),
		g.Round, nullInt(g.WinRound), string(g.State), nullTime(g.FinishedAt),
		g.ID, g.Round,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := tx.QueryRowContext(ctx, s.db.Rebind(`SELECT 1 FROM wordle_games WHERE id=?`), g.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrStale
	}

	if g.State.Terminal() {
		if err := users.RecordResult(ctx, s.db, tx, g.UserID, g.State == game.StateWon); err != nil {
			return fmt.Errorf("record result: %w", err)
		}
	}
	return tx.Commit()
}

// History returns up to limit of the user's games, newest first.
func (s *SQLStore) History(ctx context.Context, userID string, limit int) ([]*game.Game, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT `+gameColumns+`
        FROM wordle_games WHERE user_id=? ORDER BY id DESC LIMIT ?`), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*game.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*game.Game, error) {
	var (
		g        game.Game
		guesses  [game.MaxRounds]sql.NullString
		winRound sql.NullInt64
		state    string
		policy   string
		period   sql.NullString
		started  string
		finished sql.NullString
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Answer,
		&guesses[0], &guesses[1], &guesses[2], &guesses[3], &guesses[4],
		&g.Round, &winRound, &state, &policy, &period, &started, &finished); err != nil {
		return nil, err
	}
	for i, s := range guesses {
		g.Guesses[i] = s.String
	}
	g.WinRound = int(winRound.Int64)
	g.State = game.State(state)
	g.Policy = game.Policy(policy)
	g.Period = period.String

	var err error
	if g.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("game %d: started_at: %w", g.ID, err)
	}
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return nil, fmt.Errorf("game %d: finished_at: %w", g.ID, err)
		}
		g.FinishedAt = &t
	}
	return &g, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}
