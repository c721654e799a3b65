// internal/users/users.go
//
// User accounts and per-user Wordle stats.
// Responsibilities:
//   - Insert and look up users (case-insensitive usernames).
//   - Record a finished game on the user row (games played, wins, streaks).
//   - Leaderboard of top players.
//
// Credential rules and hashing live in internal/auth; this package only
// stores what it is given.

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle-rounds/internal/database"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrNotFound      = errors.New("user not found")
)

// User matches the users table.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
	BestStreak   int       `json:"bestStreak"`
}

// Standing is one leaderboard row.
type Standing struct {
	Username    string `json:"username"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"gamesPlayed"`
	BestStreak  int    `json:"bestStreak"`
}

// Repo reads and writes users.
type Repo struct {
	db *database.DB
}

// NewRepo creates a user repository.
func NewRepo(db *database.DB) *Repo {
	return &Repo{db: db}
}

const userColumns = `id, username, password_hash, created_at, games_played, wins, streak, best_streak`

// Create inserts a user with an already-hashed password. Uniqueness is
// left to the case-insensitive username index, so concurrent signups for the
// same name resolve to exactly one ErrUsernameTaken.
func (r *Repo) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`),
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if database.IsUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ByID loads a user or returns ErrNotFound.
func (r *Repo) ByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id=?`), id)
	return scanUser(row)
}

// ByUsername loads a user by case-insensitive name or returns ErrNotFound.
func (r *Repo) ByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`), username)
	return scanUser(row)
}

// Leaderboard returns the top players by wins, then best streak, then fewest games.
func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
        SELECT username, wins, games_played, best_streak
        FROM users
        WHERE games_played > 0
        ORDER BY wins DESC, best_streak DESC, games_played ASC, username ASC
        LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Standing, 0, limit)
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.Username, &s.Wins, &s.GamesPlayed, &s.BestStreak); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordResult bumps the user's counters for a finished game inside tx.
// A win extends the streak; a loss resets it.
func RecordResult(ctx context.Context, db *database.DB, tx *sql.Tx, userID string, won bool) error {
	var played, wins, streak, best int
	row := tx.QueryRowContext(ctx, db.Rebind(`SELECT games_played, wins, streak, best_streak FROM users WHERE id=?`), userID)
	if err := row.Scan(&played, &wins, &streak, &best); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	played++
	if won {
		wins++
		streak++
		if streak > best {
			best = streak
		}
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, db.Rebind(`UPDATE users SET games_played=?, wins=?, streak=?, best_streak=? WHERE id=?`),
		played, wins, streak, best, userID)
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak, &u.BestStreak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("user %s: created_at: %w", u.ID, err)
	}
	return &u, nil
}
