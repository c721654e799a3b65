// internal/database/db.go
//
// Database helpers for the Wordle server.
// Responsibilities:
//   - Opening the configured backend (SQLite by default, PostgreSQL, MySQL).
//   - Applying the embedded migrations for that backend (idempotent, recorded in _migrations).
//   - Placeholder rebinding and insert-returning-id across dialects.

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-rounds/assets"
)

// Config selects and locates the backend.
type Config struct {
	Type string // sqlite | postgres | mysql
	Path string // sqlite file
	URL  string // postgres/mysql DSN
}

// DB wraps *sql.DB with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured backend and verifies the connection.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	d, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}
	dsn, err := d.DSN(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name(), err)
	}
	if err := d.Configure(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("configure %s: %w", d.Name(), err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name(), err)
	}
	return &DB{DB: sqlDB, Dialect: d}, nil
}

// Rebind rewrites placeholders for the active dialect.
func (db *DB) Rebind(q string) string { return db.Dialect.Rebind(q) }

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertReturningID runs an INSERT and returns the new row's id. PostgreSQL
// has no LastInsertId, so the statement gets RETURNING id instead.
func (db *DB) InsertReturningID(ctx context.Context, ex Execer, query string, args ...any) (int64, error) {
	q := db.Rebind(query)
	if db.Dialect.SupportsLastInsertID() {
		res, err := ex.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	q = strings.TrimSuffix(strings.TrimSpace(q), ";") + " RETURNING id"
	var id int64
	if err := ex.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Migrate applies the embedded migrations for the active dialect.
//
// - Uses a _migrations table to track applied files.
// - Executes each *.sql file in lexical order, skipping applied ones.
// - Each file runs statement by statement inside its own transaction.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, db.Dialect.MigrationsTable()); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	fsys, err := assets.Migrations(db.Dialect.Name())
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", db.Dialect.Name(), err)
	}
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, db.Rebind(`SELECT 1 FROM _migrations WHERE name=?`), f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if err := db.applyMigration(ctx, f, string(body)); err != nil {
			return err
		}
		log.Info().Str("migration", f).Str("dialect", db.Dialect.Name()).Msg("applied")
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, name, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range SplitStatements(body) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, db.Rebind(`INSERT INTO _migrations(name, applied_at) VALUES (?, ?)`),
		name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// SplitStatements breaks a migration file on semicolons that end a line.
// Line comments are dropped. Migrations must not put ';' mid-line.
func SplitStatements(body string) []string {
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			if stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
