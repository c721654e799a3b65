package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect hides the differences between the supported SQL backends.
type Dialect interface {
	// Name is the dialect key, also the migrations subdirectory.
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// DSN builds the data source name from config.
	DSN(cfg Config) (string, error)
	// Rebind rewrites ? placeholders when the driver wants another style.
	Rebind(query string) string
	// SupportsLastInsertID is false when inserts need RETURNING id.
	SupportsLastInsertID() bool
	// Configure applies pool and session settings after open.
	Configure(db *sql.DB) error
	// MigrationsTable is the DDL for the applied-migrations table.
	MigrationsTable() string
}

// DialectFor maps a DB_TYPE value to a Dialect.
func DialectFor(kind string) (Dialect, error) {
	switch strings.ToLower(kind) {
	case "", "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", kind)
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// any of the supported drivers.
func IsUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	return false
}

// ----------------------------- sqlite --------------------------------------

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite3" }

// DSN creates the parent directory for relative paths like ./data/app.db and
// turns on busy timeout, WAL and foreign keys for every pooled connection.
func (sqliteDialect) DSN(cfg Config) (string, error) {
	if cfg.Path == "" {
		return "", fmt.Errorf("sqlite: empty path")
	}
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return cfg.Path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", nil
}

func (sqliteDialect) Rebind(q string) string     { return q }
func (sqliteDialect) SupportsLastInsertID() bool { return true }
func (sqliteDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY, applied_at TEXT NOT NULL)`
}

func (sqliteDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

// ---------------------------- postgres -------------------------------------

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) DSN(cfg Config) (string, error) {
	if cfg.URL == "" {
		return "", fmt.Errorf("postgres: DATABASE_URL is required")
	}
	return cfg.URL, nil
}

// Rebind converts ? placeholders to $1, $2, ...
func (postgresDialect) Rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (postgresDialect) SupportsLastInsertID() bool { return false }
func (postgresDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY, applied_at TEXT NOT NULL)`
}

func (postgresDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

// ------------------------------ mysql --------------------------------------

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) DSN(cfg Config) (string, error) {
	if cfg.URL == "" {
		return "", fmt.Errorf("mysql: DATABASE_URL is required")
	}
	c, err := mysql.ParseDSN(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("mysql: parse dsn: %w", err)
	}
	// timestamps are stored as RFC3339 text
	c.ParseTime = false
	return c.FormatDSN(), nil
}

func (mysqlDialect) Rebind(q string) string     { return q }
func (mysqlDialect) SupportsLastInsertID() bool { return true }
func (mysqlDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name VARCHAR(255) PRIMARY KEY, applied_at VARCHAR(40) NOT NULL)`
}

func (mysqlDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}
