// Package sqlstore implements the repository interfaces on a SQL database.
//
// Two dialects share one code path:
//   - SQLite through modernc.org/sqlite (pure Go, no cgo), the default
//     for local runs and tests (":memory:").
//   - PostgreSQL through pgx's database/sql driver, selected by a
//     postgres:// DATABASE_URL.
//
// Queries are written with "?" placeholders and passed through
// sqlx.Rebind, which rewrites them to $1, $2, ... for Postgres.
// The schema is versioned under migrations/<dialect> and applied by
// golang-migrate when the store is opened.
package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite" // registers the "sqlite" driver
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrations embed.FS

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// driverName maps a dialect to its registered database/sql driver.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// DB is the data store gateway. The embedded *sqlx.DB is a pool: each
// query checks out its own connection, so one DB is safely shared by
// all concurrent requests.
type DB struct {
	conn    *sqlx.DB
	dialect Dialect
}

// ParseURL splits a DATABASE_URL into dialect and driver DSN.
//
//	postgres://u:p@host:5432/blog  → postgres, unchanged
//	sqlite://data/inkwell.db       → sqlite, "data/inkwell.db"
//	file:blog.db?cache=shared      → sqlite, unchanged
//	:memory:                       → sqlite, unchanged
func ParseURL(raw string) (Dialect, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", errors.New("sqlstore: empty database URL")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(raw, "sqlite://"), nil
	case strings.HasPrefix(raw, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(raw, "sqlite:"), nil
	case strings.Contains(raw, "://"):
		scheme, _, _ := strings.Cut(raw, "://")
		return "", "", fmt.Errorf("sqlstore: unsupported database scheme %q", scheme)
	default:
		return DialectSQLite, raw, nil
	}
}

// Open connects to databaseURL, verifies the connection and applies
// pending migrations.
func Open(databaseURL string) (*DB, error) {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening %s database: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// SQLite allows one writer at a time, and every connection to
		// ":memory:" would otherwise see its own empty database.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: pinging %s database: %w", dialect, err)
	}

	db := &DB{conn: conn, dialect: dialect}

	if dialect == DialectSQLite {
		if err := db.applyPragmas(); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if err := db.migrate(dsn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: running migrations: %w", err)
	}

	return db, nil
}

// New wraps an existing connection without running migrations.
// Tests use it to put a sqlmock connection behind the store.
func New(conn *sqlx.DB, dialect Dialect) *DB {
	return &DB{conn: conn, dialect: dialect}
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dialect reports which SQL flavour the store talks to.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Ping checks the database is reachable; used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlstore: ping: %w", err)
	}
	return nil
}

func (db *DB) applyPragmas() error {
	// WAL lets readers proceed while a write is in flight; foreign keys
	// are off by default in SQLite and posts.author_id relies on them.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.conn.Exec(pragma); err != nil {
			return fmt.Errorf("sqlstore: %s: %w", pragma, err)
		}
	}
	return nil
}

// migrate applies every pending migration for the store's dialect.
//
// The Postgres migration driver pins a pooled connection and closes the
// whole *sql.DB on Close, so it gets a dedicated handle opened from dsn.
// SQLite must share the store's handle: a second ":memory:" handle would
// be a different database.
func (db *DB) migrate(dsn string) error {
	src, err := iofs.New(migrations, "migrations/"+string(db.dialect))
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	var driver database.Driver
	switch db.dialect {
	case DialectPostgres:
		var dedicated *sqlx.DB
		dedicated, err = sqlx.Open(db.dialect.driverName(), dsn)
		if err == nil {
			driver, err = migratepgx.WithInstance(dedicated.DB, &migratepgx.Config{})
			if err != nil {
				dedicated.Close()
			}
		}
	default:
		driver, err = migratesqlite.WithInstance(db.conn.DB, &migratesqlite.Config{})
	}
	if err != nil {
		src.Close()
		return fmt.Errorf("creating %s migration driver: %w", db.dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("creating migration instance: %w", err)
	}

	if db.dialect == DialectPostgres {
		defer m.Close()
	} else {
		// m.Close() would close the shared pool; release only the source.
		defer src.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// ensureSQLiteDir creates the parent directory of a file-backed database.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sqlstore: creating database directory %s: %w", dir, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY clash
// from either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}

	return false
}
