// Package sqlite implements the repository interfaces on an embedded SQLite
// database. It is the zero-infrastructure backend: handy for local
// development and for tests, which run against ":memory:".
//
// Documents map onto rows with a few conventions:
//   - timestamps are INTEGER unix milliseconds, always read back as UTC
//   - nested structures (exercise logs, settings, measurements) are JSON TEXT
//   - ids are the same 24-hex strings the MongoDB backend produces
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/ringlog/internal/repository"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var _ repository.Store = (*DB)(nil)

// DB owns the connection and hands out the per-collection repositories.
type DB struct {
	conn *sql.DB

	users    *UserDB
	workouts *WorkoutDB
	metrics  *MetricsDB
	progress *ProgressDB
	variants *VariantDB
}

// New opens (or creates) the database at dbPath and applies migrations.
//
//	"data/ringlog.db" → file-backed
//	":memory:"        → in-memory, gone on Close
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection: every ":memory:" connection would otherwise be its own
	// empty database, and SQLite serializes writers anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	db := &DB{conn: conn}
	db.users = &UserDB{conn: conn}
	db.workouts = &WorkoutDB{conn: conn}
	db.metrics = &MetricsDB{conn: conn}
	db.progress = &ProgressDB{conn: conn}
	db.variants = &VariantDB{conn: conn}
	return db, nil
}

// runMigrations applies the embedded migrations. The migrate instance is not
// closed: closing it would close conn as well.
func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (db *DB) Users() repository.UserRepository { return db.users }
func (db *DB) Workouts() repository.WorkoutRepository { return db.workouts }
func (db *DB) Metrics() repository.MetricsRepository { return db.metrics }
func (db *DB) ExerciseProgress() repository.ExerciseProgressRepository { return db.progress }
func (db *DB) Variants() repository.VariantRepository { return db.variants }

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection. The context is unused; it is part of the
// Store contract because network backends need it.
func (db *DB) Close(_ context.Context) error {
	return db.conn.Close()
}

func isUniqueViolation(err error) bool {
	var serr *moderncsqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// now is truncated to the stored precision so values handed back to
// callers match what a later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// stamp fills in creation and update times the caller left empty.
func stamp(created, updated *time.Time) {
	if created.IsZero() {
		*created = now()
	}
	if updated.IsZero() {
		*updated = *created
	}
}
