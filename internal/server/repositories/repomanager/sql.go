package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/server/migrations"
	"github.com/dmitrijs2005/scenevault/internal/server/repositories/kv"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// SQLRepositoryManager serves PostgreSQL and SQLite. Both share the
// kv_entries schema; only the goose dialect and migration directory differ.
type SQLRepositoryManager struct {
	db           *sql.DB
	store        *kv.SQLRepository
	gooseDialect string
	migrationDir string
}

// NewPostgresRepositoryManager opens a pgx-backed pool for dsn.
func NewPostgresRepositoryManager(dsn string) (*SQLRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &SQLRepositoryManager{
		db:           db,
		store:        kv.NewPostgresRepository(db),
		gooseDialect: "pgx",
		migrationDir: migrations.PostgresDir,
	}, nil
}

// NewSQLiteRepositoryManager opens the database file at path. SQLite allows
// one writer at a time, so the pool is capped at a single connection.
func NewSQLiteRepositoryManager(path string) (*SQLRepositoryManager, error) {
	db, err := sqlOpen("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLRepositoryManager{
		db:           db,
		store:        kv.NewSQLiteRepository(db),
		gooseDialect: "sqlite3",
		migrationDir: migrations.SQLiteDir,
	}, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, m.migrationDir)
}

func (m *SQLRepositoryManager) Store() kv.Repository { return m.store }

// Conn exposes the underlying pool.
func (m *SQLRepositoryManager) Conn() *sql.DB { return m.db }

func (m *SQLRepositoryManager) Close() error { return m.db.Close() }
