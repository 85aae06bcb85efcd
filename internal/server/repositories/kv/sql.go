package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/dbx"
)

type dialect struct {
	get    string
	set    string
	has    string
	delete string
	// lock serializes Update calls on one key for the rest of the
	// transaction. Empty when the engine serializes writers on its own.
	lock string
}

var postgresDialect = dialect{
	get: `SELECT value FROM kv_entries WHERE namespace=$1 AND key=$2`,
	set: `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	has:    `SELECT COUNT(*) FROM kv_entries WHERE namespace=$1 AND key=$2`,
	delete: `DELETE FROM kv_entries WHERE namespace=$1 AND key=$2`,
	lock:   `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`,
}

var sqliteDialect = dialect{
	get: `SELECT value FROM kv_entries WHERE namespace=? AND key=?`,
	set: `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	has:    `SELECT COUNT(*) FROM kv_entries WHERE namespace=? AND key=?`,
	delete: `DELETE FROM kv_entries WHERE namespace=? AND key=?`,
}

// SQLRepository stores entries in the kv_entries table.
type SQLRepository struct {
	db *sql.DB
	d  dialect
}

// NewPostgresRepository binds a repository to a pgx-backed *sql.DB.
func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, d: postgresDialect}
}

// NewSQLiteRepository binds a repository to a modernc.org/sqlite *sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, d: sqliteDialect}
}

func (r *SQLRepository) Get(ctx context.Context, ns Namespace, key string) ([]byte, error) {
	return r.get(ctx, r.db, ns, key)
}

func (r *SQLRepository) Set(ctx context.Context, ns Namespace, key string, value []byte) error {
	if value == nil {
		return r.del(ctx, r.db, ns, key)
	}
	return r.set(ctx, r.db, ns, key, value)
}

func (r *SQLRepository) Has(ctx context.Context, ns Namespace, key string) (bool, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, r.d.has, string(ns), key).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, ns Namespace, key string) error {
	return r.del(ctx, r.db, ns, key)
}

// Update runs fn inside a transaction. On PostgreSQL a transaction-scoped
// advisory lock on (ns, key) serializes concurrent updaters, including the
// case where the row does not exist yet.
func (r *SQLRepository) Update(ctx context.Context, ns Namespace, key string, fn UpdateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if r.d.lock != "" {
			if _, err := tx.ExecContext(ctx, r.d.lock, string(ns), key); err != nil {
				return fmt.Errorf("failed to lock key: %w", err)
			}
		}

		old, err := r.get(ctx, tx, ns, key)
		found := true
		if errors.Is(err, common.ErrorNotFound) {
			found = false
		} else if err != nil {
			return err
		}

		next, err := fn(old, found)
		if err != nil {
			return err
		}
		if next == nil {
			return r.del(ctx, tx, ns, key)
		}
		return r.set(ctx, tx, ns, key, next)
	})
}

func (r *SQLRepository) get(ctx context.Context, q dbx.DBTX, ns Namespace, key string) ([]byte, error) {
	var v []byte
	err := q.QueryRowContext(ctx, r.d.get, string(ns), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select value: %w", err)
	}
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

func (r *SQLRepository) set(ctx context.Context, q dbx.DBTX, ns Namespace, key string, value []byte) error {
	if _, err := q.ExecContext(ctx, r.d.set, string(ns), key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) del(ctx context.Context, q dbx.DBTX, ns Namespace, key string) error {
	if _, err := q.ExecContext(ctx, r.d.delete, string(ns), key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
