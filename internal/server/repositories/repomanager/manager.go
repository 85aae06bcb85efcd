// Package repomanager opens the configured key-value backend and prepares it
// for use: SQL backends get their schema migrated with goose.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/server/config"
	"github.com/dmitrijs2005/scenevault/internal/server/repositories/kv"
)

// RepositoryManager owns a backend connection and vends the kv.Repository
// built on top of it.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Store() kv.Repository
	Close() error
}

// New opens the backend selected by cfg.StorageBackend and runs its
// migrations.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		m = NewMemoryRepositoryManager()
	case config.BackendPostgres:
		m, err = NewPostgresRepositoryManager(cfg.DatabaseDSN)
	case config.BackendSQLite:
		m, err = NewSQLiteRepositoryManager(cfg.SQLitePath)
	case config.BackendS3:
		m, err = NewS3RepositoryManager(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
