package repomanager

import (
	"context"

	"github.com/dmitrijs2005/scenevault/internal/server/repositories/kv"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	store *kv.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: kv.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Store() kv.Repository { return m.store }

func (m *MemoryRepositoryManager) Close() error { return nil }
