// Package services contains server-side business logic. SceneService keeps
// two records per owner in step: the scene blob and the owner's scene index.
//
// The key-value store has no multi-key transactions, so every write touches
// the blob first and the index second. A crash in between leaves either an
// index entry without a blob (read back as "not found") or a blob without an
// index entry (invisible to listings until the next save of that scene).
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/logging"
	"github.com/dmitrijs2005/scenevault/internal/server/codec"
	"github.com/dmitrijs2005/scenevault/internal/server/models"
	"github.com/dmitrijs2005/scenevault/internal/server/repositories/kv"
	"github.com/dmitrijs2005/scenevault/internal/server/validate"
)

// MaxIndexEntries bounds an owner's scene index. Older entries are evicted
// from the index only; their blobs stay in place.
const MaxIndexEntries = 100

// SaveResult describes a completed SaveScene.
type SaveResult struct {
	Metadata models.SceneMetadata
	Updated  bool
}

// SceneService implements save, list, get and delete over a kv.Repository.
type SceneService struct {
	repo   kv.Repository
	logger logging.Logger
	now    func() time.Time
	locks  *ownerLocks
}

// Option customizes a SceneService.
type Option func(*SceneService)

// WithClock overrides the time source used for created/modified stamps.
func WithClock(now func() time.Time) Option {
	return func(s *SceneService) { s.now = now }
}

func NewSceneService(repo kv.Repository, logger logging.Logger, opts ...Option) *SceneService {
	s := &SceneService{
		repo:   repo,
		logger: logger.With("module", "scene_service"),
		now:    time.Now,
		locks:  newOwnerLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sceneKey(ownerID, sceneID string) string {
	return fmt.Sprintf("workspace:%s:%s", ownerID, sceneID)
}

func indexKey(ownerID string) string {
	return fmt.Sprintf("workspace:meta:%s", ownerID)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStorageUnavailable, op, err)
}

// SaveScene creates or replaces a scene and records it in the owner's index.
// CreatedAt survives updates; ModifiedAt is stamped on every call.
// An empty keyRef is rejected with common.ErrMissingEncryptionKey before
// storage is touched.
func (s *SceneService) SaveScene(ctx context.Context, ownerID, sceneID, name string,
	ciphertext models.Ciphertext, keyRef models.KeyReference) (*SaveResult, error) {

	if err := validate.OwnerAndScene(ownerID, sceneID); err != nil {
		return nil, err
	}
	if keyRef == "" {
		return nil, common.ErrMissingEncryptionKey
	}

	log := s.logger.With("owner_id", ownerID, "scene_id", sceneID)
	now := s.now().UnixMilli()

	existing, updated, err := s.loadRecord(ctx, log, ownerID, sceneID)
	if err != nil {
		return nil, err
	}

	createdAt := now
	if updated {
		createdAt = existing.CreatedAt
	}
	modifiedAt := max(now, createdAt)

	rec := models.SceneRecord{
		SceneMetadata: models.SceneMetadata{
			ID:         sceneID,
			Name:       name,
			CreatedAt:  createdAt,
			ModifiedAt: modifiedAt,
		},
		OwnerID:      ownerID,
		Ciphertext:   ciphertext,
		KeyReference: keyRef,
	}

	encoded, err := codec.EncodeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	if err := s.repo.Set(ctx, kv.NamespaceScenes, sceneKey(ownerID, sceneID), encoded); err != nil {
		log.Error(ctx, "failed to write scene", "error", err)
		return nil, storageError("write scene", err)
	}

	entry := rec.Metadata()
	err = s.updateIndex(ctx, log, ownerID, func(entries []models.SceneMetadata) []models.SceneMetadata {
		return upsertEntry(entries, entry)
	})
	if err != nil {
		log.Error(ctx, "scene written but index update failed", "error", err)
		return nil, err
	}

	if updated {
		log.Info(ctx, "saved scene (updated)")
	} else {
		log.Info(ctx, "saved scene (created)")
	}

	return &SaveResult{Metadata: entry, Updated: updated}, nil
}

// ListScenes returns the owner's index, newest first, holding at most
// MaxIndexEntries entries. A missing or corrupt index yields an empty list.
func (s *SceneService) ListScenes(ctx context.Context, ownerID string) ([]models.SceneMetadata, error) {
	if err := validate.Owner(ownerID); err != nil {
		return nil, err
	}

	log := s.logger.With("owner_id", ownerID)

	raw, err := s.repo.Get(ctx, kv.NamespaceSettings, indexKey(ownerID))
	if errors.Is(err, common.ErrorNotFound) {
		return []models.SceneMetadata{}, nil
	}
	if err != nil {
		log.Error(ctx, "failed to read scene index", "error", err)
		return nil, storageError("read index", err)
	}

	entries := s.decodeIndex(ctx, log, raw)
	sortByModified(entries)
	if len(entries) > MaxIndexEntries {
		entries = entries[:MaxIndexEntries]
	}
	return entries, nil
}

// GetScene returns the stored ciphertext. ok is false when the scene does not
// exist or its record cannot be decoded.
func (s *SceneService) GetScene(ctx context.Context, ownerID, sceneID string) (models.Ciphertext, bool, error) {
	if err := validate.OwnerAndScene(ownerID, sceneID); err != nil {
		return nil, false, err
	}

	log := s.logger.With("owner_id", ownerID, "scene_id", sceneID)

	rec, ok, err := s.loadRecord(ctx, log, ownerID, sceneID)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.Ciphertext, true, nil
}

// DeleteScene removes a scene and its index entry. It reports false, and
// changes nothing, when the scene does not exist.
func (s *SceneService) DeleteScene(ctx context.Context, ownerID, sceneID string) (bool, error) {
	if err := validate.OwnerAndScene(ownerID, sceneID); err != nil {
		return false, err
	}

	log := s.logger.With("owner_id", ownerID, "scene_id", sceneID)
	key := sceneKey(ownerID, sceneID)

	exists, err := s.repo.Has(ctx, kv.NamespaceScenes, key)
	if err != nil {
		log.Error(ctx, "failed to check scene", "error", err)
		return false, storageError("check scene", err)
	}
	if !exists {
		return false, nil
	}

	if err := s.repo.Delete(ctx, kv.NamespaceScenes, key); err != nil {
		log.Error(ctx, "failed to delete scene", "error", err)
		return false, storageError("delete scene", err)
	}

	err = s.updateIndex(ctx, log, ownerID, func(entries []models.SceneMetadata) []models.SceneMetadata {
		return removeEntry(entries, sceneID)
	})
	if err != nil {
		log.Error(ctx, "scene deleted but index update failed", "error", err)
		return false, err
	}

	log.Info(ctx, "deleted scene")
	return true, nil
}

// loadRecord reads and decodes a scene blob. A corrupt blob is logged and
// reported as absent.
func (s *SceneService) loadRecord(ctx context.Context, log logging.Logger, ownerID, sceneID string) (models.SceneRecord, bool, error) {
	raw, err := s.repo.Get(ctx, kv.NamespaceScenes, sceneKey(ownerID, sceneID))
	if errors.Is(err, common.ErrorNotFound) {
		return models.SceneRecord{}, false, nil
	}
	if err != nil {
		log.Error(ctx, "failed to read scene", "error", err)
		return models.SceneRecord{}, false, storageError("read scene", err)
	}

	rec, err := codec.DecodeRecord(raw)
	if err != nil {
		log.Error(ctx, "failed to parse scene data", "error", err)
		return models.SceneRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *SceneService) decodeIndex(ctx context.Context, log logging.Logger, raw []byte) []models.SceneMetadata {
	entries, err := codec.DecodeIndex(raw)
	if err != nil {
		log.Error(ctx, "failed to parse scene index", "error", err)
		return []models.SceneMetadata{}
	}
	return entries
}

// updateIndex applies mutate to the owner's index. Backends implementing
// kv.Updater run the read-modify-write atomically for the index key; for the
// rest the owner's in-process lock serializes writers.
func (s *SceneService) updateIndex(ctx context.Context, log logging.Logger, ownerID string,
	mutate func([]models.SceneMetadata) []models.SceneMetadata) error {

	key := indexKey(ownerID)
	apply := func(raw []byte, found bool) ([]byte, error) {
		entries := []models.SceneMetadata{}
		if found {
			entries = s.decodeIndex(ctx, log, raw)
		}
		return codec.EncodeIndex(mutate(entries))
	}

	if u, ok := s.repo.(kv.Updater); ok {
		if err := u.Update(ctx, kv.NamespaceSettings, key, apply); err != nil {
			return storageError("update index", err)
		}
		return nil
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	raw, err := s.repo.Get(ctx, kv.NamespaceSettings, key)
	found := true
	if errors.Is(err, common.ErrorNotFound) {
		found = false
	} else if err != nil {
		return storageError("read index", err)
	}

	next, err := apply(raw, found)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := s.repo.Set(ctx, kv.NamespaceSettings, key, next); err != nil {
		return storageError("write index", err)
	}
	return nil
}

// upsertEntry replaces any entry with the same id, keeps the index sorted
// newest first and truncates it to MaxIndexEntries. On equal timestamps the
// entry being written sorts ahead of older ones.
func upsertEntry(entries []models.SceneMetadata, entry models.SceneMetadata) []models.SceneMetadata {
	entries = removeEntry(entries, entry.ID)
	entries = slices.Insert(entries, 0, entry)
	sortByModified(entries)
	if len(entries) > MaxIndexEntries {
		entries = entries[:MaxIndexEntries]
	}
	return entries
}

func removeEntry(entries []models.SceneMetadata, sceneID string) []models.SceneMetadata {
	return slices.DeleteFunc(entries, func(e models.SceneMetadata) bool { return e.ID == sceneID })
}

// sortByModified orders entries newest first. Entries with equal timestamps
// keep their relative order.
func sortByModified(entries []models.SceneMetadata) {
	slices.SortStableFunc(entries, func(a, b models.SceneMetadata) int {
		switch {
		case a.ModifiedAt > b.ModifiedAt:
			return -1
		case a.ModifiedAt < b.ModifiedAt:
			return 1
		default:
			return 0
		}
	})
}
