package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/client/models"
	"github.com/dmitrijs2005/scenevault/internal/dbx"

	_ "modernc.org/sqlite"
)

type Repository interface {
	ReplaceListing(ctx context.Context, ownerID string, scenes []models.SceneInfo) error
	Listing(ctx context.Context, ownerID string) ([]models.SceneInfo, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS scene_listing (
  owner_id TEXT    NOT NULL,
  scene_id TEXT    NOT NULL,
  name     TEXT    NOT NULL,
  created  INTEGER NOT NULL,
  modified INTEGER NOT NULL,
  PRIMARY KEY (owner_id, scene_id)
);`

// Open opens (creating if needed) the cache database at path.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return db, nil
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceListing swaps the cached listing of ownerID for scenes.
func (r *SQLiteRepository) ReplaceListing(ctx context.Context, ownerID string, scenes []models.SceneInfo) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scene_listing WHERE owner_id = ?`, ownerID); err != nil {
			return fmt.Errorf("failed to clear listing[%s]: %w", ownerID, err)
		}
		for _, s := range scenes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO scene_listing (owner_id, scene_id, name, created, modified)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(owner_id, scene_id) DO UPDATE SET
				  name = excluded.name, created = excluded.created, modified = excluded.modified
			`, ownerID, s.ID, s.Name, s.CreatedAt, s.ModifiedAt)
			if err != nil {
				return fmt.Errorf("failed to cache scene[%s]: %w", s.ID, err)
			}
		}
		return nil
	})
}

// Listing returns the cached listing of ownerID, most recently modified first.
func (r *SQLiteRepository) Listing(ctx context.Context, ownerID string) ([]models.SceneInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scene_id, name, created, modified
		FROM scene_listing
		WHERE owner_id = ?
		ORDER BY modified DESC, scene_id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing[%s]: %w", ownerID, err)
	}
	defer rows.Close()

	result := []models.SceneInfo{}
	for rows.Next() {
		var s models.SceneInfo
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	return result, nil
}
