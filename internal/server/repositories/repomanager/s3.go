package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/server/config"
	"github.com/dmitrijs2005/scenevault/internal/server/repositories/kv"
)

// newS3Client is a seam for testing kv.NewS3Client.
var newS3Client = func(ctx context.Context, o kv.S3Options) (kv.S3API, error) {
	return kv.NewS3Client(ctx, o)
}

// S3RepositoryManager stores entries as objects in a single bucket.
type S3RepositoryManager struct {
	store *kv.S3Repository
}

func NewS3RepositoryManager(ctx context.Context, cfg *config.Config) (*S3RepositoryManager, error) {
	client, err := newS3Client(ctx, kv.S3Options{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client error: %w", err)
	}

	return &S3RepositoryManager{store: kv.NewS3Repository(client, cfg.S3Bucket)}, nil
}

// RunMigrations is a no-op: buckets are provisioned out of band.
func (m *S3RepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *S3RepositoryManager) Store() kv.Repository { return m.store }

func (m *S3RepositoryManager) Close() error { return nil }
