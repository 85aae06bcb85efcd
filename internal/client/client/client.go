package client

import (
	"context"

	"github.com/dmitrijs2005/scenevault/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SaveScene(ctx context.Context, sceneID, name string, blob []byte, keyID string) error
	ListScenes(ctx context.Context) ([]models.SceneInfo, error)
	GetScene(ctx context.Context, sceneID string) ([]byte, error)
	DeleteScene(ctx context.Context, sceneID string) error
}
