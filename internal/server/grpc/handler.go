package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/sceneapi"
	"github.com/dmitrijs2005/scenevault/internal/server/models"
	"github.com/dmitrijs2005/scenevault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SceneService is the part of services.SceneService the handlers call.
type SceneService interface {
	SaveScene(ctx context.Context, ownerID, sceneID, name string, ciphertext models.Ciphertext, keyRef models.KeyReference) (*services.SaveResult, error)
	ListScenes(ctx context.Context, ownerID string) ([]models.SceneMetadata, error)
	GetScene(ctx context.Context, ownerID, sceneID string) (models.Ciphertext, bool, error)
	DeleteScene(ctx context.Context, ownerID, sceneID string) (bool, error)
}

func toStatus(err error, fallback string) error {
	switch {
	case errors.Is(err, common.ErrInvalidIdentifier):
		return status.Error(codes.InvalidArgument, "invalid user ID or scene ID")
	case errors.Is(err, common.ErrMissingEncryptionKey):
		return status.Error(codes.InvalidArgument, "missing encryption key")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, fallback)
	}
}

func toWire(m models.SceneMetadata) sceneapi.SceneMetadata {
	return sceneapi.SceneMetadata{
		ID:           m.ID,
		Name:         m.Name,
		CreatedAt:    m.CreatedAt,
		ModifiedAt:   m.ModifiedAt,
		Thumbnail:    m.Thumbnail,
		ElementCount: m.ElementCount,
		FileCount:    m.FileCount,
	}
}

func (s *GRPCServer) SaveScene(ctx context.Context, req *sceneapi.SaveSceneRequest) (*sceneapi.SaveSceneResponse, error) {
	name := req.Name
	if name == "" {
		name = common.DefaultSceneName
	}

	res, err := s.scenes.SaveScene(ctx, req.OwnerID, req.SceneID, name, req.Ciphertext, models.KeyReference(req.EncryptionKey))
	if err != nil {
		s.logger.Error(ctx, "error saving scene", "owner_id", req.OwnerID, "scene_id", req.SceneID, "error", err)
		return nil, toStatus(err, "failed to save scene")
	}

	return &sceneapi.SaveSceneResponse{Scene: toWire(res.Metadata), Updated: res.Updated}, nil
}

func (s *GRPCServer) ListScenes(ctx context.Context, req *sceneapi.ListScenesRequest) (*sceneapi.ListScenesResponse, error) {
	scenes, err := s.scenes.ListScenes(ctx, req.OwnerID)
	if err != nil {
		s.logger.Error(ctx, "error getting scenes", "owner_id", req.OwnerID, "error", err)
		return nil, toStatus(err, "failed to get scenes")
	}

	out := make([]sceneapi.SceneMetadata, 0, len(scenes))
	for _, m := range scenes {
		out = append(out, toWire(m))
	}
	return &sceneapi.ListScenesResponse{Scenes: out}, nil
}

func (s *GRPCServer) GetScene(ctx context.Context, req *sceneapi.GetSceneRequest) (*sceneapi.GetSceneResponse, error) {
	data, ok, err := s.scenes.GetScene(ctx, req.OwnerID, req.SceneID)
	if err != nil {
		s.logger.Error(ctx, "error getting scene", "owner_id", req.OwnerID, "scene_id", req.SceneID, "error", err)
		return nil, toStatus(err, "failed to get scene")
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "scene not found")
	}
	return &sceneapi.GetSceneResponse{Ciphertext: data}, nil
}

func (s *GRPCServer) DeleteScene(ctx context.Context, req *sceneapi.DeleteSceneRequest) (*sceneapi.DeleteSceneResponse, error) {
	deleted, err := s.scenes.DeleteScene(ctx, req.OwnerID, req.SceneID)
	if err != nil {
		s.logger.Error(ctx, "error deleting scene", "owner_id", req.OwnerID, "scene_id", req.SceneID, "error", err)
		return nil, toStatus(err, "failed to delete scene")
	}
	if !deleted {
		return nil, status.Error(codes.NotFound, "scene not found")
	}
	return &sceneapi.DeleteSceneResponse{Deleted: true}, nil
}

func (s *GRPCServer) Ping(context.Context, *sceneapi.PingRequest) (*sceneapi.PingResponse, error) {
	return &sceneapi.PingResponse{Status: "OK"}, nil
}
