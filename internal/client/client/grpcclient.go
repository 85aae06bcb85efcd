package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/client/models"
	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/sceneapi"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient implements Client over the CBOR-encoded gRPC service.
type GRPCClient struct {
	ownerID string
	conn    *grpc.ClientConn
	client  sceneapi.SceneServiceClient
}

// requestIDInterceptor tags every call with a fresh request id unless the
// caller already set one.
func requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	if len(md.Get(common.RequestIDMetadataKey)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDMetadataKey, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewGRPCClient(endpoint, ownerID string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{ownerID: ownerID, conn: conn, client: sceneapi.NewSceneServiceClient(conn)}, nil
}

func (c *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: %s", ErrServer, st.Message())
	}
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	if _, err := c.client.Ping(ctx, &sceneapi.PingRequest{}); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) SaveScene(ctx context.Context, sceneID, name string, blob []byte, keyID string) error {
	_, err := c.client.SaveScene(ctx, &sceneapi.SaveSceneRequest{
		OwnerID:       c.ownerID,
		SceneID:       sceneID,
		Name:          name,
		Ciphertext:    blob,
		EncryptionKey: keyID,
	})
	if err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) ListScenes(ctx context.Context) ([]models.SceneInfo, error) {
	resp, err := c.client.ListScenes(ctx, &sceneapi.ListScenesRequest{OwnerID: c.ownerID})
	if err != nil {
		return nil, c.mapError(err)
	}

	scenes := make([]models.SceneInfo, 0, len(resp.Scenes))
	for _, s := range resp.Scenes {
		scenes = append(scenes, models.SceneInfo{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, ModifiedAt: s.ModifiedAt})
	}
	return scenes, nil
}

func (c *GRPCClient) GetScene(ctx context.Context, sceneID string) ([]byte, error) {
	resp, err := c.client.GetScene(ctx, &sceneapi.GetSceneRequest{OwnerID: c.ownerID, SceneID: sceneID})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp.Ciphertext, nil
}

func (c *GRPCClient) DeleteScene(ctx context.Context, sceneID string) error {
	if _, err := c.client.DeleteScene(ctx, &sceneapi.DeleteSceneRequest{OwnerID: c.ownerID, SceneID: sceneID}); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
