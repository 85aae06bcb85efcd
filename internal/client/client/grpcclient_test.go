package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/sceneapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeSceneServer keeps scenes in a map and records request ids.
type fakeSceneServer struct {
	sceneapi.UnimplementedSceneServiceServer

	mu         sync.Mutex
	scenes     map[string][]byte
	requestIDs []string
	fail       error
}

func (f *fakeSceneServer) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	f.requestIDs = append(f.requestIDs, md.Get(common.RequestIDMetadataKey)...)
}

func (f *fakeSceneServer) SaveScene(ctx context.Context, req *sceneapi.SaveSceneRequest) (*sceneapi.SaveSceneResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx)
	if f.fail != nil {
		return nil, f.fail
	}
	if req.EncryptionKey == "" {
		return nil, status.Error(codes.InvalidArgument, "missing encryption key")
	}
	f.scenes[req.OwnerID+"/"+req.SceneID] = req.Ciphertext
	return &sceneapi.SaveSceneResponse{Scene: sceneapi.SceneMetadata{ID: req.SceneID, Name: req.Name}}, nil
}

func (f *fakeSceneServer) ListScenes(ctx context.Context, req *sceneapi.ListScenesRequest) (*sceneapi.ListScenesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx)
	if f.fail != nil {
		return nil, f.fail
	}
	var out []sceneapi.SceneMetadata
	for key := range f.scenes {
		out = append(out, sceneapi.SceneMetadata{ID: key[len(req.OwnerID)+1:], Name: "n", CreatedAt: 1, ModifiedAt: 2})
	}
	return &sceneapi.ListScenesResponse{Scenes: out}, nil
}

func (f *fakeSceneServer) GetScene(ctx context.Context, req *sceneapi.GetSceneRequest) (*sceneapi.GetSceneResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx)
	data, ok := f.scenes[req.OwnerID+"/"+req.SceneID]
	if !ok {
		return nil, status.Error(codes.NotFound, "scene not found")
	}
	return &sceneapi.GetSceneResponse{Ciphertext: data}, nil
}

func (f *fakeSceneServer) DeleteScene(ctx context.Context, req *sceneapi.DeleteSceneRequest) (*sceneapi.DeleteSceneResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx)
	key := req.OwnerID + "/" + req.SceneID
	if _, ok := f.scenes[key]; !ok {
		return nil, status.Error(codes.NotFound, "scene not found")
	}
	delete(f.scenes, key)
	return &sceneapi.DeleteSceneResponse{Deleted: true}, nil
}

func (f *fakeSceneServer) Ping(context.Context, *sceneapi.PingRequest) (*sceneapi.PingResponse, error) {
	return &sceneapi.PingResponse{Status: "OK"}, nil
}

func newGRPCClient(t *testing.T, fake *fakeSceneServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	sceneapi.RegisterSceneServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet", "alice",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c
}

func TestGRPCClient_Roundtrip(t *testing.T) {
	fake := &fakeSceneServer{scenes: map[string][]byte{}}
	c := newGRPCClient(t, fake)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SaveScene(ctx, "s1", "Draft", []byte{9, 8}, "kid"))

	fake.mu.Lock()
	_, stored := fake.scenes["alice/s1"]
	fake.mu.Unlock()
	require.True(t, stored, "scene is stored under the client's owner id")

	list, err := c.ListScenes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)

	data, err := c.GetScene(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, data)

	require.NoError(t, c.DeleteScene(ctx, "s1"))
	_, err = c.GetScene(ctx, "s1")
	assert.True(t, errors.Is(err, ErrNotFound))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.requestIDs, 5, "every scene call carries a request id")
}

func TestGRPCClient_MapsErrors(t *testing.T) {
	fake := &fakeSceneServer{scenes: map[string][]byte{}}
	c := newGRPCClient(t, fake)
	ctx := context.Background()

	err := c.SaveScene(ctx, "s1", "n", []byte{1}, "")
	assert.True(t, errors.Is(err, ErrRejected))

	fake.mu.Lock()
	fake.fail = status.Error(codes.Internal, "failed to get scenes")
	fake.mu.Unlock()

	_, err = c.ListScenes(ctx)
	assert.True(t, errors.Is(err, ErrServer))
	assert.ErrorContains(t, err, "failed to get scenes")
}

func TestGRPCClient_KeepsCallerRequestID(t *testing.T) {
	fake := &fakeSceneServer{scenes: map[string][]byte{}}
	c := newGRPCClient(t, fake)

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.RequestIDMetadataKey, "mine")
	_, err := c.ListScenes(ctx)
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"mine"}, fake.requestIDs)
}
