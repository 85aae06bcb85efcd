package sceneapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "scenevault.v1.SceneService"

const (
	SceneService_SaveScene_FullMethodName   = "/" + ServiceName + "/SaveScene"
	SceneService_ListScenes_FullMethodName  = "/" + ServiceName + "/ListScenes"
	SceneService_GetScene_FullMethodName    = "/" + ServiceName + "/GetScene"
	SceneService_DeleteScene_FullMethodName = "/" + ServiceName + "/DeleteScene"
	SceneService_Ping_FullMethodName        = "/" + ServiceName + "/Ping"
)

// SceneServiceServer is the server API for SceneService.
type SceneServiceServer interface {
	SaveScene(context.Context, *SaveSceneRequest) (*SaveSceneResponse, error)
	ListScenes(context.Context, *ListScenesRequest) (*ListScenesResponse, error)
	GetScene(context.Context, *GetSceneRequest) (*GetSceneResponse, error)
	DeleteScene(context.Context, *DeleteSceneRequest) (*DeleteSceneResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedSceneServiceServer can be embedded for forward compatibility.
type UnimplementedSceneServiceServer struct{}

func (UnimplementedSceneServiceServer) SaveScene(context.Context, *SaveSceneRequest) (*SaveSceneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveScene not implemented")
}
func (UnimplementedSceneServiceServer) ListScenes(context.Context, *ListScenesRequest) (*ListScenesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListScenes not implemented")
}
func (UnimplementedSceneServiceServer) GetScene(context.Context, *GetSceneRequest) (*GetSceneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetScene not implemented")
}
func (UnimplementedSceneServiceServer) DeleteScene(context.Context, *DeleteSceneRequest) (*DeleteSceneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteScene not implemented")
}
func (UnimplementedSceneServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterSceneServiceServer(s grpc.ServiceRegistrar, srv SceneServiceServer) {
	s.RegisterService(&SceneService_ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, running the server's
// interceptor chain when one is installed.
func unary[Req, Resp any](fullMethod string, call func(SceneServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SceneServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SceneServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SceneService_ServiceDesc is the grpc.ServiceDesc for SceneService.
var SceneService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SceneServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveScene", Handler: unary(SceneService_SaveScene_FullMethodName, SceneServiceServer.SaveScene)},
		{MethodName: "ListScenes", Handler: unary(SceneService_ListScenes_FullMethodName, SceneServiceServer.ListScenes)},
		{MethodName: "GetScene", Handler: unary(SceneService_GetScene_FullMethodName, SceneServiceServer.GetScene)},
		{MethodName: "DeleteScene", Handler: unary(SceneService_DeleteScene_FullMethodName, SceneServiceServer.DeleteScene)},
		{MethodName: "Ping", Handler: unary(SceneService_Ping_FullMethodName, SceneServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scenevault/v1/scene.cbor",
}

// SceneServiceClient is the client API for SceneService. Every call is sent
// with the CBOR content-subtype.
type SceneServiceClient interface {
	SaveScene(ctx context.Context, in *SaveSceneRequest, opts ...grpc.CallOption) (*SaveSceneResponse, error)
	ListScenes(ctx context.Context, in *ListScenesRequest, opts ...grpc.CallOption) (*ListScenesResponse, error)
	GetScene(ctx context.Context, in *GetSceneRequest, opts ...grpc.CallOption) (*GetSceneResponse, error)
	DeleteScene(ctx context.Context, in *DeleteSceneRequest, opts ...grpc.CallOption) (*DeleteSceneResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type sceneServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSceneServiceClient(cc grpc.ClientConnInterface) SceneServiceClient {
	return &sceneServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sceneServiceClient) SaveScene(ctx context.Context, in *SaveSceneRequest, opts ...grpc.CallOption) (*SaveSceneResponse, error) {
	return invoke[SaveSceneResponse](ctx, c.cc, SceneService_SaveScene_FullMethodName, in, opts)
}

func (c *sceneServiceClient) ListScenes(ctx context.Context, in *ListScenesRequest, opts ...grpc.CallOption) (*ListScenesResponse, error) {
	return invoke[ListScenesResponse](ctx, c.cc, SceneService_ListScenes_FullMethodName, in, opts)
}

func (c *sceneServiceClient) GetScene(ctx context.Context, in *GetSceneRequest, opts ...grpc.CallOption) (*GetSceneResponse, error) {
	return invoke[GetSceneResponse](ctx, c.cc, SceneService_GetScene_FullMethodName, in, opts)
}

func (c *sceneServiceClient) DeleteScene(ctx context.Context, in *DeleteSceneRequest, opts ...grpc.CallOption) (*DeleteSceneResponse, error) {
	return invoke[DeleteSceneResponse](ctx, c.cc, SceneService_DeleteScene_FullMethodName, in, opts)
}

func (c *sceneServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, SceneService_Ping_FullMethodName, in, opts)
}
