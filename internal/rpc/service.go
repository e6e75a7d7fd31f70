package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "rateday.v1.RatingService"

// Full method names, as seen by interceptors.
const (
	MethodPing            = "/" + ServiceName + "/Ping"
	MethodUpsertRating    = "/" + ServiceName + "/UpsertRating"
	MethodGetRating       = "/" + ServiceName + "/GetRating"
	MethodListMonth       = "/" + ServiceName + "/ListMonth"
	MethodDeleteRating    = "/" + ServiceName + "/DeleteRating"
	MethodSubscribePush   = "/" + ServiceName + "/SubscribePush"
	MethodUnsubscribePush = "/" + ServiceName + "/UnsubscribePush"
	MethodSendTestPush    = "/" + ServiceName + "/SendTestPush"
	MethodExportMonth     = "/" + ServiceName + "/ExportMonth"
)

// RatingServiceServer is implemented by the server's gRPC handler.
type RatingServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	UpsertRating(context.Context, *UpsertRatingRequest) (*UpsertRatingResponse, error)
	GetRating(context.Context, *GetRatingRequest) (*GetRatingResponse, error)
	ListMonth(context.Context, *ListMonthRequest) (*ListMonthResponse, error)
	DeleteRating(context.Context, *DeleteRatingRequest) (*DeleteRatingResponse, error)
	SubscribePush(context.Context, *SubscribePushRequest) (*SubscribePushResponse, error)
	UnsubscribePush(context.Context, *UnsubscribePushRequest) (*UnsubscribePushResponse, error)
	SendTestPush(context.Context, *SendTestPushRequest) (*SendTestPushResponse, error)
	ExportMonth(context.Context, *ExportMonthRequest) (*ExportMonthResponse, error)
}

func unary[Req, Resp any](name string, call func(RatingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(RatingServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RatingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", RatingServiceServer.Ping),
		unary("UpsertRating", RatingServiceServer.UpsertRating),
		unary("GetRating", RatingServiceServer.GetRating),
		unary("ListMonth", RatingServiceServer.ListMonth),
		unary("DeleteRating", RatingServiceServer.DeleteRating),
		unary("SubscribePush", RatingServiceServer.SubscribePush),
		unary("UnsubscribePush", RatingServiceServer.UnsubscribePush),
		unary("SendTestPush", RatingServiceServer.SendTestPush),
		unary("ExportMonth", RatingServiceServer.ExportMonth),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rateday/v1/rating_service",
}

func RegisterRatingServiceServer(s grpc.ServiceRegistrar, srv RatingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// RatingServiceClient is the typed client side of the service.
type RatingServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	UpsertRating(ctx context.Context, in *UpsertRatingRequest, opts ...grpc.CallOption) (*UpsertRatingResponse, error)
	GetRating(ctx context.Context, in *GetRatingRequest, opts ...grpc.CallOption) (*GetRatingResponse, error)
	ListMonth(ctx context.Context, in *ListMonthRequest, opts ...grpc.CallOption) (*ListMonthResponse, error)
	DeleteRating(ctx context.Context, in *DeleteRatingRequest, opts ...grpc.CallOption) (*DeleteRatingResponse, error)
	SubscribePush(ctx context.Context, in *SubscribePushRequest, opts ...grpc.CallOption) (*SubscribePushResponse, error)
	UnsubscribePush(ctx context.Context, in *UnsubscribePushRequest, opts ...grpc.CallOption) (*UnsubscribePushResponse, error)
	SendTestPush(ctx context.Context, in *SendTestPushRequest, opts ...grpc.CallOption) (*SendTestPushResponse, error)
	ExportMonth(ctx context.Context, in *ExportMonthRequest, opts ...grpc.CallOption) (*ExportMonthResponse, error)
}

type ratingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRatingServiceClient(cc grpc.ClientConnInterface) RatingServiceClient {
	return &ratingServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ratingServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *ratingServiceClient) UpsertRating(ctx context.Context, in *UpsertRatingRequest, opts ...grpc.CallOption) (*UpsertRatingResponse, error) {
	return invoke[UpsertRatingResponse](ctx, c.cc, MethodUpsertRating, in, opts)
}

func (c *ratingServiceClient) GetRating(ctx context.Context, in *GetRatingRequest, opts ...grpc.CallOption) (*GetRatingResponse, error) {
	return invoke[GetRatingResponse](ctx, c.cc, MethodGetRating, in, opts)
}

func (c *ratingServiceClient) ListMonth(ctx context.Context, in *ListMonthRequest, opts ...grpc.CallOption) (*ListMonthResponse, error) {
	return invoke[ListMonthResponse](ctx, c.cc, MethodListMonth, in, opts)
}

func (c *ratingServiceClient) DeleteRating(ctx context.Context, in *DeleteRatingRequest, opts ...grpc.CallOption) (*DeleteRatingResponse, error) {
	return invoke[DeleteRatingResponse](ctx, c.cc, MethodDeleteRating, in, opts)
}

func (c *ratingServiceClient) SubscribePush(ctx context.Context, in *SubscribePushRequest, opts ...grpc.CallOption) (*SubscribePushResponse, error) {
	return invoke[SubscribePushResponse](ctx, c.cc, MethodSubscribePush, in, opts)
}

func (c *ratingServiceClient) UnsubscribePush(ctx context.Context, in *UnsubscribePushRequest, opts ...grpc.CallOption) (*UnsubscribePushResponse, error) {
	return invoke[UnsubscribePushResponse](ctx, c.cc, MethodUnsubscribePush, in, opts)
}

func (c *ratingServiceClient) SendTestPush(ctx context.Context, in *SendTestPushRequest, opts ...grpc.CallOption) (*SendTestPushResponse, error) {
	return invoke[SendTestPushResponse](ctx, c.cc, MethodSendTestPush, in, opts)
}

func (c *ratingServiceClient) ExportMonth(ctx context.Context, in *ExportMonthRequest, opts ...grpc.CallOption) (*ExportMonthResponse, error) {
	return invoke[ExportMonthResponse](ctx, c.cc, MethodExportMonth, in, opts)
}
