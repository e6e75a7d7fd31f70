package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeRPC struct {
	rpc.RatingServiceClient

	lastUpsert    *rpc.UpsertRatingRequest
	lastSubscribe *rpc.SubscribePushRequest
	hadDeadline   bool

	pingResp   *rpc.PingResponse
	upsertResp *rpc.UpsertRatingResponse
	listResp   *rpc.ListMonthResponse
	exportResp *rpc.ExportMonthResponse
	testResp   *rpc.SendTestPushResponse
	err        error
}

func (f *fakeRPC) Ping(ctx context.Context, in *rpc.PingRequest, opts ...grpc.CallOption) (*rpc.PingResponse, error) {
	_, f.hadDeadline = ctx.Deadline()
	return f.pingResp, f.err
}

func (f *fakeRPC) UpsertRating(ctx context.Context, in *rpc.UpsertRatingRequest, opts ...grpc.CallOption) (*rpc.UpsertRatingResponse, error) {
	f.lastUpsert = in
	return f.upsertResp, f.err
}

func (f *fakeRPC) GetRating(ctx context.Context, in *rpc.GetRatingRequest, opts ...grpc.CallOption) (*rpc.GetRatingResponse, error) {
	return nil, f.err
}

func (f *fakeRPC) ListMonth(ctx context.Context, in *rpc.ListMonthRequest, opts ...grpc.CallOption) (*rpc.ListMonthResponse, error) {
	return f.listResp, f.err
}

func (f *fakeRPC) SubscribePush(ctx context.Context, in *rpc.SubscribePushRequest, opts ...grpc.CallOption) (*rpc.SubscribePushResponse, error) {
	f.lastSubscribe = in
	return &rpc.SubscribePushResponse{}, f.err
}

func (f *fakeRPC) SendTestPush(ctx context.Context, in *rpc.SendTestPushRequest, opts ...grpc.CallOption) (*rpc.SendTestPushResponse, error) {
	return f.testResp, f.err
}

func (f *fakeRPC) ExportMonth(ctx context.Context, in *rpc.ExportMonthRequest, opts ...grpc.CallOption) (*rpc.ExportMonthResponse, error) {
	return f.exportResp, f.err
}

func TestInterceptor_AttachesAccessToken(t *testing.T) {
	c := &GRPCClient{accessToken: "T1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, ok := metadata.FromOutgoingContext(ctx)
		require.True(t, ok)
		assert.Equal(t, []string{"T1"}, md.Get(common.AccessTokenHeaderName))
		return nil
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "stale")
	require.NoError(t, c.accessTokenInterceptor(ctx, rpc.MethodPing, nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenLeavesContext(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		_, ok := metadata.FromOutgoingContext(ctx)
		assert.False(t, ok)
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpc.MethodPing, nil, nil, nil, invoker))
}

func TestPing(t *testing.T) {
	f := &fakeRPC{pingResp: &rpc.PingResponse{Status: "OK"}}
	c := &GRPCClient{client: f, timeout: time.Second}

	require.NoError(t, c.Ping(context.Background()))
	assert.True(t, f.hadDeadline, "calls must be bounded by the request timeout")

	f.pingResp = &rpc.PingResponse{Status: "DEGRADED"}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestUpsertRating_MapsResponse(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := &fakeRPC{upsertResp: &rpc.UpsertRatingResponse{Rating: rpc.Rating{Date: "2024-06-01", Mood: 4, Notes: "sun", UpdatedAt: ts}}}
	c := &GRPCClient{client: f}

	r, err := c.UpsertRating(context.Background(), "2024-06-01", common.MoodHappy, "sun")
	require.NoError(t, err)
	assert.Equal(t, common.MoodHappy, r.Mood)
	assert.Equal(t, "sun", r.Notes)
	assert.Equal(t, ts, r.UpdatedAt)
	assert.Equal(t, &rpc.UpsertRatingRequest{Date: "2024-06-01", Mood: 4, Notes: "sun"}, f.lastUpsert)
}

func TestListMonthAndExport(t *testing.T) {
	f := &fakeRPC{
		listResp:   &rpc.ListMonthResponse{Month: "2024-06", Ratings: []rpc.Rating{{Date: "2024-06-01", Mood: 1}, {Date: "2024-06-02", Mood: 2}}},
		exportResp: &rpc.ExportMonthResponse{Key: "k", URL: "http://x", Count: 2},
	}
	c := &GRPCClient{client: f}

	list, err := c.ListMonth(context.Background(), "2024-06")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, common.MoodSad, list[1].Mood)

	exp, err := c.ExportMonth(context.Background(), "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 2, exp.Count)
	assert.Equal(t, "http://x", exp.URL)
}

func TestSubscribeAndTestPush(t *testing.T) {
	f := &fakeRPC{testResp: &rpc.SendTestPushResponse{Delivered: false}}
	c := &GRPCClient{client: f}

	require.NoError(t, c.SubscribePush(context.Background(), "https://push.example/abc", "pk", "au"))
	assert.Equal(t, "pk", f.lastSubscribe.Keys.P256dh)

	require.ErrorIs(t, c.SendTestPush(context.Background()), ErrServer)
	f.testResp = &rpc.SendTestPushResponse{Delivered: true}
	require.NoError(t, c.SendTestPush(context.Background()))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		in        error
		want      error
		retryable bool
	}{
		{status.Error(codes.Unavailable, "down"), ErrUnavailable, true},
		{status.Error(codes.DeadlineExceeded, "slow"), ErrUnavailable, true},
		{status.Error(codes.Internal, "db"), ErrServer, true},
		{errors.New("plain"), ErrServer, true},
		{status.Error(codes.InvalidArgument, "cannot rate future dates"), ErrRejected, false},
		{status.Error(codes.Unauthenticated, "missing token"), ErrUnauthorized, false},
		{status.Error(codes.NotFound, "none"), ErrNotFound, false},
	}
	for _, tt := range tests {
		got := c.mapError(tt.in)
		assert.ErrorIs(t, got, tt.want, "input %v", tt.in)
		assert.Equal(t, tt.retryable, Retryable(got), "input %v", tt.in)
	}

	assert.NoError(t, c.mapError(nil))
	assert.Contains(t, c.mapError(status.Error(codes.InvalidArgument, "cannot rate future dates")).Error(), "future")
}

func TestGetRating_NotFound(t *testing.T) {
	c := &GRPCClient{client: &fakeRPC{err: status.Error(codes.NotFound, "none")}}
	_, err := c.GetRating(context.Background(), "2024-06-01")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewGRPCClient_LazyConnect(t *testing.T) {
	c, err := NewGRPCClient("127.0.0.1:1", "tok", 50*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
