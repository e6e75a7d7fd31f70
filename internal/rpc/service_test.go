package rpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type fakeServer struct {
	RatingServiceServer
	lastUpsert *UpsertRatingRequest
}

func (f *fakeServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) UpsertRating(_ context.Context, in *UpsertRatingRequest) (*UpsertRatingResponse, error) {
	f.lastUpsert = in
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return &UpsertRatingResponse{Rating: Rating{Date: in.Date, Mood: in.Mood, Notes: in.Notes, CreatedAt: ts, UpdatedAt: ts}}, nil
}

func (f *fakeServer) GetRating(_ context.Context, in *GetRatingRequest) (*GetRatingResponse, error) {
	return nil, status.Error(codes.NotFound, "not found")
}

func startServer(t *testing.T, srv RatingServiceServer, opts ...grpc.ServerOption) RatingServiceClient {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := grpc.NewServer(opts...)
	RegisterRatingServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewRatingServiceClient(conn)
}

func TestJSONCodec_RoundTripOverGRPC(t *testing.T) {
	f := &fakeServer{}
	c := startServer(t, f)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ping, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	resp, err := c.UpsertRating(ctx, &UpsertRatingRequest{Date: "2024-06-01", Mood: 3, Notes: "fine"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", resp.Rating.Date)
	assert.Equal(t, 3, resp.Rating.Mood)
	assert.Equal(t, "fine", resp.Rating.Notes)
	require.NotNil(t, f.lastUpsert)
	assert.Equal(t, "fine", f.lastUpsert.Notes)

	_, err = c.GetRating(ctx, &GetRatingRequest{Date: "2024-06-02"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServiceDesc_InterceptorSeesFullMethod(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		mu.Lock()
		seen = append(seen, info.FullMethod)
		mu.Unlock()
		return handler(ctx, req)
	}

	c := startServer(t, &fakeServer{}, grpc.UnaryInterceptor(interceptor))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	_, err = c.UpsertRating(ctx, &UpsertRatingRequest{Date: "2024-06-01", Mood: 1})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{MethodPing, MethodUpsertRating}, seen)
}

func TestJSONCodec_OmitsEmptyNotes(t *testing.T) {
	b, err := jsonCodec{}.Marshal(&UpsertRatingRequest{Date: "2024-06-01", Mood: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-01","rating":2}`, string(b))

	var r UpsertRatingRequest
	require.NoError(t, jsonCodec{}.Unmarshal([]byte(`{"date":"2024-06-03","rating":4,"notes":"x"}`), &r))
	assert.Equal(t, UpsertRatingRequest{Date: "2024-06-03", Mood: 4, Notes: "x"}, r)
	assert.Equal(t, "json", jsonCodec{}.Name())
}
