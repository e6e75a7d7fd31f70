package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.RatingServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpointURL. Every call is
// bounded by timeout when it is positive.
func NewGRPCClient(endpointURL, accessToken string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor))
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewRatingServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) UpsertRating(ctx context.Context, date string, mood common.MoodLevel, notes string) (*models.Rating, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.UpsertRating(ctx, &rpc.UpsertRatingRequest{Date: date, Mood: int(mood), Notes: notes})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toModel(resp.Rating), nil
}

func (s *GRPCClient) GetRating(ctx context.Context, date string) (*models.Rating, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.GetRating(ctx, &rpc.GetRatingRequest{Date: date})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toModel(resp.Rating), nil
}

func (s *GRPCClient) ListMonth(ctx context.Context, month string) ([]*models.Rating, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.ListMonth(ctx, &rpc.ListMonthRequest{Month: month})
	if err != nil {
		return nil, s.mapError(err)
	}

	result := make([]*models.Rating, 0, len(resp.Ratings))
	for _, r := range resp.Ratings {
		result = append(result, toModel(r))
	}
	return result, nil
}

func (s *GRPCClient) DeleteRating(ctx context.Context, date string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	_, err := s.client.DeleteRating(ctx, &rpc.DeleteRatingRequest{Date: date})
	return s.mapError(err)
}

func (s *GRPCClient) SubscribePush(ctx context.Context, endpoint, p256dh, auth string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	_, err := s.client.SubscribePush(ctx, &rpc.SubscribePushRequest{
		Endpoint: endpoint,
		Keys:     rpc.PushKeys{P256dh: p256dh, Auth: auth},
	})
	return s.mapError(err)
}

func (s *GRPCClient) UnsubscribePush(ctx context.Context) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	_, err := s.client.UnsubscribePush(ctx, &rpc.UnsubscribePushRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) SendTestPush(ctx context.Context) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.SendTestPush(ctx, &rpc.SendTestPushRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Delivered {
		return fmt.Errorf("%w: test notification was not delivered", ErrServer)
	}
	return nil
}

func (s *GRPCClient) ExportMonth(ctx context.Context, month string) (*models.Export, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	resp, err := s.client.ExportMonth(ctx, &rpc.ExportMonthRequest{Month: month})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Export{Key: resp.Key, URL: resp.URL, Count: resp.Count}, nil
}

func toModel(r rpc.Rating) *models.Rating {
	return &models.Rating{
		Date:      r.Date,
		Mood:      common.MoodLevel(r.Mood),
		Notes:     r.Notes,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return ErrUnavailable
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s", ErrServer, st.Message())
	}
}
