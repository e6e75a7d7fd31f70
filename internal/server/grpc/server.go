// Package grpc exposes the rating services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/rpc"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type RatingService interface {
	Upsert(ctx context.Context, principalID, date string, mood common.MoodLevel, notes string) (*models.Rating, error)
	Get(ctx context.Context, principalID, date string) (*models.Rating, error)
	ListMonth(ctx context.Context, principalID, month string) ([]models.Rating, error)
	Delete(ctx context.Context, principalID, date string) error
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, principalID, endpoint, p256dh, auth string) (*models.PushSubscription, error)
	Unsubscribe(ctx context.Context, principalID string) error
	SendTest(ctx context.Context, principalID string) error
}

type ExportService interface {
	ExportMonth(ctx context.Context, principalID, month string) (*services.Export, error)
}

type GRPCServer struct {
	address       string
	ratings       RatingService
	subscriptions SubscriptionService
	exports       ExportService
	logger        logging.Logger
	jwtSecret     []byte
}

func NewGRPCServer(a string, l logging.Logger, rs RatingService, ss SubscriptionService, es ExportService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		ratings:       rs,
		subscriptions: ss,
		exports:       es,
		jwtSecret:     []byte(secretKey),
	}
}

// Run serves until ctx is done, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterRatingServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "request handled",
		"method", info.FullMethod, "code", status.Code(err).String(), "elapsed", time.Since(start))
	return resp, err
}
