package grpc

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/rpc"
	"github.com/dmitrijs2005/rateday/internal/server/models"
)

func toRPCRating(r *models.Rating) rpc.Rating {
	return rpc.Rating{
		Date:      r.Date,
		Mood:      r.Mood,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) UpsertRating(ctx context.Context, req *rpc.UpsertRatingRequest) (*rpc.UpsertRatingResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.ratings.Upsert(ctx, principalID, req.Date, common.MoodLevel(req.Mood), req.Notes)
	if err != nil {
		return nil, s.toStatus(ctx, "UpsertRating", err)
	}

	return &rpc.UpsertRatingResponse{Rating: toRPCRating(r)}, nil
}

func (s *GRPCServer) GetRating(ctx context.Context, req *rpc.GetRatingRequest) (*rpc.GetRatingResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.ratings.Get(ctx, principalID, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetRating", err)
	}

	return &rpc.GetRatingResponse{Rating: toRPCRating(r)}, nil
}

func (s *GRPCServer) ListMonth(ctx context.Context, req *rpc.ListMonthRequest) (*rpc.ListMonthResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.ratings.ListMonth(ctx, principalID, req.Month)
	if err != nil {
		return nil, s.toStatus(ctx, "ListMonth", err)
	}

	resp := &rpc.ListMonthResponse{Month: req.Month, Ratings: make([]rpc.Rating, 0, len(list))}
	for i := range list {
		resp.Ratings = append(resp.Ratings, toRPCRating(&list[i]))
	}
	return resp, nil
}

func (s *GRPCServer) DeleteRating(ctx context.Context, req *rpc.DeleteRatingRequest) (*rpc.DeleteRatingResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ratings.Delete(ctx, principalID, req.Date); err != nil {
		return nil, s.toStatus(ctx, "DeleteRating", err)
	}
	return &rpc.DeleteRatingResponse{}, nil
}

func (s *GRPCServer) SubscribePush(ctx context.Context, req *rpc.SubscribePushRequest) (*rpc.SubscribePushResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.subscriptions.Subscribe(ctx, principalID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		return nil, s.toStatus(ctx, "SubscribePush", err)
	}
	return &rpc.SubscribePushResponse{}, nil
}

func (s *GRPCServer) UnsubscribePush(ctx context.Context, req *rpc.UnsubscribePushRequest) (*rpc.UnsubscribePushResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Unsubscribe(ctx, principalID); err != nil {
		return nil, s.toStatus(ctx, "UnsubscribePush", err)
	}
	return &rpc.UnsubscribePushResponse{}, nil
}

func (s *GRPCServer) SendTestPush(ctx context.Context, req *rpc.SendTestPushRequest) (*rpc.SendTestPushResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.SendTest(ctx, principalID); err != nil {
		return nil, s.toStatus(ctx, "SendTestPush", err)
	}
	return &rpc.SendTestPushResponse{Delivered: true}, nil
}

func (s *GRPCServer) ExportMonth(ctx context.Context, req *rpc.ExportMonthRequest) (*rpc.ExportMonthResponse, error) {
	principalID, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := s.exports.ExportMonth(ctx, principalID, req.Month)
	if err != nil {
		return nil, s.toStatus(ctx, "ExportMonth", err)
	}
	return &rpc.ExportMonthResponse{Key: exp.Key, URL: exp.URL, Count: exp.Count}, nil
}

