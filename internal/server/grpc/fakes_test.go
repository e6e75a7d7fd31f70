package grpc

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/services"
)

type fakeRatings struct {
	RatingService
	rows      map[string]*models.Rating
	err       error
	lastNotes string
}

func (f *fakeRatings) Upsert(_ context.Context, principalID, date string, mood common.MoodLevel, notes string) (*models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := common.ValidateRating(date, mood, notes); err != nil {
		return nil, err
	}
	f.lastNotes = notes
	r := &models.Rating{PrincipalID: principalID, Date: date, Mood: int(mood), Notes: notes}
	f.rows[principalID+"|"+date] = r
	return r, nil
}

func (f *fakeRatings) Get(_ context.Context, principalID, date string) (*models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rows[principalID+"|"+date]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (f *fakeRatings) ListMonth(_ context.Context, principalID, month string) ([]models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := common.ParseMonth(month); err != nil {
		return nil, err
	}
	var out []models.Rating
	for _, r := range f.rows {
		if r.PrincipalID == principalID && r.Date[:7] == month {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRatings) Delete(_ context.Context, principalID, date string) error {
	if _, ok := f.rows[principalID+"|"+date]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, principalID+"|"+date)
	return nil
}

type fakeSubscriptions struct {
	SubscriptionService
	subscribed map[string]string
	testErr    error
}

func (f *fakeSubscriptions) Subscribe(_ context.Context, principalID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	if endpoint == "" || p256dh == "" || auth == "" {
		return nil, common.ErrInvalidTarget
	}
	f.subscribed[principalID] = endpoint
	return &models.PushSubscription{PrincipalID: principalID, Endpoint: endpoint}, nil
}

func (f *fakeSubscriptions) Unsubscribe(_ context.Context, principalID string) error {
	if _, ok := f.subscribed[principalID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.subscribed, principalID)
	return nil
}

func (f *fakeSubscriptions) SendTest(context.Context, string) error {
	return f.testErr
}

type fakeExports struct {
	ExportService
	err error
}

func (f *fakeExports) ExportMonth(_ context.Context, principalID, month string) (*services.Export, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Export{Key: "exports/x/" + month + "/id.json", URL: "https://s3.example/x", Count: 3}, nil
}

func newTestServer(secret string) (*GRPCServer, *fakeRatings, *fakeSubscriptions, *fakeExports) {
	r := &fakeRatings{rows: map[string]*models.Rating{}}
	s := &fakeSubscriptions{subscribed: map[string]string{}}
	e := &fakeExports{}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, r, s, e, secret), r, s, e
}

func withPrincipal(id string) context.Context {
	return context.WithValue(context.Background(), principalIDKey, id)
}
