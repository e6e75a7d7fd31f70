package client

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/common"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// UpsertRating creates or replaces the rating of date and returns the
	// server's copy, including its updatedAt.
	UpsertRating(ctx context.Context, date string, mood common.MoodLevel, notes string) (*models.Rating, error)
	// GetRating returns ErrNotFound for a day without a rating.
	GetRating(ctx context.Context, date string) (*models.Rating, error)
	ListMonth(ctx context.Context, month string) ([]*models.Rating, error)
	DeleteRating(ctx context.Context, date string) error

	SubscribePush(ctx context.Context, endpoint, p256dh, auth string) error
	UnsubscribePush(ctx context.Context) error
	SendTestPush(ctx context.Context) error

	ExportMonth(ctx context.Context, month string) (*models.Export, error)
}
