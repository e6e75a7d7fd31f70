package ratings

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/client/models"
)

// Repository is the read cache of server-acknowledged ratings, keyed by date.
type Repository interface {
	Put(ctx context.Context, r *models.CachedRating) error

	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, date string) (*models.CachedRating, error)
	GetAll(ctx context.Context) ([]*models.CachedRating, error)

	// GetRange returns cached days in [from, to], ascending.
	GetRange(ctx context.Context, from, to string) ([]*models.CachedRating, error)

	Delete(ctx context.Context, date string) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
