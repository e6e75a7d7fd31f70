package pending

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/models"
)

// Repository is the durable queue of unacknowledged ratings, keyed by date.
type Repository interface {
	// Put inserts or replaces the entry for w.Date.
	Put(ctx context.Context, w *models.PendingWrite) error

	// Get returns (nil, nil) when nothing is queued for date.
	Get(ctx context.Context, date string) (*models.PendingWrite, error)

	// GetAll returns a snapshot of the queue, oldest first.
	GetAll(ctx context.Context) ([]*models.PendingWrite, error)

	Delete(ctx context.Context, date string) error

	// DeleteIfUnchanged removes the entry only if it is still the one
	// enqueued at enqueuedAt. It reports whether a row was removed.
	DeleteIfUnchanged(ctx context.Context, date string, enqueuedAt time.Time) (bool, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
