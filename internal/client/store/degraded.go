package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/models"
)

// Degraded returns a handle for a store that could not be opened. Every
// collection operation fails with ErrUnavailable, so callers fall back to
// online-only behaviour instead of stopping.
func Degraded(cause error) *Store {
	u := unavailable{cause: cause}
	return &Store{
		pending:  unavailablePending{u},
		cache:    unavailableCache{u},
		metadata: unavailableMetadata{u},
		cause:    cause,
	}
}

type unavailable struct{ cause error }

func (u unavailable) err() error {
	return fmt.Errorf("%w: %v", ErrUnavailable, u.cause)
}

type unavailablePending struct{ unavailable }

func (u unavailablePending) Put(context.Context, *models.PendingWrite) error { return u.err() }
func (u unavailablePending) Get(context.Context, string) (*models.PendingWrite, error) {
	return nil, u.err()
}
func (u unavailablePending) GetAll(context.Context) ([]*models.PendingWrite, error) {
	return nil, u.err()
}
func (u unavailablePending) Delete(context.Context, string) error { return u.err() }
func (u unavailablePending) DeleteIfUnchanged(context.Context, string, time.Time) (bool, error) {
	return false, u.err()
}
func (u unavailablePending) Count(context.Context) (int, error) { return 0, u.err() }
func (u unavailablePending) Clear(context.Context) error        { return u.err() }

type unavailableCache struct{ unavailable }

func (u unavailableCache) Put(context.Context, *models.CachedRating) error { return u.err() }
func (u unavailableCache) Get(context.Context, string) (*models.CachedRating, error) {
	return nil, u.err()
}
func (u unavailableCache) GetAll(context.Context) ([]*models.CachedRating, error) {
	return nil, u.err()
}
func (u unavailableCache) GetRange(context.Context, string, string) ([]*models.CachedRating, error) {
	return nil, u.err()
}
func (u unavailableCache) Delete(context.Context, string) error { return u.err() }
func (u unavailableCache) Count(context.Context) (int, error)   { return 0, u.err() }
func (u unavailableCache) Clear(context.Context) error          { return u.err() }

type unavailableMetadata struct{ unavailable }

func (u unavailableMetadata) Get(context.Context, string) ([]byte, error) { return nil, u.err() }
func (u unavailableMetadata) Set(context.Context, string, []byte) error   { return u.err() }
func (u unavailableMetadata) GetOrCreate(context.Context, string, func() []byte) ([]byte, error) {
	return nil, u.err()
}
func (u unavailableMetadata) Delete(context.Context, string) error { return u.err() }
func (u unavailableMetadata) Clear(context.Context) error          { return u.err() }
