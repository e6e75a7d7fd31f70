package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyInstallationID = "installation_id"
	KeyLastSweepAt    = "last_sweep_at"
)

// Repository is a small key/value table for per-installation settings.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// GetOrCreate returns the stored value, storing gen() first when key is absent.
	GetOrCreate(ctx context.Context, key string, gen func() []byte) ([]byte, error)

	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
