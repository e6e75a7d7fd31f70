// Package ratings stores the authoritative day ratings, keyed by
// (principal, date), in PostgreSQL or MongoDB.
package ratings

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/server/models"
)

// Repository persists ratings. Lookups of a missing (principal, date)
// return common.ErrorNotFound.
type Repository interface {
	// Upsert inserts or overwrites the rating for (PrincipalID, Date) and
	// returns the stored row. CreatedAt survives overwrites.
	Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Get(ctx context.Context, principalID, date string) (*models.Rating, error)
	// ListRange returns ratings with from <= date <= to, ascending by date.
	ListRange(ctx context.Context, principalID, from, to string) ([]models.Rating, error)
	Delete(ctx context.Context, principalID, date string) error
}
