// Package subscriptions stores web push subscriptions, one per principal.
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/rateday/internal/server/models"
)

type Repository interface {
	// Upsert replaces the principal's subscription, if any.
	Upsert(ctx context.Context, sub *models.PushSubscription) (*models.PushSubscription, error)
	Get(ctx context.Context, principalID string) (*models.PushSubscription, error)
	List(ctx context.Context) ([]models.PushSubscription, error)
	Delete(ctx context.Context, principalID string) error
	// DeleteEndpoint removes the subscription only while it still points
	// at endpoint, so a re-subscription made meanwhile survives.
	DeleteEndpoint(ctx context.Context, principalID, endpoint string) error
}
