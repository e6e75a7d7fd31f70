package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/push"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
)

type SubscriptionService struct {
	repomanager repomanager.RepositoryManager
	sender      push.Sender
	devMode     bool
	now         func() time.Time
	logger      logging.Logger
}

func NewSubscriptionService(m repomanager.RepositoryManager, sender push.Sender, devMode bool, logger logging.Logger) *SubscriptionService {
	return &SubscriptionService{
		repomanager: m,
		sender:      sender,
		devMode:     devMode,
		now:         time.Now,
		logger:      logger.With("module", "subscriptions"),
	}
}

// Subscribe stores the principal's push target, replacing an older one.
func (s *SubscriptionService) Subscribe(ctx context.Context, principalID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	endpoint = strings.TrimSpace(endpoint)
	if !validEndpoint(endpoint) || p256dh == "" || auth == "" {
		return nil, common.ErrInvalidTarget
	}

	sub, err := s.repomanager.Subscriptions().Upsert(ctx, &models.PushSubscription{
		PrincipalID: principalID,
		Endpoint:    endpoint,
		P256dh:      p256dh,
		Auth:        auth,
		UpdatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "push subscription saved", "principal", principalID)
	return sub, nil
}

// Unsubscribe returns common.ErrorNotFound when there is nothing to remove.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, principalID string) error {
	return s.repomanager.Subscriptions().Delete(ctx, principalID)
}

// SendTest pushes a test notification to the caller. Outside development
// mode it fails with common.ErrDevOnly. A subscription the push service
// reports gone is removed and common.ErrorNotFound is returned.
func (s *SubscriptionService) SendTest(ctx context.Context, principalID string) error {
	if !s.devMode {
		return common.ErrDevOnly
	}

	repo := s.repomanager.Subscriptions()
	sub, err := repo.Get(ctx, principalID)
	if err != nil {
		return err
	}

	err = s.sender.Send(ctx, targetOf(sub), push.Test(s.now().UTC().Format(time.RFC3339)))
	if errors.Is(err, push.ErrGone) {
		if derr := repo.DeleteEndpoint(ctx, principalID, sub.Endpoint); derr != nil && !errors.Is(derr, common.ErrorNotFound) {
			s.logger.Error(ctx, "failed to remove expired subscription", "principal", principalID, "error", derr)
		}
		return fmt.Errorf("%w: push subscription is no longer valid and was removed", common.ErrorNotFound)
	}
	return err
}

func targetOf(sub *models.PushSubscription) push.Target {
	return push.Target{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}
}

func validEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "https" || u.Scheme == "http"
}
