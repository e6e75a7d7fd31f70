package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/push"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rateday/internal/timex"
	"golang.org/x/sync/errgroup"
)

// Summary is the outcome of one reminder sweep.
type Summary struct {
	Today   string
	Total   int
	Sent    int
	Failed  int
	Skipped int
	Removed int
	Errors  []string
}

// ReminderService nudges principals who have not rated today.
type ReminderService struct {
	repomanager repomanager.RepositoryManager
	sender      push.Sender
	loc         *time.Location
	concurrency int
	logger      logging.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func NewReminderService(m repomanager.RepositoryManager, sender push.Sender, loc *time.Location, concurrency int, logger logging.Logger) *ReminderService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReminderService{
		repomanager: m,
		sender:      sender,
		loc:         loc,
		concurrency: concurrency,
		logger:      logger.With("module", "reminders"),
		now:         time.Now,
		after:       time.After,
	}
}

// Sweep checks every subscription once. Per-subscription failures are
// counted, not returned; only failing to list subscriptions is an error.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (Summary, error) {
	summary := Summary{Today: timex.Today(now, s.loc)}

	subs, err := s.repomanager.Subscriptions().List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list subscriptions: %w", err)
	}
	summary.Total = len(subs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, sub := range subs {
		g.Go(func() error {
			res, err := s.remind(ctx, summary.Today, sub)

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case resultSent:
				summary.Sent++
			case resultSkipped:
				summary.Skipped++
			case resultRemoved:
				summary.Failed++
				summary.Removed++
			default:
				summary.Failed++
			}
			if err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", sub.PrincipalID, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info(ctx, "reminder sweep finished",
		"today", summary.Today, "total", summary.Total, "sent", summary.Sent,
		"failed", summary.Failed, "skipped", summary.Skipped, "removed", summary.Removed)

	return summary, nil
}

type remindResult int

const (
	resultFailed remindResult = iota
	resultSent
	resultSkipped
	resultRemoved
)

func (s *ReminderService) remind(ctx context.Context, today string, sub models.PushSubscription) (remindResult, error) {
	_, err := s.repomanager.Ratings().Get(ctx, sub.PrincipalID, today)
	switch {
	case err == nil:
		return resultSkipped, nil
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "rating lookup failed", "principal", sub.PrincipalID, "error", err)
		return resultFailed, err
	}

	err = s.sender.Send(ctx, targetOf(&sub), push.Reminder(today))
	if err == nil {
		return resultSent, nil
	}

	s.logger.Warn(ctx, "reminder delivery failed", "principal", sub.PrincipalID, "error", err)
	if !errors.Is(err, push.ErrGone) {
		return resultFailed, err
	}

	derr := s.repomanager.Subscriptions().DeleteEndpoint(ctx, sub.PrincipalID, sub.Endpoint)
	if derr != nil && !errors.Is(derr, common.ErrorNotFound) {
		s.logger.Error(ctx, "failed to remove expired subscription", "principal", sub.PrincipalID, "error", derr)
		return resultFailed, err
	}
	return resultRemoved, err
}

// Run sweeps once a day at clock (HH:MM) in the service timezone until
// ctx is done.
func (s *ReminderService) Run(ctx context.Context, clock string) error {
	for {
		next, err := timex.NextDaily(s.now(), clock, s.loc)
		if err != nil {
			return err
		}
		s.logger.Info(ctx, "next reminder sweep scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return nil
		case <-s.after(next.Sub(s.now())):
		}

		if _, err := s.Sweep(ctx, s.now()); err != nil {
			s.logger.Error(ctx, "reminder sweep failed", "error", err)
		}
	}
}
