// Package services holds the client-side rating workflows: the Sync
// Reconciler that decides between committing and queueing a write, and the
// read paths that combine the network, the cache and the pending queue.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/client"
	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/pending"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
)

// Oracle is the connectivity hint consulted before each attempt.
type Oracle interface {
	IsOnline() bool
}

// SyncRequester registers a background sweep with the retry agent.
type SyncRequester interface {
	RequestSync(tag string) error
}

// Intent is what the user asked to save.
type Intent struct {
	Date  string
	Mood  common.MoodLevel
	Notes string
}

type State string

const (
	StateCommitted State = "committed"
	StateQueued    State = "queued"
	// StateDegraded means the write could neither be sent nor queued.
	StateDegraded State = "degraded"
)

// Outcome reports where a submitted intent ended up.
type Outcome struct {
	State   State
	Rating  *models.Rating
	Pending int
	Warning string
}

type Reconciler struct {
	client    client.Client
	pending   pending.Repository
	cache     ratings.Repository
	oracle    Oracle
	publisher bus.Publisher
	sync      SyncRequester
	logger    logging.Logger
	now       func() time.Time
}

func NewReconciler(c client.Client, p pending.Repository, cache ratings.Repository,
	oracle Oracle, publisher bus.Publisher, sync SyncRequester, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Reconciler{
		client:    c,
		pending:   p,
		cache:     cache,
		oracle:    oracle,
		publisher: publisher,
		sync:      sync,
		logger:    logger.With("module", "reconciler"),
		now:       time.Now,
	}
}

// Submit validates in and either commits it to the server or queues it.
//
// Validation failures, server rejections and authorization failures are
// returned as errors and never queued. Connectivity and server-side
// failures queue the intent. A store failure while queueing yields
// StateDegraded with a warning and no error.
func (r *Reconciler) Submit(ctx context.Context, in Intent) (Outcome, error) {
	in.Notes = common.NormalizeNotes(in.Notes)
	if err := common.ValidateRatingNear(in.Date, in.Mood, in.Notes, r.now()); err != nil {
		return Outcome{}, err
	}

	if !r.oracle.IsOnline() {
		return r.enqueue(ctx, in, "offline")
	}

	// a queued older write for the same day must not replay over this one
	stale, err := r.pending.Get(ctx, in.Date)
	if err != nil {
		r.logger.Warn(ctx, "pending lookup failed", "date", in.Date, "error", err)
	}

	rating, err := r.client.UpsertRating(ctx, in.Date, in.Mood, in.Notes)
	if err != nil {
		if client.Retryable(err) {
			return r.enqueue(ctx, in, err.Error())
		}
		return Outcome{}, err
	}

	r.remember(ctx, rating)
	if stale != nil {
		removed, err := r.pending.DeleteIfUnchanged(ctx, in.Date, stale.EnqueuedAt)
		if err != nil {
			r.logger.Warn(ctx, "dropping superseded pending write failed", "date", in.Date, "error", err)
		} else if removed {
			r.publishCount(ctx)
		}
	}

	return Outcome{State: StateCommitted, Rating: rating}, nil
}

func (r *Reconciler) enqueue(ctx context.Context, in Intent, reason string) (Outcome, error) {
	w := &models.PendingWrite{Date: in.Date, Mood: in.Mood, Notes: in.Notes, EnqueuedAt: r.now()}

	if err := r.pending.Put(ctx, w); err != nil {
		r.logger.Error(ctx, "could not queue rating", "date", in.Date, "error", err)
		return Outcome{
			State:   StateDegraded,
			Warning: fmt.Sprintf("could not save offline: %v", err),
		}, nil
	}
	r.logger.Info(ctx, "rating queued", "date", in.Date, "reason", reason)

	count := r.publishCount(ctx)

	if err := r.sync.RequestSync(common.SyncTag); err != nil {
		r.logger.Warn(ctx, "background sync registration failed", "error", err)
	}

	return Outcome{State: StateQueued, Pending: count}, nil
}

func (r *Reconciler) publishCount(ctx context.Context) int {
	count, err := r.pending.Count(ctx)
	if err != nil {
		r.logger.Warn(ctx, "pending count failed", "error", err)
		return 0
	}
	r.publisher.Publish(ctx, bus.NewPendingCount(count))
	return count
}

func (r *Reconciler) remember(ctx context.Context, rating *models.Rating) {
	if err := r.cache.Put(ctx, models.NewCachedRating(rating, r.now())); err != nil {
		r.logger.Warn(ctx, "cache update failed", "date", rating.Date, "error", err)
	}
}

// PendingCount returns the number of queued writes.
func (r *Reconciler) PendingCount(ctx context.Context) (int, error) {
	return r.pending.Count(ctx)
}

// PendingWrites returns the queue, oldest first.
func (r *Reconciler) PendingWrites(ctx context.Context) ([]*models.PendingWrite, error) {
	return r.pending.GetAll(ctx)
}

// ErrOffline is returned by operations that need the server right now.
var ErrOffline = errors.New("this action needs a connection to the server")

// Delete removes the rating of date on the server and drops every local
// copy of it. It is not queued.
func (r *Reconciler) Delete(ctx context.Context, date string) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	if !r.oracle.IsOnline() {
		return ErrOffline
	}
	if err := r.client.DeleteRating(ctx, date); err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	if err := r.cache.Delete(ctx, date); err != nil {
		r.logger.Warn(ctx, "cache delete failed", "date", date, "error", err)
	}
	if err := r.pending.Delete(ctx, date); err != nil {
		r.logger.Warn(ctx, "pending delete failed", "date", date, "error", err)
	}
	r.publishCount(ctx)
	return nil
}
