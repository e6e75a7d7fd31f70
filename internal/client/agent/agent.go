// Package agent is the background retry agent. It drains the pending
// queue to the server independently of the foreground and reports each
// pass on the message bus.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/client"
	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/pending"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
)

var ErrUnknownTag = errors.New("unknown sync tag")

// Connectivity is the part of the connectivity oracle the agent needs.
type Connectivity interface {
	IsOnline() bool
	OnChange(fn func(online bool)) func()
}

// Result counts the outcome of one sweep.
type Result struct {
	Synced int
	Failed int
}

type Agent struct {
	client    client.Client
	pending   pending.Repository
	cache     ratings.Repository
	metadata  metadata.Repository
	conn      Connectivity
	publisher bus.Publisher
	logger    logging.Logger
	interval  time.Duration
	now       func() time.Time

	requests chan struct{}
	online   chan struct{}

	// one sweep at a time, whoever triggers it
	sweepMu sync.Mutex
}

func New(c client.Client, p pending.Repository, cache ratings.Repository, md metadata.Repository,
	conn Connectivity, publisher bus.Publisher, interval time.Duration, logger logging.Logger) *Agent {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Agent{
		client:    c,
		pending:   p,
		cache:     cache,
		metadata:  md,
		conn:      conn,
		publisher: publisher,
		logger:    logger.With("module", "agent"),
		interval:  interval,
		now:       time.Now,
		requests:  make(chan struct{}, 1),
		online:    make(chan struct{}, 1),
	}
}

// RequestSync asks for a sweep at the agent's discretion. Requests
// coalesce: while one is waiting, further requests are absorbed.
func (a *Agent) RequestSync(tag string) error {
	if tag != common.SyncTag {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	select {
	case a.requests <- struct{}{}:
	default:
	}
	return nil
}

// Sweep makes one pass over the pending queue. Each entry is upserted
// independently; a failed entry stays queued and the pass continues.
// A SYNC_COMPLETE message is published after every pass that could read
// the queue, even an empty one.
func (a *Agent) Sweep(ctx context.Context) (Result, error) {
	a.sweepMu.Lock()
	defer a.sweepMu.Unlock()

	entries, err := a.pending.GetAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read pending queue: %w", err)
	}

	var res Result
	for _, w := range entries {
		if a.drain(ctx, w) {
			res.Synced++
		} else {
			res.Failed++
		}
	}

	if err := a.metadata.Set(ctx, metadata.KeyLastSweepAt, []byte(a.now().UTC().Format(time.RFC3339))); err != nil {
		a.logger.Warn(ctx, "recording sweep time failed", "error", err)
	}

	a.logger.Info(ctx, "sweep finished", "synced", res.Synced, "failed", res.Failed)
	a.publisher.Publish(ctx, bus.NewSyncComplete(res.Synced, res.Failed))

	if res.Synced > 0 {
		if count, err := a.pending.Count(ctx); err == nil {
			a.publisher.Publish(ctx, bus.NewPendingCount(count))
		}
	}

	return res, nil
}

// drain sends one queued write and reports whether the server accepted it.
// The entry is removed only if it was not replaced while in flight.
func (a *Agent) drain(ctx context.Context, w *models.PendingWrite) bool {
	rating, err := a.client.UpsertRating(ctx, w.Date, w.Mood, w.Notes)
	if err != nil {
		a.logger.Warn(ctx, "sync failed, keeping entry", "date", w.Date, "error", err)
		return false
	}

	removed, err := a.pending.DeleteIfUnchanged(ctx, w.Date, w.EnqueuedAt)
	switch {
	case err != nil:
		// acknowledged but still queued; the next sweep resends the same value
		a.logger.Warn(ctx, "dequeue failed", "date", w.Date, "error", err)
	case !removed:
		a.logger.Debug(ctx, "entry replaced during sync, keeping newer value", "date", w.Date)
	}

	if err := a.cache.Put(ctx, models.NewCachedRating(rating, a.now())); err != nil {
		a.logger.Warn(ctx, "cache update failed", "date", w.Date, "error", err)
	}
	return true
}

// LastSweepAt returns the time of the last finished sweep, or the zero
// time if there was none.
func (a *Agent) LastSweepAt(ctx context.Context) (time.Time, error) {
	v, err := a.metadata.Get(ctx, metadata.KeyLastSweepAt)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, string(v))
}

// Run sweeps on sync requests, on every offline to online transition and
// every interval, until ctx is cancelled. Requests that arrive while
// offline wait for connectivity to return. If the client is already
// online when Run starts, it sweeps once right away.
func (a *Agent) Run(ctx context.Context) {
	unsubscribe := a.conn.OnChange(func(online bool) {
		if online {
			a.signalOnline()
		}
	})
	defer unsubscribe()

	if a.conn.IsOnline() {
		a.signalOnline()
	}

	var tick <-chan time.Time
	if a.interval > 0 {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.requests:
			if !a.conn.IsOnline() {
				a.logger.Debug(ctx, "offline, sync deferred")
				continue
			}
		case <-a.online:
		case <-tick:
			if !a.conn.IsOnline() {
				continue
			}
		}

		if _, err := a.Sweep(ctx); err != nil {
			a.logger.Error(ctx, "sweep failed", "error", err)
		}
	}
}

func (a *Agent) signalOnline() {
	select {
	case a.online <- struct{}{}:
	default:
	}
}
