package services

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/rateday/internal/client/client"
	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/timex"
)

type ReadPreference int

const (
	// NetworkFirst asks the server and falls back to the cache.
	NetworkFirst ReadPreference = iota
	// CacheFirst answers from the cache and asks the server on a miss.
	CacheFirst
)

// Source tells where a read was answered from.
type Source string

const (
	SourceNone    Source = "none"
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
	SourcePending Source = "pending"
)

// ReadRating returns the best known rating of date, or nil when the day
// has none. A queued write for date wins over both the server and the
// cache, since it is the newest local intent.
func (r *Reconciler) ReadRating(ctx context.Context, date string, pref ReadPreference) (*models.Rating, Source, error) {
	if _, err := common.ParseDate(date); err != nil {
		return nil, SourceNone, err
	}

	if w, err := r.pending.Get(ctx, date); err != nil {
		r.logger.Warn(ctx, "pending lookup failed", "date", date, "error", err)
	} else if w != nil {
		return pendingAsRating(w), SourcePending, nil
	}

	if pref == CacheFirst {
		if rating := r.fromCache(ctx, date); rating != nil {
			return rating, SourceCache, nil
		}
		if !r.oracle.IsOnline() {
			return nil, SourceNone, nil
		}
		rating, err := r.fromNetwork(ctx, date)
		if err != nil {
			return nil, SourceNone, err
		}
		return rating, SourceNetwork, nil
	}

	if r.oracle.IsOnline() {
		rating, err := r.fromNetwork(ctx, date)
		if err == nil {
			return rating, SourceNetwork, nil
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, SourceNone, err
		}
		r.logger.Warn(ctx, "network read failed, using cache", "date", date, "error", err)
	}

	if rating := r.fromCache(ctx, date); rating != nil {
		return rating, SourceCache, nil
	}
	return nil, SourceNone, nil
}

// fromNetwork fetches date and refreshes the cache. A day the server does
// not know is dropped from the cache and reported as (nil, nil).
func (r *Reconciler) fromNetwork(ctx context.Context, date string) (*models.Rating, error) {
	rating, err := r.client.GetRating(ctx, date)
	if errors.Is(err, client.ErrNotFound) {
		if err := r.cache.Delete(ctx, date); err != nil {
			r.logger.Warn(ctx, "cache delete failed", "date", date, "error", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.remember(ctx, rating)
	return rating, nil
}

func (r *Reconciler) fromCache(ctx context.Context, date string) *models.Rating {
	c, err := r.cache.Get(ctx, date)
	if err != nil {
		r.logger.Warn(ctx, "cache read failed", "date", date, "error", err)
		return nil
	}
	if c == nil {
		return nil
	}
	return c.Rating()
}

// ReadMonth returns the ratings of month ("2006-01") in date order. Queued
// writes are laid over whatever the server or the cache returned.
func (r *Reconciler) ReadMonth(ctx context.Context, month string) ([]*models.Rating, Source, error) {
	from, to, err := timex.MonthBounds(month)
	if err != nil {
		return nil, SourceNone, common.ErrInvalidMonth
	}

	var (
		list   []*models.Rating
		source Source
		netErr error
	)

	if r.oracle.IsOnline() {
		list, netErr = r.client.ListMonth(ctx, month)
		if netErr == nil {
			source = SourceNetwork
			for _, rating := range list {
				r.remember(ctx, rating)
			}
		} else if errors.Is(netErr, client.ErrUnauthorized) {
			return nil, SourceNone, netErr
		} else {
			r.logger.Warn(ctx, "network month read failed, using cache", "month", month, "error", netErr)
		}
	}

	if source == "" {
		cached, err := r.cache.GetRange(ctx, from, to)
		if err != nil {
			if netErr != nil {
				return nil, SourceNone, netErr
			}
			return nil, SourceNone, err
		}
		list = make([]*models.Rating, 0, len(cached))
		for _, c := range cached {
			list = append(list, c.Rating())
		}
		source = SourceCache
	}

	return r.overlayPending(ctx, list, from, to), source, nil
}

func (r *Reconciler) overlayPending(ctx context.Context, list []*models.Rating, from, to string) []*models.Rating {
	queued, err := r.pending.GetAll(ctx)
	if err != nil {
		r.logger.Warn(ctx, "pending read failed", "error", err)
		return list
	}

	byDate := make(map[string]*models.Rating, len(list))
	for _, rating := range list {
		byDate[rating.Date] = rating
	}
	for _, w := range queued {
		if w.Date < from || w.Date > to {
			continue
		}
		byDate[w.Date] = pendingAsRating(w)
	}

	out := make([]*models.Rating, 0, len(byDate))
	for _, rating := range byDate {
		out = append(out, rating)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func pendingAsRating(w *models.PendingWrite) *models.Rating {
	return &models.Rating{Date: w.Date, Mood: w.Mood, Notes: w.Notes, UpdatedAt: w.EnqueuedAt}
}
