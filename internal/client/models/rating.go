// Package models defines the client-side rating and export records.
package models

import (
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
)

// Rating is the authoritative record of one calendar day as returned by
// the server. Notes is empty when the day has no notes.
type Rating struct {
	Date      string
	Mood      common.MoodLevel
	Notes     string
	UpdatedAt time.Time
}

// PendingWrite is a rating the server has not acknowledged yet. There is
// at most one per Date; a newer write for the same day replaces it.
type PendingWrite struct {
	Date       string
	Mood       common.MoodLevel
	Notes      string
	EnqueuedAt time.Time
}

// CachedRating is the last known server state of a day, kept for
// offline reads.
type CachedRating struct {
	Date      string
	Mood      common.MoodLevel
	Notes     string
	UpdatedAt time.Time
	CachedAt  time.Time
}

// Rating converts the cached copy back to a Rating.
func (c *CachedRating) Rating() *Rating {
	return &Rating{Date: c.Date, Mood: c.Mood, Notes: c.Notes, UpdatedAt: c.UpdatedAt}
}

// NewCachedRating snapshots r at cachedAt.
func NewCachedRating(r *Rating, cachedAt time.Time) *CachedRating {
	return &CachedRating{Date: r.Date, Mood: r.Mood, Notes: r.Notes, UpdatedAt: r.UpdatedAt, CachedAt: cachedAt}
}
