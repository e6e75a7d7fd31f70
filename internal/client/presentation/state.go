// Package presentation keeps the foreground view of one day: the
// optimistic mood and notes, transient banners and the offline/pending
// status line. Front ends render Snapshot and forward user intents.
package presentation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/client"
	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/client/services"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/timex"
)

const (
	SavedFor        = 2 * time.Second
	SavedOfflineFor = 3 * time.Second
	SyncedFor       = 3 * time.Second
)

const (
	MsgSaved        = "Rating saved!"
	MsgSavedOffline = "Saved offline. Will sync when online."
	MsgSynced       = "Changes synced successfully!"

	MsgNoOfflineSupport = "Offline support unavailable"
)

// Reconciler is what the presentation needs from services.Reconciler.
type Reconciler interface {
	Submit(ctx context.Context, in services.Intent) (services.Outcome, error)
	ReadRating(ctx context.Context, date string, pref services.ReadPreference) (*models.Rating, services.Source, error)
	ReadMonth(ctx context.Context, month string) ([]*models.Rating, services.Source, error)
	PendingCount(ctx context.Context) (int, error)
}

type banner struct {
	text  string
	until time.Time
}

// Snapshot is an immutable copy of the state for rendering.
type Snapshot struct {
	Date    string
	Today   string
	Mood    common.MoodLevel
	Notes   string
	Source  services.Source
	Error   string
	Warning string
	Banner  string
	Online  bool
	Pending int
	Status  string

	// StoreUnavailable is set when ratings cannot be kept offline.
	StoreUnavailable bool

	Month        string
	MonthRatings []*models.Rating
	MonthSource  services.Source
}

type State struct {
	mu     sync.Mutex
	rec    Reconciler
	logger logging.Logger
	now    func() time.Time
	loc    *time.Location

	date    string
	mood    common.MoodLevel
	notes   string
	source  services.Source
	err     string
	warning string
	banner  banner
	online  bool
	pending int

	storeUnavailable bool

	month        string
	monthRatings []*models.Rating
	monthSource  services.Source
}

func New(rec Reconciler, online bool, logger logging.Logger) *State {
	if logger == nil {
		logger = logging.Nop{}
	}
	s := &State{
		rec:    rec,
		logger: logger.With("module", "presentation"),
		now:    time.Now,
		loc:    time.Local,
		online: online,
	}
	s.date = timex.Today(s.now(), s.loc)
	s.month = timex.MonthOf(s.date)
	return s
}

// Snapshot returns the state as of now; expired banners are dropped.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.banner.until.IsZero() && !now.Before(s.banner.until) {
		s.banner = banner{}
	}

	return Snapshot{
		Date:         s.date,
		Today:        timex.Today(now, s.loc),
		Mood:         s.mood,
		Notes:        s.notes,
		Source:       s.source,
		Error:        s.err,
		Warning:      s.warning,
		Banner:       s.banner.text,
		Online:       s.online,
		Pending:      s.pending,
		Status:       statusLine(s.online, s.pending, s.storeUnavailable),
		Month:        s.month,
		MonthRatings: append([]*models.Rating(nil), s.monthRatings...),
		MonthSource:  s.monthSource,

		StoreUnavailable: s.storeUnavailable,
	}
}

// statusLine is the persistent banner shown while offline or while
// writes are queued.
func statusLine(online bool, pending int, storeUnavailable bool) string {
	var line string
	switch {
	case !online && pending > 0:
		line = fmt.Sprintf("You're offline · %d pending", pending)
	case !online:
		line = "You're offline"
	case pending > 0:
		line = fmt.Sprintf("%d pending", pending)
	}

	if storeUnavailable {
		if line == "" {
			return MsgNoOfflineSupport
		}
		return line + " · " + MsgNoOfflineSupport
	}
	return line
}

func (s *State) showBanner(text string, d time.Duration) {
	s.banner = banner{text: text, until: s.now().Add(d)}
}

// Load displays date, reading it network-first with a cache fallback.
// Days that cannot be rated yet are refused.
func (s *State) Load(ctx context.Context, date string) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	if date > timex.AddDays(timex.Today(s.now(), s.loc), common.FutureDateSlack) {
		return common.ErrFutureDate
	}

	r, src, err := s.rec.ReadRating(ctx, date, services.NetworkFirst)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.date = date
	s.err = ""
	s.warning = ""
	if err != nil {
		s.logger.Error(ctx, "load failed", "date", date, "error", err)
		s.err = userMessage(err, "Failed to load your rating. Please try again.")
		s.apply(nil, services.SourceNone)
		return err
	}
	s.apply(r, src)
	return nil
}

// Shift moves the displayed day by n days. Days after today are not shown.
func (s *State) Shift(ctx context.Context, n int) error {
	s.mu.Lock()
	target := timex.AddDays(s.date, n)
	today := timex.Today(s.now(), s.loc)
	s.mu.Unlock()

	if target > today {
		target = today
	}
	return s.Load(ctx, target)
}

// apply must be called with mu held.
func (s *State) apply(r *models.Rating, src services.Source) {
	s.source = src
	if r == nil {
		s.mood = 0
		s.notes = ""
		return
	}
	s.mood = r.Mood
	s.notes = r.Notes
}

// SelectMood optimistically shows mood for the displayed day and submits it
// together with the current notes.
func (s *State) SelectMood(ctx context.Context, mood common.MoodLevel) error {
	s.mu.Lock()
	date, notes := s.date, s.notes
	s.mood = mood
	s.err = ""
	s.warning = ""
	s.banner = banner{}
	s.mu.Unlock()

	return s.submit(ctx, services.Intent{Date: date, Mood: mood, Notes: notes})
}

// SaveNotes stores notes for the displayed day. Without a selected mood
// the notes stay in the view only; they are sent with the next rating.
func (s *State) SaveNotes(ctx context.Context, notes string) error {
	s.mu.Lock()
	date, mood := s.date, s.mood
	s.err = ""
	s.warning = ""
	if mood == 0 {
		s.notes = common.NormalizeNotes(notes)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.submit(ctx, services.Intent{Date: date, Mood: mood, Notes: notes})
}

func (s *State) submit(ctx context.Context, in services.Intent) error {
	out, err := s.rec.Submit(ctx, in)
	if err != nil {
		s.logger.Warn(ctx, "save failed", "date", in.Date, "error", err)
		s.mu.Lock()
		s.err = userMessage(err, "Failed to save your rating. Please try again.")
		s.mu.Unlock()
		s.revert(ctx, in.Date)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.date != in.Date {
		// the user moved on while the write was in flight
		return nil
	}

	switch out.State {
	case services.StateCommitted:
		s.apply(out.Rating, services.SourceNetwork)
		s.showBanner(MsgSaved, SavedFor)
	case services.StateQueued:
		s.notes = common.NormalizeNotes(in.Notes)
		s.source = services.SourcePending
		s.pending = out.Pending
		s.showBanner(MsgSavedOffline, SavedOfflineFor)
	case services.StateDegraded:
		s.notes = common.NormalizeNotes(in.Notes)
		s.warning = out.Warning
	}
	return nil
}

// revert replaces the optimistic values of date with the stored ones,
// cache first.
func (s *State) revert(ctx context.Context, date string) {
	r, src, err := s.rec.ReadRating(ctx, date, services.CacheFirst)
	if err != nil {
		s.logger.Warn(ctx, "revert read failed", "date", date, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.date != date {
		return
	}
	if err != nil {
		// keep the notes the user typed, drop the unconfirmed mood
		s.mood = 0
		s.source = services.SourceNone
		return
	}
	s.apply(r, src)
}

func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.Is(err, client.ErrRejected):
		return err.Error()
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired. Sign in again with a new access token."
	}
	return fallback
}

// HandleMessage applies a message from the background agent.
func (s *State) HandleMessage(ctx context.Context, m bus.Message) {
	switch m.Type {
	case bus.PendingCountUpdate:
		s.mu.Lock()
		s.pending = m.Count
		s.mu.Unlock()

	case bus.SyncComplete:
		if m.SyncedCount == 0 {
			return
		}
		s.mu.Lock()
		date, month, hasMonth := s.date, s.month, s.monthRatings != nil
		if s.online {
			s.showBanner(MsgSynced, SyncedFor)
		}
		s.mu.Unlock()

		if n, err := s.rec.PendingCount(ctx); err == nil {
			s.mu.Lock()
			s.pending = n
			s.mu.Unlock()
		}

		if err := s.Load(ctx, date); err != nil {
			s.logger.Warn(ctx, "refresh after sync failed", "date", date, "error", err)
		}
		if hasMonth {
			if err := s.LoadMonth(ctx, month); err != nil {
				s.logger.Warn(ctx, "month refresh after sync failed", "month", month, "error", err)
			}
		}

	default:
		s.logger.Warn(ctx, "unknown message", "type", m.Type)
	}
}

// SetOnline records a connectivity transition.
func (s *State) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// SetStoreUnavailable marks the local store as unusable for the rest of
// the session; the status line keeps saying so.
func (s *State) SetStoreUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeUnavailable = true
}

// RefreshPending reloads the pending count from the store.
func (s *State) RefreshPending(ctx context.Context) error {
	n, err := s.rec.PendingCount(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = n
	s.mu.Unlock()
	return nil
}

// LoadMonth loads the calendar of month ("2006-01").
func (s *State) LoadMonth(ctx context.Context, month string) error {
	list, src, err := s.rec.ReadMonth(ctx, month)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*models.Rating{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.month = month
	s.monthRatings = list
	s.monthSource = src
	return nil
}

// ShiftMonth loads the month n months away from the displayed one.
func (s *State) ShiftMonth(ctx context.Context, n int) error {
	s.mu.Lock()
	target := timex.ShiftMonth(s.month, n)
	s.mu.Unlock()
	return s.LoadMonth(ctx, target)
}
