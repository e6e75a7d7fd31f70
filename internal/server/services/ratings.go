// Package services contains the server-side business logic: the rating
// store rules, push subscriptions, the daily reminder sweep and monthly
// exports.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rateday/internal/timex"
)

// RatingService applies the rating rules before touching storage. The
// calendar day boundary is taken in loc, the reminder timezone.
type RatingService struct {
	repomanager repomanager.RepositoryManager
	loc         *time.Location
	now         func() time.Time
	logger      logging.Logger
}

func NewRatingService(m repomanager.RepositoryManager, loc *time.Location, logger logging.Logger) *RatingService {
	return &RatingService{
		repomanager: m,
		loc:         loc,
		now:         time.Now,
		logger:      logger.With("module", "ratings"),
	}
}

// Upsert stores the rating for (principalID, date), overwriting any earlier
// one. Whitespace-only notes are stored as absent.
func (s *RatingService) Upsert(ctx context.Context, principalID, date string, mood common.MoodLevel, notes string) (*models.Rating, error) {
	notes = common.NormalizeNotes(notes)
	now := s.now()

	if err := common.ValidateRatingAt(date, mood, notes, now, s.loc); err != nil {
		return nil, err
	}

	stored, err := s.repomanager.Ratings().Upsert(ctx, &models.Rating{
		PrincipalID: principalID,
		Date:        date,
		Mood:        int(mood),
		Notes:       notes,
		UpdatedAt:   now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "rating stored", "principal", principalID, "date", date)
	return stored, nil
}

func (s *RatingService) Get(ctx context.Context, principalID, date string) (*models.Rating, error) {
	if _, err := common.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repomanager.Ratings().Get(ctx, principalID, date)
}

// ListMonth returns the month's ratings ascending by date.
func (s *RatingService) ListMonth(ctx context.Context, principalID, month string) ([]models.Rating, error) {
	if _, err := common.ParseMonth(month); err != nil {
		return nil, err
	}
	from, to, err := timex.MonthBounds(month)
	if err != nil {
		return nil, common.ErrInvalidMonth
	}
	return s.repomanager.Ratings().ListRange(ctx, principalID, from, to)
}

func (s *RatingService) Delete(ctx context.Context, principalID, date string) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	return s.repomanager.Ratings().Delete(ctx, principalID, date)
}

// Today is the current calendar day in the service's timezone.
func (s *RatingService) Today() string {
	return timex.Today(s.now(), s.loc)
}
