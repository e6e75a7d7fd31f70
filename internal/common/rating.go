package common

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MoodLevel is the 4-point rating of a day.
type MoodLevel int

const (
	MoodAngry   MoodLevel = 1
	MoodSad     MoodLevel = 2
	MoodAverage MoodLevel = 3
	MoodHappy   MoodLevel = 4
)

// Valid reports whether m is within 1..4.
func (m MoodLevel) Valid() bool {
	return m >= MoodAngry && m <= MoodHappy
}

func (m MoodLevel) String() string {
	switch m {
	case MoodAngry:
		return "angry"
	case MoodSad:
		return "sad"
	case MoodAverage:
		return "average"
	case MoodHappy:
		return "happy"
	default:
		return "unrated"
	}
}

// ParseMoodLevel accepts a level number ("1".."4") or its name.
func ParseMoodLevel(s string) (MoodLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m := MoodAngry; m <= MoodHappy; m++ {
		if s == m.String() || s == strconv.Itoa(int(m)) {
			return m, nil
		}
	}
	return 0, ErrInvalidMood
}

// Emoji returns the symbol used by the calendar views.
func (m MoodLevel) Emoji() string {
	switch m {
	case MoodAngry:
		return "😠"
	case MoodSad:
		return "😢"
	case MoodAverage:
		return "😐"
	case MoodHappy:
		return "😊"
	default:
		return "·"
	}
}

// ParseDate parses a YYYY-MM-DD calendar day. Values such as 2024-02-30
// are rejected rather than normalized.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil || d.Format(DateLayout) != s {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParseMonth parses a YYYY-MM month and returns its first day.
func ParseMonth(s string) (time.Time, error) {
	m, err := time.Parse(MonthLayout, s)
	if err != nil || m.Format(MonthLayout) != s {
		return time.Time{}, ErrInvalidMonth
	}
	return m, nil
}

// NormalizeNotes trims surrounding whitespace; whitespace-only notes
// are treated as absent.
func NormalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}

// ValidateRating checks the client-side rating rules. It does not reject
// future dates: the calendar day boundary is decided by the server.
func ValidateRating(date string, mood MoodLevel, notes string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if !mood.Valid() {
		return ErrInvalidMood
	}
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// FutureDateSlack is how many days past its own local today a client may
// date a rating. The server decides "today" in its reminder timezone,
// which can be a day ahead of the client.
const FutureDateSlack = 1

// ValidateRatingNear applies ValidateRating and rejects dates more than
// FutureDateSlack days after today in now's location.
func ValidateRatingNear(date string, mood MoodLevel, notes string, now time.Time) error {
	if err := ValidateRating(date, mood, notes); err != nil {
		return err
	}
	if date > now.AddDate(0, 0, FutureDateSlack).Format(DateLayout) {
		return ErrFutureDate
	}
	return nil
}

// ValidateRatingAt applies ValidateRating and additionally rejects dates
// after today, where today is taken in loc.
func ValidateRatingAt(date string, mood MoodLevel, notes string, now time.Time, loc *time.Location) error {
	if err := ValidateRating(date, mood, notes); err != nil {
		return err
	}
	if date > now.In(loc).Format(DateLayout) {
		return ErrFutureDate
	}
	return nil
}
