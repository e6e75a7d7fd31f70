package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/client/presentation"
	"github.com/dmitrijs2005/rateday/internal/common"
)

var moods = []common.MoodLevel{common.MoodAngry, common.MoodSad, common.MoodAverage, common.MoodHappy}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.state.Snapshot()

	sections := []string{m.viewHeader(snap)}
	if snap.Status != "" {
		sections = append(sections, statusStyle.Render(snap.Status))
	}
	sections = append(sections, "", m.viewMoods(snap), "", m.viewNotes(snap))

	if m.showMonth {
		sections = append(sections, "", viewMonth(snap))
	}

	sections = append(sections, "", m.viewFeedback(snap), m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewHeader(snap presentation.Snapshot) string {
	title := snap.Date
	if d, err := common.ParseDate(snap.Date); err == nil {
		title = d.Format("Monday, January 2, 2006")
	}
	if snap.Date == snap.Today {
		title += " (today)"
	}
	return titleStyle.Render("rateday") + "  " + title
}

func (m Model) viewMoods(snap presentation.Snapshot) string {
	cells := make([]string, 0, len(moods))
	for _, mood := range moods {
		label := fmt.Sprintf("%d %s %s", mood, mood.Emoji(), mood)
		if mood == snap.Mood {
			cells = append(cells, selectedMoodStyle.Render(label))
		} else {
			cells = append(cells, moodStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) viewNotes(snap presentation.Snapshot) string {
	if m.editing {
		counter := dimStyle.Render(fmt.Sprintf("%d/%d", len([]rune(m.notes.Value())), common.MaxNotesLength))
		return "Notes: " + m.notes.View() + " " + counter
	}
	if snap.Notes == "" {
		return dimStyle.Render("No notes. Press n to add some.")
	}
	return "Notes: " + snap.Notes
}

func (m Model) viewFeedback(snap presentation.Snapshot) string {
	switch {
	case snap.Error != "":
		return errorStyle.Render(snap.Error)
	case m.lastErr != nil:
		return errorStyle.Render(m.lastErr.Error())
	case snap.Warning != "":
		return statusStyle.Render(snap.Warning)
	case snap.Banner != "":
		return bannerStyle.Render(snap.Banner)
	case m.busy:
		return dimStyle.Render("…")
	}
	return ""
}

// viewMonth renders a Monday-first calendar grid of the loaded month.
func viewMonth(snap presentation.Snapshot) string {
	first, err := common.ParseMonth(snap.Month)
	if err != nil {
		return ""
	}

	byDate := make(map[string]*models.Rating, len(snap.MonthRatings))
	for _, r := range snap.MonthRatings {
		byDate[r.Date] = r
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(first.Format("January 2006")))
	if snap.MonthSource != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", snap.MonthSource)))
	}
	b.WriteString("\n Mo  Tu  We  Th  Fr  Sa  Su\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))

	col := offset
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(common.DateLayout)
		cell := fmt.Sprintf("%3d ", d.Day())
		if r, ok := byDate[date]; ok {
			cell = fmt.Sprintf(" %s ", r.Mood.Emoji())
		}
		if date == snap.Date {
			cell = selectedMoodStyle.UnsetPadding().Render(cell)
		}
		b.WriteString(cell)

		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
