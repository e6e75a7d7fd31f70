package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/rateday/internal/common"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// redraws so expired banners disappear
		return m, tick()

	case doneMsg:
		m.busy = false
		m.lastErr = msg.err
		return m, nil

	case BusMsg:
		message := msg.Message
		return m, m.do(func(ctx context.Context) error {
			m.state.HandleMessage(ctx, message)
			return nil
		})

	case ConnMsg:
		m.state.SetOnline(msg.Online)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateNotes(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Angry):
		return m.rate(common.MoodAngry)
	case key.Matches(msg, m.keys.Sad):
		return m.rate(common.MoodSad)
	case key.Matches(msg, m.keys.Average):
		return m.rate(common.MoodAverage)
	case key.Matches(msg, m.keys.Happy):
		return m.rate(common.MoodHappy)

	case key.Matches(msg, m.keys.Notes):
		m.editing = true
		m.notes.SetValue(m.state.Snapshot().Notes)
		m.notes.CursorEnd()
		return m, m.notes.Focus()

	case key.Matches(msg, m.keys.PrevDay):
		return m.action(func(ctx context.Context) error { return m.state.Shift(ctx, -1) })
	case key.Matches(msg, m.keys.NextDay):
		return m.action(func(ctx context.Context) error { return m.state.Shift(ctx, 1) })

	case key.Matches(msg, m.keys.Month):
		m.showMonth = !m.showMonth
		if m.showMonth {
			month := m.state.Snapshot().Month
			return m.action(func(ctx context.Context) error { return m.state.LoadMonth(ctx, month) })
		}
	case key.Matches(msg, m.keys.PrevMonth):
		if m.showMonth {
			return m.action(func(ctx context.Context) error { return m.state.ShiftMonth(ctx, -1) })
		}
	case key.Matches(msg, m.keys.NextMonth):
		if m.showMonth {
			return m.action(func(ctx context.Context) error { return m.state.ShiftMonth(ctx, 1) })
		}

	case key.Matches(msg, m.keys.Sync):
		m.lastErr = m.syncer.RequestSync(common.SyncTag)
	}

	return m, nil
}

func (m Model) rate(mood common.MoodLevel) (tea.Model, tea.Cmd) {
	return m.action(func(ctx context.Context) error { return m.state.SelectMood(ctx, mood) })
}

func (m Model) action(fn func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = true
	m.lastErr = nil
	return m, m.do(fn)
}

func (m Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.notes.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.editing = false
		m.notes.Blur()
		notes := m.notes.Value()
		return m.action(func(ctx context.Context) error { return m.state.SaveNotes(ctx, notes) })
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}
