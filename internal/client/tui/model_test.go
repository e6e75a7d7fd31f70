package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/client/presentation"
	"github.com/dmitrijs2005/rateday/internal/client/services"
	"github.com/dmitrijs2005/rateday/internal/common"
)

type fakeReconciler struct {
	presentation.Reconciler

	submitted []services.Intent
	month     []*models.Rating
}

func (f *fakeReconciler) Submit(ctx context.Context, in services.Intent) (services.Outcome, error) {
	f.submitted = append(f.submitted, in)
	return services.Outcome{
		State:  services.StateCommitted,
		Rating: &models.Rating{Date: in.Date, Mood: in.Mood, Notes: in.Notes},
	}, nil
}

func (f *fakeReconciler) ReadRating(ctx context.Context, date string, pref services.ReadPreference) (*models.Rating, services.Source, error) {
	return nil, services.SourceNone, nil
}

func (f *fakeReconciler) ReadMonth(ctx context.Context, month string) ([]*models.Rating, services.Source, error) {
	return f.month, services.SourceCache, nil
}

func (f *fakeReconciler) PendingCount(ctx context.Context) (int, error) { return 0, nil }

type fakeSyncer struct{ tags []string }

func (f *fakeSyncer) RequestSync(tag string) error {
	f.tags = append(f.tags, tag)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *fakeReconciler, *fakeSyncer) {
	t.Helper()
	rec := &fakeReconciler{}
	syncer := &fakeSyncer{}
	return NewModel(context.Background(), presentation.New(rec, true, nil), syncer), rec, syncer
}

// press sends msg and runs the returned command once, feeding its
// doneMsg back like the program would.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if done, ok := cmd().(doneMsg); ok {
		next, _ = m.Update(done)
		m = next.(Model)
	}
	return m
}

func TestRateKeySubmitsAndShowsBanner(t *testing.T) {
	m, rec, _ := newTestModel(t)

	m = press(t, m, runes("3"))
	require.Len(t, rec.submitted, 1)
	assert.Equal(t, common.MoodAverage, rec.submitted[0].Mood)

	view := m.View()
	assert.Contains(t, view, presentation.MsgSaved)
	assert.Contains(t, view, "average")
}

func TestNotesEditing(t *testing.T) {
	m, rec, _ := newTestModel(t)

	next, _ := m.Update(runes("n"))
	m = next.(Model)
	assert.True(t, m.editing)

	next, _ = m.Update(runes("long walk"))
	m = next.(Model)
	assert.Contains(t, m.View(), "9/280")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	// no mood yet, so nothing is sent
	assert.Empty(t, rec.submitted)
	assert.Contains(t, m.View(), "Notes: long walk")

	m = press(t, m, runes("4"))
	require.Len(t, rec.submitted, 1)
	assert.Equal(t, "long walk", rec.submitted[0].Notes)
}

func TestNotesEditingCancel(t *testing.T) {
	m, rec, _ := newTestModel(t)

	next, _ := m.Update(runes("n"))
	m = next.(Model)
	next, _ = m.Update(runes("draft"))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.False(t, m.editing)
	assert.Empty(t, rec.submitted)
	assert.NotContains(t, m.View(), "draft")
}

func TestSyncKey(t *testing.T) {
	m, _, syncer := newTestModel(t)
	m = press(t, m, runes("s"))
	assert.Equal(t, []string{common.SyncTag}, syncer.tags)
}

func TestConnectivityAndPendingStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(ConnMsg{Online: false})
	m = next.(Model)
	m = press(t, m, BusMsg{bus.NewPendingCount(2)})

	assert.Contains(t, m.View(), "You're offline · 2 pending")
}

func TestMonthView(t *testing.T) {
	m, rec, _ := newTestModel(t)
	month := m.state.Snapshot().Month
	rec.month = []*models.Rating{{Date: month + "-01", Mood: common.MoodHappy}}

	m = press(t, m, runes("m"))
	assert.True(t, m.showMonth)
	view := m.View()
	assert.Contains(t, view, "Mo  Tu")
	assert.Contains(t, view, common.MoodHappy.Emoji())
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}
