// Package tui is the terminal front end of the client: a bubbletea view
// over presentation.State.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/presentation"
	"github.com/dmitrijs2005/rateday/internal/common"
)

const refreshEvery = 250 * time.Millisecond

// Syncer triggers a background sweep.
type Syncer interface {
	RequestSync(tag string) error
}

// BusMsg carries a message from the retry agent into the program.
type BusMsg struct{ bus.Message }

// ConnMsg reports a connectivity transition.
type ConnMsg struct{ Online bool }

// doneMsg ends an asynchronous action; err is shown in the footer.
type doneMsg struct{ err error }

type tickMsg time.Time

type Model struct {
	ctx    context.Context
	state  *presentation.State
	syncer Syncer

	keys      KeyMap
	help      help.Model
	notes     textinput.Model
	editing   bool
	showMonth bool
	busy      bool
	lastErr   error
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, state *presentation.State, syncer Syncer) Model {
	ti := textinput.New()
	ti.Placeholder = "How was your day?"
	ti.CharLimit = common.MaxNotesLength
	ti.Width = 60

	return Model{
		ctx:    ctx,
		state:  state,
		syncer: syncer,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		notes:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	date := m.state.Snapshot().Date
	return tea.Batch(m.do(func(ctx context.Context) error {
		return m.state.Load(ctx, date)
	}), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// do runs fn off the update loop and reports back with a doneMsg.
func (m Model) do(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: fn(ctx)}
	}
}
