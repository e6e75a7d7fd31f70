package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Rate      key.Binding
	Angry     key.Binding
	Sad       key.Binding
	Average   key.Binding
	Happy     key.Binding
	Notes     key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Month     key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Sync      key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rate, k.Notes, k.PrevDay, k.NextDay, k.Month, k.Sync, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Angry, k.Sad, k.Average, k.Happy},
		{k.Notes, k.Save, k.Cancel},
		{k.PrevDay, k.NextDay, k.Month, k.PrevMonth, k.NextMonth},
		{k.Sync, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "rate"),
		),
		Angry: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "angry"),
		),
		Sad: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sad"),
		),
		Average: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "average"),
		),
		Happy: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "happy"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notes"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Month: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "calendar"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync now"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save notes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
