package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/presentation"
)

// Connectivity lets the program follow online/offline transitions.
type Connectivity interface {
	OnChange(fn func(online bool)) func()
}

// Run shows the program until the user quits or ctx is cancelled. Bus
// messages and connectivity transitions are forwarded into it.
func Run(ctx context.Context, state *presentation.State, syncer Syncer, b *bus.Bus, conn Connectivity) error {
	p := tea.NewProgram(NewModel(ctx, state, syncer), tea.WithAltScreen(), tea.WithContext(ctx))

	msgs, cancel := b.Subscribe()
	defer cancel()
	go func() {
		for m := range msgs {
			p.Send(BusMsg{m})
		}
	}()

	unsubscribe := conn.OnChange(func(online bool) {
		// Send blocks until the program reads it; keep the oracle moving
		go p.Send(ConnMsg{Online: online})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
