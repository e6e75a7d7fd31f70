package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	snap := a.state.Snapshot()
	s := "online"
	if !snap.Online {
		s = "offline"
	}
	if snap.Pending > 0 {
		s = fmt.Sprintf("%s · %d pending", s, snap.Pending)
	}
	if snap.StoreUnavailable {
		s += " · no offline support"
	}
	if a.config != nil && a.config.Profile != "" && a.config.Profile != "default" {
		s = a.config.Profile + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the REPL on stdin until the user leaves.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to rateday (type 'help' for commands)")
	if err := a.Show(ctx, nil); err != nil {
		printlnFn("Error:", err)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
