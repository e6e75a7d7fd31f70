package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/presentation"
	"github.com/dmitrijs2005/rateday/internal/client/services"
	"github.com/dmitrijs2005/rateday/internal/common"
)

var errUsage = errors.New("wrong arguments, type 'help' for usage")

// Rate sets the mood of today or of the day given as second argument.
func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	mood, err := common.ParseMoodLevel(args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		if err := a.state.Load(ctx, args[1]); err != nil {
			return err
		}
	}

	if err := a.state.SelectMood(ctx, mood); err != nil {
		return err
	}
	a.printFeedback()
	return nil
}

// Note sets the notes of the shown day. Without arguments it prompts.
func (a *App) Note(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = getSimpleText(a.reader, "Notes (up to 280 characters)", a.out)
		if err != nil {
			return err
		}
	}

	if err := a.state.SaveNotes(ctx, text); err != nil {
		return err
	}

	if a.state.Snapshot().Mood == 0 {
		fmt.Fprintln(a.out, "Notes kept. They are saved together with your rating.")
		return nil
	}
	a.printFeedback()
	return nil
}

// Show prints the shown day, or loads and prints the given one.
func (a *App) Show(ctx context.Context, args []string) error {
	date := a.state.Snapshot().Date
	if len(args) > 0 {
		date = args[0]
	}
	if err := a.state.Load(ctx, date); err != nil {
		return err
	}
	a.printDay(a.state.Snapshot())
	return nil
}

func (a *App) Month(ctx context.Context, args []string) error {
	month := a.state.Snapshot().Month
	if len(args) > 0 {
		month = args[0]
	}
	if err := a.state.LoadMonth(ctx, month); err != nil {
		return err
	}

	snap := a.state.Snapshot()
	first, _ := common.ParseMonth(snap.Month)
	header := first.Format("January 2006")
	if snap.MonthSource == services.SourceCache {
		header += " (offline copy)"
	}
	fmt.Fprintln(a.out, header)

	if len(snap.MonthRatings) == 0 {
		fmt.Fprintln(a.out, "  no ratings")
		return nil
	}
	for _, r := range snap.MonthRatings {
		line := fmt.Sprintf("  %s  %s %-7s", r.Date, r.Mood.Emoji(), r.Mood)
		if r.Notes != "" {
			line += "  " + r.Notes
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) Pending(ctx context.Context) error {
	list, err := a.reconciler.PendingWrites(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Nothing waiting to sync.")
		return nil
	}
	for _, w := range list {
		fmt.Fprintf(a.out, "  %s  %s %-7s  queued %s\n", w.Date, w.Mood.Emoji(), w.Mood, w.EnqueuedAt.Local().Format(time.DateTime))
	}
	return nil
}

// Sync drains the queue now when online; offline it leaves a request for
// the agent.
func (a *App) Sync(ctx context.Context) error {
	if !a.oracle.IsOnline() {
		if err := a.agent.RequestSync(common.SyncTag); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Offline. Will sync when the connection is back.")
		return nil
	}

	res, err := a.agent.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Synced: %d, failed: %d\n", res.Synced, res.Failed)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	snap := a.state.Snapshot()
	conn := "online"
	if !snap.Online {
		conn = "offline"
	}

	fmt.Fprintf(a.out, "Server:       %s (%s)\n", a.config.ServerEndpointAddr, conn)
	fmt.Fprintf(a.out, "Pending:      %d\n", snap.Pending)
	fmt.Fprintf(a.out, "Last sync:    %s\n", a.lastSweep(ctx))
	fmt.Fprintf(a.out, "Profile:      %s\n", a.config.Profile)
	fmt.Fprintf(a.out, "Installation: %s\n", a.store.InstallationID())
	return nil
}

// Delete removes the rating of the shown day or of the given one.
func (a *App) Delete(ctx context.Context, args []string) error {
	date := a.state.Snapshot().Date
	if len(args) > 0 {
		date = args[0]
	}
	if err := a.reconciler.Delete(ctx, date); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return a.state.Load(ctx, date)
}

func (a *App) printFeedback() {
	snap := a.state.Snapshot()
	if snap.Warning != "" {
		fmt.Fprintln(a.out, "Warning:", snap.Warning)
	}
	if snap.Banner != "" {
		fmt.Fprintln(a.out, snap.Banner)
	}
}

func (a *App) printDay(snap presentation.Snapshot) {
	title := snap.Date
	if d, err := common.ParseDate(snap.Date); err == nil {
		title = d.Format("Monday, January 2, 2006")
	}
	if snap.Date == snap.Today {
		title += " (today)"
	}
	fmt.Fprintln(a.out, title)

	if snap.Mood == 0 {
		fmt.Fprintln(a.out, "  not rated yet")
	} else {
		line := fmt.Sprintf("  %s %s", snap.Mood.Emoji(), snap.Mood)
		if snap.Source == services.SourcePending {
			line += " (waiting to sync)"
		}
		fmt.Fprintln(a.out, line)
	}
	if snap.Notes != "" {
		fmt.Fprintln(a.out, "  Notes:", snap.Notes)
	}
	if snap.Status != "" {
		fmt.Fprintln(a.out, " ", snap.Status)
	}
}
