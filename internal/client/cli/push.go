package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/rateday/internal/client/services"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/netx"
)

// downloadFn is a test seam for netx.DownloadFromPresignedURL.
var downloadFn = netx.DownloadFromPresignedURL

// Export asks the server for a month export. With a file argument the
// export is downloaded there, otherwise its link is printed.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	if _, err := common.ParseMonth(args[0]); err != nil {
		return err
	}
	if !a.oracle.IsOnline() {
		return services.ErrOffline
	}

	exp, err := a.api.ExportMonth(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d ratings.\n", exp.Count)

	if len(args) == 1 {
		fmt.Fprintln(a.out, "Download (valid for 15 minutes):", exp.URL)
		return nil
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	n, err := downloadFn(ctx, exp.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, args[1])
	return nil
}

// Subscribe registers a push endpoint for the daily reminder.
func (a *App) Subscribe(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	if err := a.api.SubscribePush(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Daily reminders enabled.")
	return nil
}

func (a *App) Unsubscribe(ctx context.Context) error {
	if err := a.api.UnsubscribePush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Daily reminders disabled.")
	return nil
}

func (a *App) TestPush(ctx context.Context) error {
	if err := a.api.SendTestPush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Test reminder sent.")
	return nil
}
