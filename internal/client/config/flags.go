package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/rateday/internal/flagx"
)

var knownFlags = []string{"-a", "-i", "-s", "-d", "-p", "-t", "-ui", "-log-level"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          address and port of the backend server
//	-i int             online check interval in seconds
//	-s duration        background sync interval (e.g. 1m)
//	-d string          data directory
//	-p string          profile name
//	-t string          access token
//	-ui string         front end: repl or tui
//	-log-level string  debug, info, warn or error
//
// It panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.SweepInterval, "s", cfg.SweepInterval, "background sync interval")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Profile, "p", cfg.Profile, "profile name")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "front end: repl or tui")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second

	if cfg.UI != UIRepl && cfg.UI != UITUI {
		panic(fmt.Sprintf("unknown ui %q, want %q or %q", cfg.UI, UIRepl, UITUI))
	}
}
