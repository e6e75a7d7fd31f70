package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/agent"
	"github.com/dmitrijs2005/rateday/internal/client/bus"
	"github.com/dmitrijs2005/rateday/internal/client/client"
	"github.com/dmitrijs2005/rateday/internal/client/config"
	"github.com/dmitrijs2005/rateday/internal/client/connectivity"
	"github.com/dmitrijs2005/rateday/internal/client/presentation"
	"github.com/dmitrijs2005/rateday/internal/client/services"
	"github.com/dmitrijs2005/rateday/internal/client/store"
	"github.com/dmitrijs2005/rateday/internal/client/tui"
	"github.com/dmitrijs2005/rateday/internal/filex"
	"github.com/dmitrijs2005/rateday/internal/logging"
)

// busBuffer is how many messages a slow subscriber may fall behind.
const busBuffer = 16

type App struct {
	config     *config.Config
	store      *store.Store
	api        client.Client
	oracle     *connectivity.Oracle
	bus        *bus.Bus
	agent      *agent.Agent
	reconciler *services.Reconciler
	state      *presentation.State
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer
	closeLog   func()
}

// NewApp opens the profile's store and log file, connects to the server
// and wires the foreground and background parts together. An empty
// access token is asked for on the terminal.
//
// A store that cannot be opened does not stop the client: it runs
// online-only and says so in the status line.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dbPath := store.DefaultPath(c.DataDir, c.Profile)

	logger, closeLog := openLog(filepath.Dir(dbPath), c.LogLevel)

	token := c.AccessToken
	if token == "" {
		t, err := getToken(os.Stdout)
		if err != nil {
			closeLog()
			return nil, err
		}
		token = t
	}

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			closeLog()
			return nil, err
		}
		logger.Error(ctx, "local store unavailable, running online-only", "path", dbPath, "error", err)
		st = store.Degraded(err)
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr, token, c.RequestTimeout)
	if err != nil {
		st.Close()
		closeLog()
		return nil, err
	}

	a := newApp(c, st, api, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.closeLog = closeLog
	logger.Info(ctx, "client started", "profile", c.Profile, "installation", st.InstallationID())
	return a, nil
}

// openLog appends to client.log in dir. When the file cannot be opened
// the client keeps running without a log.
func openLog(dir, level string) (logging.Logger, func()) {
	dir, err := filex.EnsurePrivateDir(dir)
	if err != nil {
		return logging.Nop{}, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "client.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logging.Nop{}, func() {}
	}
	return logging.New(f, "text", level), func() { _ = f.Close() }
}

func newApp(c *config.Config, st *store.Store, api client.Client, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	oracle := connectivity.NewOracle(false, logger)
	b := bus.New(busBuffer, logger)
	ag := agent.New(api, st.Pending(), st.Cache(), st.Metadata(), oracle, b, c.SweepInterval, logger)
	rec := services.NewReconciler(api, st.Pending(), st.Cache(), oracle, b, ag, logger)
	state := presentation.New(rec, oracle.IsOnline(), logger)
	if !st.Available() {
		state.SetStoreUnavailable()
	}
	oracle.OnChange(state.SetOnline)

	return &App{
		config:     c,
		store:      st,
		api:        api,
		oracle:     oracle,
		bus:        b,
		agent:      ag,
		reconciler: rec,
		state:      state,
		logger:     logger,
		reader:     reader,
		out:        out,
	}
}

// Run starts the connectivity watcher and the retry agent, then blocks in
// the chosen front end until the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	go a.oracle.Watch(ctx, a.config.OnlineCheckInterval, a.config.PingTimeout, a.api.Ping)
	go a.agent.Run(ctx)

	if err := a.state.RefreshPending(ctx); err != nil {
		a.logger.Warn(ctx, "pending count failed", "error", err)
	}

	if a.config.UI == config.UITUI {
		return tui.Run(ctx, a.state, a.agent, a.bus, a.oracle)
	}

	go a.followBus(ctx)
	a.Root(ctx)
	return nil
}

// followBus keeps the REPL's state in step with the agent and tells the
// user when queued ratings reached the server.
func (a *App) followBus(ctx context.Context) {
	msgs, cancel := a.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			a.state.HandleMessage(ctx, m)
			if m.Type == bus.SyncComplete && m.SyncedCount > 0 {
				printlnFn(fmt.Sprintf("\n%s (%d synced)", presentation.MsgSynced, m.SyncedCount))
			}
		}
	}
}

func (a *App) Close() {
	if err := a.api.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing connection failed", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing store failed", "error", err)
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

func (a *App) lastSweep(ctx context.Context) string {
	t, err := a.agent.LastSweepAt(ctx)
	if err != nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}
