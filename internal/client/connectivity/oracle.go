// Package connectivity tells the client whether the server is reachable.
//
// The Oracle is best-effort: IsOnline may say true while a request still
// fails, so callers treat it as a hint and keep their own error handling.
package connectivity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/rateday/internal/logging"
)

// Probe checks reachability; nil means online.
type Probe func(ctx context.Context) error

type Oracle struct {
	mu        sync.Mutex
	online    bool
	listeners map[int]func(online bool)
	nextID    int
	logger    logging.Logger
}

func NewOracle(initial bool, logger logging.Logger) *Oracle {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Oracle{
		online:    initial,
		listeners: make(map[int]func(bool)),
		logger:    logger.With("module", "connectivity"),
	}
}

func (o *Oracle) IsOnline() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// OnChange registers fn for online/offline transitions and returns a
// function that removes it. fn runs on the goroutine that observed the
// transition and must not block.
func (o *Oracle) OnChange(fn func(online bool)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Set records the current state and notifies listeners when it changed.
func (o *Oracle) Set(online bool) {
	o.mu.Lock()
	if o.online == online {
		o.mu.Unlock()
		return
	}
	o.online = online

	ids := make([]int, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.listeners[id])
	}
	o.mu.Unlock()

	mode := "offline"
	if online {
		mode = "online"
	}
	o.logger.Info(context.Background(), "switched to "+mode+" mode")

	for _, fn := range fns {
		fn(online)
	}
}

// Watch probes once right away and then every interval until ctx is done.
// Each probe is bounded by timeout.
func (o *Oracle) Watch(ctx context.Context, interval, timeout time.Duration, probe Probe) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := probe(pctx)
		cancel()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			o.logger.Debug(ctx, "probe failed", "error", err)
		}
		o.Set(err == nil)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
