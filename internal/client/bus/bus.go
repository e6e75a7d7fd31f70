// Package bus carries messages from the background retry agent to the
// foreground. Delivery is fan-out and never blocks the publisher.
package bus

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/rateday/internal/logging"
)

type MessageType string

const (
	SyncComplete       MessageType = "SYNC_COMPLETE"
	PendingCountUpdate MessageType = "PENDING_COUNT_UPDATE"
)

// Message is one cross-context notification. SyncedCount and FailedCount
// belong to SYNC_COMPLETE, Count to PENDING_COUNT_UPDATE.
type Message struct {
	Type        MessageType `json:"type"`
	SyncedCount int         `json:"syncedCount"`
	FailedCount int         `json:"failedCount"`
	Count       int         `json:"count"`
}

func NewSyncComplete(synced, failed int) Message {
	return Message{Type: SyncComplete, SyncedCount: synced, FailedCount: failed}
}

func NewPendingCount(count int) Message {
	return Message{Type: PendingCountUpdate, Count: count}
}

// Publisher is the sending half, used by the reconciler and the agent.
type Publisher interface {
	Publish(ctx context.Context, m Message)
}

// subscriber holds one receive channel. carry accumulates SYNC_COMPLETE
// counts that found the channel full; they ride on the next delivery.
type subscriber struct {
	ch    chan Message
	carry *Message
}

type Bus struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	next   int
	buffer int
	logger logging.Logger
}

// New creates a bus whose subscribers buffer up to buffer messages.
func New(buffer int, logger logging.Logger) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Bus{
		subs:   make(map[int]*subscriber),
		buffer: buffer,
		logger: logger.With("module", "bus"),
	}
}

// Subscribe returns a receive channel and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, b.buffer)}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(sub.ch)
			b.mu.Unlock()
		})
	}
}

// Publish delivers m to every subscriber without blocking.
//
// A PENDING_COUNT_UPDATE that finds a full buffer is dropped; the next
// count replaces it. A SYNC_COMPLETE that finds a full buffer is kept
// per subscriber and its counts are added to the next SYNC_COMPLETE, so
// a sweep that synced something is never lost behind an empty one.
func (b *Bus) Publish(ctx context.Context, m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		b.deliver(ctx, id, sub, m)
	}
}

func (b *Bus) deliver(ctx context.Context, id int, sub *subscriber, m Message) {
	if sub.carry != nil {
		if m.Type == SyncComplete {
			m.SyncedCount += sub.carry.SyncedCount
			m.FailedCount += sub.carry.FailedCount
			sub.carry = nil
		} else {
			select {
			case sub.ch <- *sub.carry:
				sub.carry = nil
			default:
			}
		}
	}

	select {
	case sub.ch <- m:
		return
	default:
	}

	if m.Type == SyncComplete {
		carried := m
		sub.carry = &carried
		b.logger.Warn(ctx, "subscriber buffer full, sync result carried over", "subscriber", id, "synced", m.SyncedCount)
		return
	}
	b.logger.Warn(ctx, "subscriber buffer full, message dropped", "subscriber", id, "type", string(m.Type))
}
