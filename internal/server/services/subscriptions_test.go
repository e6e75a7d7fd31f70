package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionService(devMode bool) (*SubscriptionService, *fakeManager, *fakeSender) {
	m := newFakeManager()
	sender := &fakeSender{fail: map[string]error{}}
	s := NewSubscriptionService(m, sender, devMode, logging.Nop{})
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, m, sender
}

func TestSubscribe(t *testing.T) {
	s, m, _ := newSubscriptionService(false)
	ctx := context.Background()

	_, err := s.Subscribe(ctx, "alice", "https://push.example/1", "k1", "a1")
	require.NoError(t, err)
	_, err = s.Subscribe(ctx, "alice", "https://push.example/2", "k2", "a2")
	require.NoError(t, err)

	require.Len(t, m.subs.rows, 1)
	assert.Equal(t, "https://push.example/2", m.subs.rows["alice"].Endpoint)
}

func TestSubscribe_InvalidTarget(t *testing.T) {
	s, m, _ := newSubscriptionService(false)
	ctx := context.Background()

	cases := [][3]string{
		{"", "k", "a"},
		{"not a url", "k", "a"},
		{"ftp://push.example/1", "k", "a"},
		{"https://push.example/1", "", "a"},
		{"https://push.example/1", "k", ""},
	}
	for _, c := range cases {
		_, err := s.Subscribe(ctx, "alice", c[0], c[1], c[2])
		assert.ErrorIs(t, err, common.ErrInvalidTarget, c[0])
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
	assert.Empty(t, m.subs.rows)
}

func TestUnsubscribe(t *testing.T) {
	s, m, _ := newSubscriptionService(false)
	addSub(m, "alice")

	require.NoError(t, s.Unsubscribe(context.Background(), "alice"))
	assert.ErrorIs(t, s.Unsubscribe(context.Background(), "alice"), common.ErrorNotFound)
}

func TestSendTest(t *testing.T) {
	t.Run("dev mode only", func(t *testing.T) {
		s, m, sender := newSubscriptionService(false)
		addSub(m, "alice")

		assert.ErrorIs(t, s.SendTest(context.Background(), "alice"), common.ErrDevOnly)
		assert.Zero(t, sender.sentCount())
	})

	t.Run("no subscription", func(t *testing.T) {
		s, _, _ := newSubscriptionService(true)
		assert.ErrorIs(t, s.SendTest(context.Background(), "alice"), common.ErrorNotFound)
	})

	t.Run("delivered", func(t *testing.T) {
		s, m, sender := newSubscriptionService(true)
		addSub(m, "alice")

		require.NoError(t, s.SendTest(context.Background(), "alice"))
		require.Len(t, sender.payloads, 1)
		assert.Equal(t, "test-notification", sender.payloads[0].Tag)
		assert.Equal(t, "2025-03-01T12:00:00Z", sender.payloads[0].Data["timestamp"])
	})

	t.Run("gone subscription removed", func(t *testing.T) {
		s, m, sender := newSubscriptionService(true)
		addSub(m, "alice")
		sender.fail["https://push.example/alice"] = &push.DeliveryError{StatusCode: 410}

		err := s.SendTest(context.Background(), "alice")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.False(t, m.subs.has("alice"))
	})

	t.Run("other failure kept", func(t *testing.T) {
		s, m, sender := newSubscriptionService(true)
		addSub(m, "alice")
		boom := errors.New("boom")
		sender.fail["https://push.example/alice"] = boom

		assert.ErrorIs(t, s.SendTest(context.Background(), "alice"), boom)
		assert.True(t, m.subs.has("alice"))
	})
}
