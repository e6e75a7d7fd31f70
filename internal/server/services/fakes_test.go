package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/dmitrijs2005/rateday/internal/server/push"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/subscriptions"
)

type fakeManager struct {
	repomanager.RepositoryManager
	ratings *memRatings
	subs    *memSubs
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		ratings: &memRatings{rows: map[string]models.Rating{}},
		subs:    &memSubs{rows: map[string]models.PushSubscription{}},
	}
}

func (m *fakeManager) Ratings() ratings.Repository             { return m.ratings }
func (m *fakeManager) Subscriptions() subscriptions.Repository { return m.subs }

type memRatings struct {
	mu      sync.Mutex
	rows    map[string]models.Rating
	getErr  error
	listErr error
}

func ratingKey(principalID, date string) string { return principalID + "|" + date }

func (r *memRatings) Upsert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *rating
	if prev, ok := r.rows[ratingKey(rating.PrincipalID, rating.Date)]; ok {
		out.ID, out.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		out.ID, out.CreatedAt = "r-"+rating.Date, rating.UpdatedAt
	}
	r.rows[ratingKey(rating.PrincipalID, rating.Date)] = out
	return &out, nil
}

func (r *memRatings) Get(_ context.Context, principalID, date string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[ratingKey(principalID, date)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *memRatings) ListRange(_ context.Context, principalID, from, to string) ([]models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Rating, 0)
	for _, row := range r.rows {
		if row.PrincipalID == principalID && row.Date >= from && row.Date <= to {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *memRatings) Delete(_ context.Context, principalID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[ratingKey(principalID, date)]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, ratingKey(principalID, date))
	return nil
}

type memSubs struct {
	mu      sync.Mutex
	rows    map[string]models.PushSubscription
	listErr error
}

func (s *memSubs) Upsert(_ context.Context, sub *models.PushSubscription) (*models.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *sub
	out.ID = "s-" + sub.PrincipalID
	s.rows[sub.PrincipalID] = out
	return &out, nil
}

func (s *memSubs) Get(_ context.Context, principalID string) (*models.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[principalID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (s *memSubs) List(context.Context) ([]models.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.PushSubscription
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrincipalID < out[j].PrincipalID })
	return out, nil
}

func (s *memSubs) Delete(_ context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[principalID]; !ok {
		return common.ErrorNotFound
	}
	delete(s.rows, principalID)
	return nil
}

func (s *memSubs) DeleteEndpoint(_ context.Context, principalID, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[principalID]
	if !ok || row.Endpoint != endpoint {
		return common.ErrorNotFound
	}
	delete(s.rows, principalID)
	return nil
}

func (s *memSubs) has(principalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[principalID]
	return ok
}

type fakeSender struct {
	mu       sync.Mutex
	sent     []push.Target
	payloads []push.Payload
	fail     map[string]error
	delay    time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeSender) Send(_ context.Context, target push.Target, payload push.Payload) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[target.Endpoint]; err != nil {
		return err
	}
	f.sent = append(f.sent, target)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func addSub(m *fakeManager, principalID string) {
	m.subs.rows[principalID] = models.PushSubscription{
		ID: "s-" + principalID, PrincipalID: principalID,
		Endpoint: "https://push.example/" + principalID, P256dh: "k", Auth: "a",
	}
}
