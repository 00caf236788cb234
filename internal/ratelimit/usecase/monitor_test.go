package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"netsync-backend/internal/ratelimit/domain"
)

type fakeRateLimitRepo struct {
	mu     sync.Mutex
	events map[string]*domain.RateLimitEvent // accountID|limitType
}

func newFakeRateLimitRepo() *fakeRateLimitRepo {
	return &fakeRateLimitRepo{events: make(map[string]*domain.RateLimitEvent)}
}

func (f *fakeRateLimitRepo) Upsert(event *domain.RateLimitEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.UpdatedAt = time.Now()
	f.events[event.AccountID+"|"+event.LimitType] = event
	return nil
}

func (f *fakeRateLimitRepo) FindByAccount(accountID string) ([]*domain.RateLimitEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.RateLimitEvent
	for _, e := range f.events {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRateLimitRepo) Delete(accountID, limitType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, accountID+"|"+limitType)
	return nil
}

type stubEvents struct {
	mu    sync.Mutex
	types []string
}

func (s *stubEvents) SendToUser(userID string, eventType string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, eventType)
}

func (s *stubEvents) count(eventType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.types {
		if t == eventType {
			n++
		}
	}
	return n
}

func TestObserveTransitionsToLimited(t *testing.T) {
	monitor := NewMonitor(newFakeRateLimitRepo(), nil, nil)

	until := time.Now().Add(time.Hour)
	limited := monitor.Observe("u1", "acc1", domain.Observation{
		RateLimitReached: true,
		LimitType:        "messaging",
		CurrentCount:     100,
		MaxLimit:         100,
		PausedUntil:      &until,
	})
	if !limited {
		t.Fatal("observation with rate_limit_reached should transition to Limited")
	}

	err := monitor.CanSend("acc1")
	var rateLimited *domain.ErrRateLimited
	if !errors.As(err, &rateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !rateLimited.Until.Equal(until) {
		t.Errorf("cooldown should come from paused_until, got %s", rateLimited.Until)
	}
}

func TestObserveDetectsLimitInErrorText(t *testing.T) {
	monitor := NewMonitor(newFakeRateLimitRepo(), nil, nil)

	if !monitor.Observe("u1", "acc1", domain.Observation{ErrorText: "Daily LIMIT exceeded for this account"}) {
		t.Error("limit pattern in error text should transition to Limited")
	}
	if monitor.Observe("u1", "acc2", domain.Observation{ErrorText: "connection reset by peer"}) {
		t.Error("unrelated error text must not transition to Limited")
	}
	if monitor.CanSend("acc2") != nil {
		t.Error("acc2 should still be Normal")
	}
}

// Gating holds exactly until the cooldown timestamp, then sends recover.
func TestCanSendRecoversAfterCooldown(t *testing.T) {
	monitor := NewMonitor(newFakeRateLimitRepo(), nil, nil)

	now := time.Now()
	monitor.SetClock(func() time.Time { return now })

	until := now.Add(30 * time.Minute)
	monitor.Observe("u1", "acc1", domain.Observation{RateLimitReached: true, LimitType: "messaging", PausedUntil: &until})

	if monitor.CanSend("acc1") == nil {
		t.Fatal("sends must be rejected during the cooldown")
	}

	monitor.SetClock(func() time.Time { return until.Add(time.Second) })
	if err := monitor.CanSend("acc1"); err != nil {
		t.Errorf("sends should recover after the cooldown, got %v", err)
	}
}

func TestRetryAfterRateLimit(t *testing.T) {
	repo := newFakeRateLimitRepo()
	monitor := NewMonitor(repo, nil, nil)

	now := time.Now()
	monitor.SetClock(func() time.Time { return now })

	until := now.Add(time.Hour)
	monitor.Observe("u1", "acc1", domain.Observation{RateLimitReached: true, LimitType: "messaging", PausedUntil: &until})

	// Too early: the retry is refused with the same error that gates sends
	var rateLimited *domain.ErrRateLimited
	if err := monitor.RetryAfterRateLimit("acc1"); !errors.As(err, &rateLimited) {
		t.Fatalf("early retry should fail, got %v", err)
	}

	monitor.SetClock(func() time.Time { return until.Add(time.Second) })
	if err := monitor.RetryAfterRateLimit("acc1"); err != nil {
		t.Fatalf("retry after cooldown should clear the state, got %v", err)
	}
	if err := monitor.CanSend("acc1"); err != nil {
		t.Errorf("account should be Normal after the retry, got %v", err)
	}
	if events, _ := repo.FindByAccount("acc1"); len(events) != 0 {
		t.Error("cleared event should be deleted from the store")
	}
}

func TestObserveSupersedesEventOfSameType(t *testing.T) {
	repo := newFakeRateLimitRepo()
	monitor := NewMonitor(repo, nil, nil)

	first := time.Now().Add(10 * time.Minute)
	second := time.Now().Add(2 * time.Hour)
	monitor.Observe("u1", "acc1", domain.Observation{RateLimitReached: true, LimitType: "messaging", PausedUntil: &first})
	monitor.Observe("u1", "acc1", domain.Observation{RateLimitReached: true, LimitType: "messaging", PausedUntil: &second})

	events, _ := repo.FindByAccount("acc1")
	if len(events) != 1 {
		t.Fatalf("a new observation of the same type must supersede, got %d events", len(events))
	}

	var rateLimited *domain.ErrRateLimited
	if err := monitor.CanSend("acc1"); errors.As(err, &rateLimited) {
		if !rateLimited.Until.Equal(second) {
			t.Errorf("cooldown should come from the superseding event, got %s", rateLimited.Until)
		}
	} else {
		t.Fatal("account should be Limited")
	}
}

func TestMonitorHydratesFromStore(t *testing.T) {
	repo := newFakeRateLimitRepo()
	until := time.Now().Add(time.Hour)
	repo.Upsert(&domain.RateLimitEvent{AccountID: "acc1", LimitType: "messaging", PausedUntil: &until})

	// A fresh monitor (post-restart) picks the persisted event back up
	monitor := NewMonitor(repo, nil, nil)
	if monitor.CanSend("acc1") == nil {
		t.Error("persisted Limited state should survive a restart")
	}
}

func TestSoftThresholdWarning(t *testing.T) {
	events := &stubEvents{}
	monitor := NewMonitor(newFakeRateLimitRepo(), []int{80, 90}, events)

	limited := monitor.Observe("u1", "acc1", domain.Observation{
		LimitType:    "messaging",
		CurrentCount: 85,
		MaxLimit:     100,
	})
	if limited {
		t.Fatal("soft usage warning is not a state change")
	}
	if events.count("rate_limit_usage_warning") != 1 {
		t.Errorf("expected a usage warning at 85%%, got %d", events.count("rate_limit_usage_warning"))
	}
	if monitor.CanSend("acc1") != nil {
		t.Error("soft warning must not gate sends")
	}
}
