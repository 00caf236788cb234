package usecase

import (
	"log"
	"sync"
	"time"

	"netsync-backend/internal/ratelimit/domain"
	"netsync-backend/internal/ratelimit/repository"
)

// EventService defines interface for sending notifications
type EventService interface {
	SendToUser(userID string, eventType string, payload interface{})
}

// Monitor holds the Normal/Limited state per account. While an account is
// Limited, outbound sends are rejected locally without contacting the
// provider; read-sync is never gated. The monitor is the only writer of the
// cooldown value, everything else just reads it through CanSend.
type Monitor struct {
	repo           repository.RateLimitRepository
	events         EventService
	warnThresholds []int
	now            func() time.Time

	mu       sync.RWMutex
	limited  map[string]*domain.RateLimitEvent // accountID -> active event
	hydrated map[string]bool
}

func NewMonitor(repo repository.RateLimitRepository, warnThresholds []int, events EventService) *Monitor {
	return &Monitor{
		repo:           repo,
		events:         events,
		warnThresholds: warnThresholds,
		now:            time.Now,
		limited:        make(map[string]*domain.RateLimitEvent),
		hydrated:       make(map[string]bool),
	}
}

// SetClock overrides the monitor clock (tests)
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// Observe inspects one provider response or failed-send record. A rate
// condition transitions the account to Limited and supersedes the stored
// event of that type. Returns true when the account is now Limited.
func (m *Monitor) Observe(userID, accountID string, obs domain.Observation) bool {
	m.checkSoftThresholds(userID, accountID, obs)

	if !obs.Indicates() {
		return false
	}

	limitType := obs.LimitType
	if limitType == "" {
		limitType = "unknown"
	}

	event := &domain.RateLimitEvent{
		AccountID:    accountID,
		LimitType:    limitType,
		CurrentCount: obs.CurrentCount,
		MaxLimit:     obs.MaxLimit,
		ResetTime:    obs.ResetTime,
		PausedUntil:  obs.PausedUntil,
	}
	if err := m.repo.Upsert(event); err != nil {
		log.Printf("[RateLimit] Failed to persist event for account %s: %v", accountID, err)
	}

	m.mu.Lock()
	m.limited[accountID] = event
	m.hydrated[accountID] = true
	m.mu.Unlock()

	until := event.CooldownUntil()
	log.Printf("[RateLimit] Account %s entered Limited state (%s, %d/%d) until %s",
		accountID, limitType, obs.CurrentCount, obs.MaxLimit, until.Format(time.RFC3339))

	if m.events != nil {
		m.events.SendToUser(userID, "rate_limit_warning", map[string]interface{}{
			"account_id":    accountID,
			"limit_type":    limitType,
			"current_count": obs.CurrentCount,
			"max_limit":     obs.MaxLimit,
			"paused_until":  until,
		})
	}

	return true
}

// CanSend reports whether outbound sends are allowed for the account.
// Returns *domain.ErrRateLimited while the cooldown is active.
func (m *Monitor) CanSend(accountID string) error {
	event := m.activeEvent(accountID)
	if event == nil {
		return nil
	}

	until := event.CooldownUntil()
	if m.now().After(until) {
		// Cooldown elapsed but retryAfterRateLimit was not called yet;
		// clear lazily.
		m.clear(accountID, event.LimitType)
		return nil
	}

	return &domain.ErrRateLimited{
		AccountID: accountID,
		LimitType: event.LimitType,
		Until:     until,
	}
}

// RetryAfterRateLimit transitions the account back to Normal once the
// cooldown timestamp has passed. Before that it fails with the same error
// that gates sends.
func (m *Monitor) RetryAfterRateLimit(accountID string) error {
	event := m.activeEvent(accountID)
	if event == nil {
		return nil
	}

	until := event.CooldownUntil()
	if m.now().Before(until) {
		return &domain.ErrRateLimited{
			AccountID: accountID,
			LimitType: event.LimitType,
			Until:     until,
		}
	}

	m.clear(accountID, event.LimitType)
	log.Printf("[RateLimit] Account %s returned to Normal state after cooldown", accountID)
	return nil
}

// ReportClear is called when a subsequent provider check reports no limit
func (m *Monitor) ReportClear(accountID string) {
	if event := m.activeEvent(accountID); event != nil {
		m.clear(accountID, event.LimitType)
		log.Printf("[RateLimit] Account %s cleared by provider check", accountID)
	}
}

// Status returns the active event for an account, or nil when Normal
func (m *Monitor) Status(accountID string) *domain.RateLimitEvent {
	event := m.activeEvent(accountID)
	if event == nil {
		return nil
	}
	if m.now().After(event.CooldownUntil()) {
		return nil
	}
	return event
}

func (m *Monitor) activeEvent(accountID string) *domain.RateLimitEvent {
	m.mu.RLock()
	event, ok := m.limited[accountID]
	hydrated := m.hydrated[accountID]
	m.mu.RUnlock()

	if ok {
		return event
	}
	if hydrated {
		return nil
	}

	// First look at this account since startup: restore persisted state
	events, err := m.repo.FindByAccount(accountID)
	if err != nil {
		log.Printf("[RateLimit] Failed to load events for account %s: %v", accountID, err)
		return nil
	}

	var active *domain.RateLimitEvent
	for _, e := range events {
		if m.now().Before(e.CooldownUntil()) {
			if active == nil || e.CooldownUntil().After(active.CooldownUntil()) {
				active = e
			}
		}
	}

	m.mu.Lock()
	m.hydrated[accountID] = true
	if active != nil {
		m.limited[accountID] = active
	}
	m.mu.Unlock()

	return active
}

func (m *Monitor) clear(accountID, limitType string) {
	m.mu.Lock()
	delete(m.limited, accountID)
	m.hydrated[accountID] = true
	m.mu.Unlock()

	if err := m.repo.Delete(accountID, limitType); err != nil {
		log.Printf("[RateLimit] Failed to delete event for account %s: %v", accountID, err)
	}
}

// checkSoftThresholds raises a warning when usage crosses a configured
// percentage of a limit, before the hard limit is hit. Not a state change.
func (m *Monitor) checkSoftThresholds(userID, accountID string, obs domain.Observation) {
	if m.events == nil || obs.MaxLimit <= 0 || obs.CurrentCount <= 0 || obs.RateLimitReached {
		return
	}

	usagePct := obs.CurrentCount * 100 / obs.MaxLimit
	crossed := 0
	for _, threshold := range m.warnThresholds {
		if usagePct >= threshold && threshold > crossed {
			crossed = threshold
		}
	}
	if crossed == 0 {
		return
	}

	limitType := obs.LimitType
	if limitType == "" {
		limitType = "unknown"
	}
	log.Printf("[RateLimit] Account %s at %d%% of %s limit (%d/%d)", accountID, usagePct, limitType, obs.CurrentCount, obs.MaxLimit)
	m.events.SendToUser(userID, "rate_limit_usage_warning", map[string]interface{}{
		"account_id":    accountID,
		"limit_type":    limitType,
		"usage_pct":     usagePct,
		"threshold_pct": crossed,
		"current_count": obs.CurrentCount,
		"max_limit":     obs.MaxLimit,
	})
}
