package usecase

import (
	"fmt"
	"log"
	"time"

	"netsync-backend/internal/quota/domain"
	"netsync-backend/internal/quota/repository"
)

// EventService defines interface for sending notifications
type EventService interface {
	SendToUser(userID string, eventType string, payload interface{})
}

// Ledger enforces the organization-wide monthly extraction cap per user.
// It never grants more than the remaining balance: an over-budget request
// receives exactly the remainder and the shortfall is reported back.
type Ledger struct {
	repo           repository.QuotaRepository
	capPerMonth    int
	warnThresholds []int
	events         EventService
	now            func() time.Time
}

func NewLedger(repo repository.QuotaRepository, capPerMonth int, warnThresholds []int, events EventService) *Ledger {
	return &Ledger{
		repo:           repo,
		capPerMonth:    capPerMonth,
		warnThresholds: warnThresholds,
		events:         events,
		now:            time.Now,
	}
}

// TryConsume grants up to amount extractions for the current month and
// appends an audit entry. Quota exhaustion is not an error: the caller gets
// a zero or partial grant and decides what to do with the shortfall.
func (l *Ledger) TryConsume(userID, consumeType string, amount int) (*domain.Grant, error) {
	start := l.now()
	month := domain.MonthKey(start)

	granted, remaining, err := l.repo.Consume(userID, month, amount, l.capPerMonth)

	outcome := "granted"
	switch {
	case err != nil:
		outcome = "error"
	case granted == 0 && amount > 0:
		outcome = "rejected"
	case granted < amount:
		outcome = "partial"
	}

	entry := &domain.AuditEntry{
		UserID:       userID,
		Type:         consumeType,
		Requested:    amount,
		Delivered:    granted,
		CostEstimate: float64(granted) * 0.01,
		LatencyMS:    time.Since(start).Milliseconds(),
		Outcome:      outcome,
	}
	if auditErr := l.repo.AppendAudit(entry); auditErr != nil {
		log.Printf("[Quota] Failed to append audit entry for user %s: %v", userID, auditErr)
	}

	if err != nil {
		return nil, fmt.Errorf("quota consume failed: %w", err)
	}

	grant := &domain.Grant{
		Requested: amount,
		Granted:   granted,
		Shortfall: amount - granted,
		Remaining: remaining,
	}

	l.warnOnThresholds(userID, remaining, granted)

	return grant, nil
}

// Status reports the current month's record without consuming anything
func (l *Ledger) Status(userID string) (*domain.QuotaRecord, error) {
	return l.repo.Get(userID, domain.MonthKey(l.now()), l.capPerMonth)
}

// Audit returns recent audit entries, newest first
func (l *Ledger) Audit(userID string, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.repo.ListAudit(userID, limit)
}

// warnOnThresholds raises a soft warning when this grant moved usage across
// a configured percentage of the cap. Crossing is checked against the usage
// before the grant so each threshold fires once.
func (l *Ledger) warnOnThresholds(userID string, remaining, granted int) {
	if l.events == nil || l.capPerMonth <= 0 || granted <= 0 {
		return
	}

	extracted := l.capPerMonth - remaining
	beforePct := (extracted - granted) * 100 / l.capPerMonth
	afterPct := extracted * 100 / l.capPerMonth

	for _, threshold := range l.warnThresholds {
		if beforePct < threshold && afterPct >= threshold {
			log.Printf("[Quota] User %s crossed %d%% of monthly quota (%d/%d)", userID, threshold, extracted, l.capPerMonth)
			l.events.SendToUser(userID, "quota_warning", map[string]interface{}{
				"threshold_pct": threshold,
				"extracted":     extracted,
				"cap":           l.capPerMonth,
				"remaining":     remaining,
			})
		}
	}
}
