package domain

import (
	"fmt"
	"strings"
	"time"
)

// RateLimitEvent records the provider's most recent saturation signal for one
// (account, limit type) pair. A new observation of the same type supersedes
// the stored row; events are never appended.
type RateLimitEvent struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	AccountID    string     `json:"account_id" gorm:"uniqueIndex:idx_account_limit_type;not null"`
	LimitType    string     `json:"limit_type" gorm:"uniqueIndex:idx_account_limit_type;not null"`
	CurrentCount int        `json:"current_count"`
	MaxLimit     int        `json:"max_limit"`
	ResetTime    *time.Time `json:"reset_time,omitempty"`
	PausedUntil  *time.Time `json:"paused_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CooldownUntil returns when sends may be retried. PausedUntil wins over
// ResetTime; an event carrying neither falls back to a fixed hold.
func (e *RateLimitEvent) CooldownUntil() time.Time {
	if e.PausedUntil != nil {
		return *e.PausedUntil
	}
	if e.ResetTime != nil {
		return *e.ResetTime
	}
	return e.UpdatedAt.Add(1 * time.Hour)
}

// Observation is one provider response or failed-send record inspected for
// a rate condition.
type Observation struct {
	RateLimitReached bool
	LimitType        string
	CurrentCount     int
	MaxLimit         int
	ResetTime        *time.Time
	PausedUntil      *time.Time
	ErrorText        string
}

// Indicates reports whether the observation signals a rate condition, either
// through the explicit flag or a "limit" pattern in the error text.
func (o Observation) Indicates() bool {
	if o.RateLimitReached {
		return true
	}
	return strings.Contains(strings.ToLower(o.ErrorText), "limit")
}

// ErrRateLimited rejects a send locally while the account is in cooldown
type ErrRateLimited struct {
	AccountID string
	LimitType string
	Until     time.Time
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("account %s is rate limited (%s) until %s", e.AccountID, e.LimitType, e.Until.Format(time.RFC3339))
}
