package domain

import (
	"time"

	"gorm.io/datatypes"
)

// QuotaRecord tracks monthly extraction consumption for one user.
// Invariant: Extracted + Remaining == Cap and Remaining >= 0.
type QuotaRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_user_month;not null"`
	Month     string    `json:"month" gorm:"uniqueIndex:idx_user_month;not null"` // YYYY-MM, UTC
	Cap       int       `json:"cap" gorm:"not null"`
	Extracted int       `json:"extracted" gorm:"not null;default:0"`
	Remaining int       `json:"remaining" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEntry is one append-only record of an extraction attempt
type AuditEntry struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	UserID       string         `json:"user_id" gorm:"index;not null"`
	Type         string         `json:"type" gorm:"not null"` // e.g. "contact_extraction"
	Requested    int            `json:"requested"`
	Delivered    int            `json:"delivered"`
	CostEstimate float64        `json:"cost_estimate"`
	LatencyMS    int64          `json:"latency_ms"`
	Outcome      string         `json:"outcome"` // "granted", "partial", "rejected"
	Detail       datatypes.JSON `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Grant is the result of a consumption attempt. Granted never exceeds the
// remaining balance; Shortfall reports what could not be served.
type Grant struct {
	Requested int `json:"requested"`
	Granted   int `json:"granted"`
	Shortfall int `json:"shortfall"`
	Remaining int `json:"remaining"`
}

// MonthKey returns the ledger month for a point in time
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
