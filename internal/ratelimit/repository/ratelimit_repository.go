package repository

import (
	"time"

	"netsync-backend/internal/ratelimit/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimitRepository defines the interface for rate-limit event persistence
type RateLimitRepository interface {
	// Upsert supersedes the stored event for (account_id, limit_type)
	Upsert(event *domain.RateLimitEvent) error
	FindByAccount(accountID string) ([]*domain.RateLimitEvent, error)
	Delete(accountID, limitType string) error
}

type rateLimitRepository struct {
	db *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) Upsert(event *domain.RateLimitEvent) error {
	now := time.Now()
	if event.ID == "" {
		event.ID = uuid.New().String()
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "limit_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_count", "max_limit", "reset_time", "paused_until", "updated_at"}),
	}).Create(event).Error
}

func (r *rateLimitRepository) FindByAccount(accountID string) ([]*domain.RateLimitEvent, error) {
	var events []*domain.RateLimitEvent
	err := r.db.Where("account_id = ?", accountID).Find(&events).Error
	return events, err
}

func (r *rateLimitRepository) Delete(accountID, limitType string) error {
	return r.db.Where("account_id = ? AND limit_type = ?", accountID, limitType).Delete(&domain.RateLimitEvent{}).Error
}
