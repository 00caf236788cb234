package repository

import (
	"fmt"
	"time"

	"netsync-backend/internal/quota/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository defines the interface for quota ledger persistence
type QuotaRepository interface {
	// Consume atomically grants up to amount from the user's monthly balance.
	// A missing month row is initialized with extracted=0, remaining=cap.
	Consume(userID, month string, amount, cap int) (granted, remaining int, err error)
	Get(userID, month string, cap int) (*domain.QuotaRecord, error)
	AppendAudit(entry *domain.AuditEntry) error
	ListAudit(userID string, limit int) ([]*domain.AuditEntry, error)
}

type quotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Consume(userID, month string, amount, cap int) (int, int, error) {
	if amount < 0 {
		return 0, 0, fmt.Errorf("negative consume amount: %d", amount)
	}

	var granted, remaining int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		record, err := lockOrInit(tx, userID, month, cap)
		if err != nil {
			return err
		}

		granted = amount
		if granted > record.Remaining {
			granted = record.Remaining
		}

		record.Extracted += granted
		record.Remaining -= granted
		record.UpdatedAt = time.Now()
		remaining = record.Remaining

		return tx.Save(record).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return granted, remaining, nil
}

// lockOrInit fetches the month row under FOR UPDATE, creating it first if
// needed so concurrent callers serialize on the same row.
func lockOrInit(tx *gorm.DB, userID, month string, cap int) (*domain.QuotaRecord, error) {
	now := time.Now()
	record := domain.QuotaRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Month:     month,
		Cap:       cap,
		Extracted: 0,
		Remaining: cap,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return nil, err
	}

	var locked domain.QuotaRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND month = ?", userID, month).
		First(&locked).Error
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

func (r *quotaRepository) Get(userID, month string, cap int) (*domain.QuotaRecord, error) {
	var record domain.QuotaRecord
	err := r.db.Where("user_id = ? AND month = ?", userID, month).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Lazily reported, not yet persisted: a month without consumption
			// has the full cap available.
			return &domain.QuotaRecord{
				UserID:    userID,
				Month:     month,
				Cap:       cap,
				Extracted: 0,
				Remaining: cap,
			}, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *quotaRepository) AppendAudit(entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	return r.db.Create(entry).Error
}

func (r *quotaRepository) ListAudit(userID string, limit int) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}
