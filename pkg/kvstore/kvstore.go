// Package kvstore is a small scoped key/value store for per-user runtime
// settings. Keys are addressed as (scope, key) pairs instead of strings
// concatenated by hand, so every caller goes through the same tenancy rule.
package kvstore

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Scope     string    `json:"scope" gorm:"primaryKey;not null"`
	Key       string    `json:"key" gorm:"primaryKey;not null"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

type Store interface {
	Get(scope, key string) (string, bool, error)
	Set(scope, key, value string) error
	Delete(scope, key string) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(scope, key string) (string, bool, error) {
	var entry Entry
	err := s.db.Where("scope = ? AND key = ?", scope, key).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *gormStore) Set(scope, key, value string) error {
	entry := Entry{
		Scope:     scope,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *gormStore) Delete(scope, key string) error {
	return s.db.Where("scope = ? AND key = ?", scope, key).Delete(&Entry{}).Error
}
