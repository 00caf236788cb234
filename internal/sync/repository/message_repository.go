package repository

import (
	"time"

	"netsync-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// Upsert writes by (conversation_id, provider_message_id). Content of an
	// existing row is left untouched; only metadata may be enriched.
	Upsert(msg *domain.Message) error
	ListByConversation(conversationID string, limit, offset int) ([]*domain.Message, int64, error)
	LatestByConversation(conversationID string) (*domain.Message, error)
	CountByConversation(conversationID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Upsert(msg *domain.Message) error {
	now := time.Now()
	if msg.ID == "" {
		msg.ID = uuid.New().String()
		msg.CreatedAt = now
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "provider_message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"metadata"}),
	}).Create(msg).Error
}

func (r *messageRepository) ListByConversation(conversationID string, limit, offset int) ([]*domain.Message, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Message{}).Where("conversation_id = ?", conversationID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("sent_at desc").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

func (r *messageRepository) LatestByConversation(conversationID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).Order("sent_at desc").First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) CountByConversation(conversationID string) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Message{}).Where("conversation_id = ?", conversationID).Count(&total).Error
	return total, err
}
