package repository

import (
	"time"

	"netsync-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// Upsert writes by the (workspace, platform, platform conversation id)
	// natural key. Existing sync depth is never demoted from full.
	Upsert(conv *domain.Conversation) error
	FindByPlatformID(workspaceID, platform, platformConversationID string) (*domain.Conversation, error)
	FindByID(id string) (*domain.Conversation, error)
	ListByWorkspace(workspaceID string, depth domain.SyncDepth, limit, offset int) ([]*domain.Conversation, int64, error)
	// SetSyncDepth promotes a conversation (preview -> full is one-way)
	SetSyncDepth(id string, depth domain.SyncDepth) error
	SetStatus(id string, status domain.ConversationStatus) error
	CountByDepth(workspaceID string, depth domain.SyncDepth) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Upsert(conv *domain.Conversation) error {
	now := time.Now()
	if conv.ID == "" {
		conv.ID = uuid.New().String()
		conv.CreatedAt = now
	}
	if conv.SyncDepth == "" {
		conv.SyncDepth = domain.SyncDepthPreview
	}
	if conv.Status == "" {
		conv.Status = domain.ConversationActive
	}
	conv.UpdatedAt = now

	// sync_depth only moves preview -> full on conflict, never back
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "workspace_id"}, {Name: "platform"}, {Name: "platform_conversation_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attendee_provider_id": conv.AttendeeProviderID,
			"attendee_name":        conv.AttendeeName,
			"subject":              conv.Subject,
			"last_message_at":      conv.LastMessageAt,
			"status":               conv.Status,
			"unread_count":         conv.UnreadCount,
			"updated_at":           now,
			"sync_depth": gorm.Expr(
				"CASE WHEN conversations.sync_depth = 'full' THEN 'full' ELSE ? END", string(conv.SyncDepth),
			),
		}),
	}).Create(conv).Error
}

func (r *conversationRepository) FindByPlatformID(workspaceID, platform, platformConversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where(
		"workspace_id = ? AND platform = ? AND platform_conversation_id = ?",
		workspaceID, platform, platformConversationID,
	).First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByID(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByWorkspace(workspaceID string, depth domain.SyncDepth, limit, offset int) ([]*domain.Conversation, int64, error) {
	query := r.db.Model(&domain.Conversation{}).Where("workspace_id = ?", workspaceID)
	if depth != "" {
		query = query.Where("sync_depth = ?", depth)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conversations []*domain.Conversation
	err := query.Order("last_message_at desc nulls last").
		Limit(limit).Offset(offset).
		Find(&conversations).Error
	return conversations, total, err
}

func (r *conversationRepository) SetSyncDepth(id string, depth domain.SyncDepth) error {
	return r.db.Model(&domain.Conversation{}).Where("id = ?", id).
		Updates(map[string]interface{}{"sync_depth": depth, "updated_at": time.Now()}).Error
}

func (r *conversationRepository) SetStatus(id string, status domain.ConversationStatus) error {
	return r.db.Model(&domain.Conversation{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *conversationRepository) CountByDepth(workspaceID string, depth domain.SyncDepth) (int64, error) {
	var total int64
	err := r.db.Model(&domain.Conversation{}).
		Where("workspace_id = ? AND sync_depth = ?", workspaceID, depth).
		Count(&total).Error
	return total, err
}
