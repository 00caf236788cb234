package domain

import (
	"time"

	"gorm.io/datatypes"
)

type SyncDepth string

const (
	// SyncDepthFull keeps the complete available message history
	SyncDepthFull SyncDepth = "full"
	// SyncDepthPreview keeps only the single most recent message
	SyncDepthPreview SyncDepth = "preview"
)

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationArchived ConversationStatus = "archived"
)

// Conversation is one remote chat mirrored into the local store. Rows are
// never hard-deleted; archival goes through Status.
type Conversation struct {
	ID                     string             `json:"id" gorm:"primaryKey"`
	WorkspaceID            string             `json:"workspace_id" gorm:"uniqueIndex:idx_workspace_platform_conv;not null"`
	Platform               string             `json:"platform" gorm:"uniqueIndex:idx_workspace_platform_conv;not null"`
	PlatformConversationID string             `json:"platform_conversation_id" gorm:"uniqueIndex:idx_workspace_platform_conv;not null"`
	AccountID              string             `json:"account_id" gorm:"index;not null"`
	AttendeeProviderID     string             `json:"attendee_provider_id,omitempty"`
	AttendeeName           string             `json:"attendee_name,omitempty"`
	Subject                string             `json:"subject,omitempty"`
	LastMessageAt          *time.Time         `json:"last_message_at,omitempty" gorm:"index"`
	SyncDepth              SyncDepth          `json:"sync_depth" gorm:"not null;default:preview"`
	Status                 ConversationStatus `json:"status" gorm:"not null;default:active"`
	UnreadCount            int                `json:"unread_count"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

type SenderRole string

const (
	SenderRoleOwner   SenderRole = "owner"
	SenderRoleContact SenderRole = "contact"
)

// Message belongs to exactly one conversation. Immutable once persisted
// except for metadata enrichment.
type Message struct {
	ID                string         `json:"id" gorm:"primaryKey"`
	ConversationID    string         `json:"conversation_id" gorm:"uniqueIndex:idx_conv_provider_msg;not null"`
	ProviderMessageID string         `json:"provider_message_id" gorm:"uniqueIndex:idx_conv_provider_msg;not null"`
	SenderProviderID  string         `json:"sender_provider_id,omitempty"`
	SenderRole        SenderRole     `json:"sender_role" gorm:"not null"`
	Content           string         `json:"content"`
	SentAt            time.Time      `json:"sent_at" gorm:"index"`
	Metadata          datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// SyncCursor is the persisted pagination position for one endpoint walk,
// owned exclusively by the pagination fetcher. It advances monotonically
// within a pass and either resets at pass start (full rescan) or persists
// for incremental continuation.
type SyncCursor struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	WorkspaceID string     `json:"workspace_id" gorm:"uniqueIndex:idx_cursor_scope;not null"`
	AccountID   string     `json:"account_id" gorm:"uniqueIndex:idx_cursor_scope;not null"`
	Endpoint    string     `json:"endpoint" gorm:"uniqueIndex:idx_cursor_scope;not null"`
	Cursor      string     `json:"cursor"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CursorScope identifies one cursor row
type CursorScope struct {
	WorkspaceID string
	AccountID   string
	Endpoint    string
}
