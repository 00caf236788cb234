package domain

import "time"

// Account is a connected provider account inside a workspace. The sync core
// keys cursors, rate-limit state and scheduled passes on ProviderAccountID.
type Account struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	WorkspaceID       string    `json:"workspace_id" gorm:"uniqueIndex:idx_workspace_account;not null"`
	UserID            string    `json:"user_id" gorm:"index;not null"`
	Platform          string    `json:"platform" gorm:"not null"` // e.g. "linkedin"
	ProviderAccountID string    `json:"provider_account_id" gorm:"uniqueIndex:idx_workspace_account;not null"`
	DisplayName       string    `json:"display_name"`
	AccessToken       string    `json:"-"`
	RefreshToken      string    `json:"-"`
	TokenExpiry       time.Time `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
