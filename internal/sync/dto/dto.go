package dto

import "netsync-backend/internal/sync/domain"

type RunSyncRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	FullRescan bool   `json:"full_rescan"`
}

type ScheduleRequest struct {
	AccountID       string `json:"account_id" binding:"required"`
	IntervalMinutes int    `json:"interval_minutes"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type SyncStatusResponse struct {
	AccountID    string `json:"account_id"`
	Running      bool   `json:"running"`
	Scheduled    bool   `json:"scheduled"`
	FullCount    int64  `json:"full_count"`
	PreviewCount int64  `json:"preview_count"`
}

type ConversationsResponse struct {
	Conversations []*domain.Conversation `json:"conversations"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
	Total         int64                  `json:"total"`
}

type MessagesResponse struct {
	Messages []*domain.Message `json:"messages"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Total    int64             `json:"total"`
}
