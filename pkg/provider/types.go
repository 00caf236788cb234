package provider

import "time"

// Conversation is one chat returned by the provider's list endpoint
type Conversation struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	Subject       string     `json:"subject,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count,omitempty"`
	Archived      bool       `json:"archived,omitempty"`
}

// Message is one message inside a conversation
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"chat_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	IsSelf         bool      `json:"is_self,omitempty"`
	Text           string    `json:"text"`
	SentAt         time.Time `json:"timestamp"`
}

// Attendee is one participant of a conversation
type Attendee struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Headline         string `json:"headline,omitempty"`
	ProfileURL       string `json:"profile_url,omitempty"`
	ConnectionDegree int    `json:"connection_degree,omitempty"`
	IsSelf           bool   `json:"is_self,omitempty"`
}

// Page is the generic envelope of every list endpoint: {items: [...], cursor?}.
// Skipped counts items that failed per-item validation and were dropped.
type Page[T any] struct {
	Items   []T
	Cursor  string
	Skipped int
}
