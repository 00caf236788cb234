package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray is a custom type to handle JSON array in GORM
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Contact is the canonical record for one external identity inside a
// workspace, folded together from every source that sighted it.
type Contact struct {
	ID               string      `json:"id" gorm:"primaryKey"`
	WorkspaceID      string      `json:"workspace_id" gorm:"uniqueIndex:idx_workspace_provider;not null"`
	ProviderID       string      `json:"provider_id" gorm:"uniqueIndex:idx_workspace_provider;not null"`
	Name             string      `json:"name"`
	Headline         string      `json:"headline,omitempty"`
	ProfileURL       string      `json:"profile_url,omitempty"`
	ConnectionDegree int         `json:"connection_degree,omitempty"` // 1st/2nd/3rd, 0 when unknown
	Sources          StringArray `json:"sources" gorm:"type:text"`
	HasHeadline      bool        `json:"has_headline"`
	HasProfileURL    bool        `json:"has_profile_url"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Sighting is one observation of a contact from a single source
// (a conversation attendee list or a message sender field).
type Sighting struct {
	ProviderID       string
	Name             string
	Headline         string
	ProfileURL       string
	ConnectionDegree int
	Source           string // "attendees" or "message_sender"
	IsSelf           bool
}

// Usable reports whether a sighting carries enough identity to keep.
// The account owner is never stored as a contact.
func (s Sighting) Usable() bool {
	if s.IsSelf {
		return false
	}
	return s.ProviderID != "" || s.Name != ""
}
