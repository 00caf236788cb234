package domain

// PassStatus is the lifecycle of one sync pass as reported to the UI
type PassStatus string

const (
	PassStarting  PassStatus = "starting"
	PassRunning   PassStatus = "running"
	PassCompleted PassStatus = "completed"
	PassFailed    PassStatus = "failed"
)

// Progress is one event on the one-way progress stream. The core emits
// these; it never calls a UI API directly and never blocks on delivery.
type Progress struct {
	Status   PassStatus `json:"status"`
	Message  string     `json:"message,omitempty"`
	Percent  int        `json:"progress"`
	Counts   PassCounts `json:"counts"`
	Warnings []string   `json:"warnings,omitempty"`
}

// PassCounts summarizes what a pass touched
type PassCounts struct {
	Conversations  int `json:"conversations"`
	Messages       int `json:"messages"`
	Contacts       int `json:"contacts"`
	NewContacts    int `json:"new_contacts"`
	FullSynced     int `json:"full_synced"`
	PreviewSynced  int `json:"preview_synced"`
	SkippedItems   int `json:"skipped_items"`
	QuotaShortfall int `json:"quota_shortfall,omitempty"`
	PagesFetched   int `json:"pages_fetched"`
	FetchErrors    int `json:"fetch_errors"`
}
