package usecase

import (
	"sort"

	"netsync-backend/internal/sync/domain"
)

// ThresholdFromBudget derives the number of full-history conversations the
// storage budget can hold. The threshold is always passed around as a
// parameter; no caller hard-codes it.
func ThresholdFromBudget(budgetUnits, unitCost int) int {
	if unitCost <= 0 {
		return budgetUnits
	}
	return budgetUnits / unitCost
}

// Classify assigns a sync depth to each conversation: the k most recent by
// last_message_at get full history, the rest keep only a preview. A
// conversation already at full stays full — promotion is one-way and user
// promotions are never undone by a later pass.
func Classify(conversations []*domain.Conversation, k int) {
	sorted := make([]*domain.Conversation, len(conversations))
	copy(sorted, conversations)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].LastMessageAt, sorted[j].LastMessageAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	for i, conv := range sorted {
		if conv.SyncDepth == domain.SyncDepthFull {
			continue
		}
		if i < k {
			conv.SyncDepth = domain.SyncDepthFull
		} else {
			conv.SyncDepth = domain.SyncDepthPreview
		}
	}
}
