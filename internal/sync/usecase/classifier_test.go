package usecase

import (
	"testing"
	"time"

	"netsync-backend/internal/sync/domain"
)

func makeConversations(n int, newestFirst time.Time) []*domain.Conversation {
	conversations := make([]*domain.Conversation, n)
	for i := 0; i < n; i++ {
		ts := newestFirst.Add(-time.Duration(i) * time.Minute)
		conversations[i] = &domain.Conversation{
			PlatformConversationID: string(rune('a' + i%26)),
			LastMessageAt:          &ts,
		}
	}
	return conversations
}

func TestClassifySplitsAtThreshold(t *testing.T) {
	now := time.Now()
	conversations := makeConversations(550, now)

	Classify(conversations, 500)

	var full, preview int
	for _, conv := range conversations {
		switch conv.SyncDepth {
		case domain.SyncDepthFull:
			full++
		case domain.SyncDepthPreview:
			preview++
		default:
			t.Fatalf("conversation left without depth: %+v", conv)
		}
	}
	if full != 500 || preview != 50 {
		t.Errorf("expected 500 full / 50 preview, got %d / %d", full, preview)
	}

	// The 50 oldest are the ones previewed
	for i, conv := range conversations {
		wantFull := i < 500
		gotFull := conv.SyncDepth == domain.SyncDepthFull
		if wantFull != gotFull {
			t.Fatalf("conversation at recency rank %d has depth %s", i, conv.SyncDepth)
		}
	}
}

func TestClassifyFitsUnderThreshold(t *testing.T) {
	conversations := makeConversations(10, time.Now())

	Classify(conversations, 500)

	for _, conv := range conversations {
		if conv.SyncDepth != domain.SyncDepthFull {
			t.Errorf("all conversations fit the budget but %s is %s", conv.PlatformConversationID, conv.SyncDepth)
		}
	}
}

// A conversation already at full history keeps it even when it falls out of
// the recency window.
func TestClassifyNeverDemotesFull(t *testing.T) {
	now := time.Now()
	conversations := makeConversations(5, now)

	// The oldest one was promoted earlier
	conversations[4].SyncDepth = domain.SyncDepthFull

	Classify(conversations, 2)

	if conversations[4].SyncDepth != domain.SyncDepthFull {
		t.Error("previously full conversation was demoted to preview")
	}
	if conversations[0].SyncDepth != domain.SyncDepthFull || conversations[1].SyncDepth != domain.SyncDepthFull {
		t.Error("the two most recent conversations should be full")
	}
	if conversations[2].SyncDepth != domain.SyncDepthPreview || conversations[3].SyncDepth != domain.SyncDepthPreview {
		t.Error("conversations outside the window should be preview")
	}
}

func TestClassifyNilTimestampsSortLast(t *testing.T) {
	now := time.Now()
	conversations := makeConversations(3, now)
	conversations[0].LastMessageAt = nil

	Classify(conversations, 2)

	if conversations[0].SyncDepth != domain.SyncDepthPreview {
		t.Error("conversation without a timestamp should rank last")
	}
}

func TestThresholdFromBudget(t *testing.T) {
	if got := ThresholdFromBudget(500, 1); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
	if got := ThresholdFromBudget(500, 2); got != 250 {
		t.Errorf("expected 250, got %d", got)
	}
	if got := ThresholdFromBudget(500, 0); got != 500 {
		t.Errorf("zero unit cost should fall back to the budget, got %d", got)
	}
}
