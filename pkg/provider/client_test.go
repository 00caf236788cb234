package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListConversationsParsesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Query().Get("account_id") != "acc1" {
			t.Errorf("missing account_id, got %q", r.URL.Query().Get("account_id"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"id": "conv1", "subject": "Hello", "unread_count": 2},
				{"subject": "no id, dropped"},
				{"id": "conv2", "archived": true}
			],
			"cursor": "next-page"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "", "")
	page, err := client.ListConversations(context.Background(), Auth{}, "acc1", 100, "")
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("expected 2 valid conversations, got %d", len(page.Items))
	}
	if page.Skipped != 1 {
		t.Errorf("the id-less item should be counted as skipped, got %d", page.Skipped)
	}
	if page.Cursor != "next-page" {
		t.Errorf("cursor not carried through, got %q", page.Cursor)
	}
	if !page.Items[1].Archived {
		t.Error("archived flag lost in parsing")
	}
}

// A response without an items array is schema drift, not an empty page
func TestListConversationsRejectsMissingItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": [], "cursor": ""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	_, err := client.ListConversations(context.Background(), Auth{}, "acc1", 100, "")
	if err == nil {
		t.Fatal("expected an error for a response without items")
	}
}

func TestListMessagesFillsConversationID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"id": "m1", "text": "hi", "timestamp": "2026-08-01T10:00:00Z"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	page, err := client.ListMessages(context.Background(), Auth{}, "chat42", 50, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 message, got %d", len(page.Items))
	}
	if page.Items[0].ConversationID != "chat42" {
		t.Errorf("chat id should default to the requested conversation, got %q", page.Items[0].ConversationID)
	}
}

func TestDoDecodesRateLimitError(t *testing.T) {
	resetAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{
			"error": "rate limit reached",
			"rate_limit_reached": true,
			"rate_limit_type": "messaging",
			"current_count": 100,
			"max_limit": 100,
			"reset_at": "2026-08-28T12:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	_, err := client.ListConversations(context.Background(), Auth{}, "acc1", 100, "")

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.RateLimitReached || apiErr.RateLimitType != "messaging" {
		t.Errorf("rate limit fields not decoded: %+v", apiErr)
	}
	if apiErr.ResetAt == nil || !apiErr.ResetAt.Equal(resetAt) {
		t.Errorf("reset_at not decoded: %v", apiErr.ResetAt)
	}
	if !apiErr.IsRateLimit() {
		t.Error("429 with flag should classify as rate limit")
	}
	if apiErr.IsTransient() {
		t.Error("rate limit errors are not transient, retrying burns budget")
	}
}

func TestDoDecodesPlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	_, err := client.ListConversations(context.Background(), Auth{}, "acc1", 100, "")

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status not recorded, got %d", apiErr.StatusCode)
	}
	if !apiErr.IsTransient() {
		t.Error("a 502 should be retryable")
	}
}

func TestSendMessageParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"id": "m9", "text": "sent text", "is_self": true, "timestamp": "2026-08-28T09:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	msg, err := client.SendMessage(context.Background(), Auth{}, "chat1", "sent text")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != "m9" || !msg.IsSelf {
		t.Errorf("send response not parsed: %+v", msg)
	}
	if msg.ConversationID != "chat1" {
		t.Errorf("chat id should default to the target conversation, got %q", msg.ConversationID)
	}
}
