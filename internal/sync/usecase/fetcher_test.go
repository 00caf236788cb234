package usecase

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"netsync-backend/internal/sync/domain"
	"netsync-backend/pkg/provider"
)

var testScope = domain.CursorScope{WorkspaceID: "ws", AccountID: "acc", Endpoint: "conversations"}

// pagedSource serves numbered items in fixed-size pages
type pagedSource struct {
	items    []int
	pageSize int
	calls    int
	// failures maps call index -> error injected before serving that page
	failures map[int]error
}

func (s *pagedSource) page(ctx context.Context, cursor string, limit int) ([]int, string, int, error) {
	call := s.calls
	s.calls++
	if err, ok := s.failures[call]; ok {
		return nil, "", 0, err
	}

	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	end := start + limit
	if end > len(s.items) {
		end = len(s.items)
	}

	next := ""
	if end < len(s.items) {
		next = strconv.Itoa(end)
	}
	return s.items[start:end], next, 0, nil
}

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func fetchOpts(pageSize, maxPages int) FetchOptions {
	return FetchOptions{
		Scope:         testScope,
		PageSize:      pageSize,
		MaxPages:      maxPages,
		RetryAttempts: 3,
		BackoffBase:   time.Millisecond,
	}
}

func TestFetchAllStopsOnShortPage(t *testing.T) {
	source := &pagedSource{items: intRange(25), pageSize: 10}
	cursors := NewMemoryCursorStore()

	var got []int
	stats := FetchAll(context.Background(), cursors, fetchOpts(10, 0), source.page, func(items []int) error {
		got = append(got, items...)
		return nil
	})

	if stats.Err != nil {
		t.Fatalf("unexpected error: %v", stats.Err)
	}
	if stats.Pages != 3 || stats.Items != 25 {
		t.Errorf("expected 3 pages / 25 items, got %d / %d", stats.Pages, stats.Items)
	}
	if len(got) != 25 || got[0] != 0 || got[24] != 24 {
		t.Errorf("sink received wrong items: %v", got)
	}
}

func TestFetchAllHonorsMaxPages(t *testing.T) {
	source := &pagedSource{items: intRange(100), pageSize: 10}

	stats := FetchAll(context.Background(), NewMemoryCursorStore(), fetchOpts(10, 3), source.page, func([]int) error { return nil })

	if stats.Err != nil {
		t.Fatalf("unexpected error: %v", stats.Err)
	}
	if stats.Pages != 3 || stats.Items != 30 {
		t.Errorf("expected walk capped at 3 pages / 30 items, got %d / %d", stats.Pages, stats.Items)
	}
}

func TestFetchAllRetriesTransientErrors(t *testing.T) {
	source := &pagedSource{
		items:    intRange(15),
		pageSize: 10,
		failures: map[int]error{1: &provider.APIError{StatusCode: 503, Message: "upstream hiccup"}},
	}

	stats := FetchAll(context.Background(), NewMemoryCursorStore(), fetchOpts(10, 0), source.page, func([]int) error { return nil })

	if stats.Err != nil {
		t.Fatalf("transient error should be retried away, got: %v", stats.Err)
	}
	if stats.Items != 15 {
		t.Errorf("expected all 15 items after retry, got %d", stats.Items)
	}
}

func TestFetchAllKeepsPartialProgressOnPermanentError(t *testing.T) {
	source := &pagedSource{
		items:    intRange(30),
		pageSize: 10,
		failures: map[int]error{1: &provider.APIError{StatusCode: 403, Message: "forbidden"}},
	}
	cursors := NewMemoryCursorStore()

	var got []int
	stats := FetchAll(context.Background(), cursors, fetchOpts(10, 0), source.page, func(items []int) error {
		got = append(got, items...)
		return nil
	})

	if stats.Err == nil {
		t.Fatal("expected the permanent error to surface")
	}
	if stats.Pages != 1 || len(got) != 10 {
		t.Errorf("first page should be kept: pages=%d items=%d", stats.Pages, len(got))
	}

	// The cursor points past the persisted page, so a later walk resumes
	cursor, err := cursors.Load(testScope)
	if err != nil {
		t.Fatal(err)
	}
	if cursor != "10" {
		t.Errorf("expected cursor at 10, got %q", cursor)
	}

	source.failures = nil
	resumed := FetchAll(context.Background(), cursors, fetchOpts(10, 0), source.page, func(items []int) error {
		got = append(got, items...)
		return nil
	})
	if resumed.Err != nil {
		t.Fatalf("resume failed: %v", resumed.Err)
	}
	if len(got) != 30 {
		t.Errorf("resume should continue where the cursor left off, got %d items total", len(got))
	}
}

func TestFetchAllFullRescanResetsCursor(t *testing.T) {
	source := &pagedSource{items: intRange(5), pageSize: 10}
	cursors := NewMemoryCursorStore()
	if err := cursors.Save(testScope, "999"); err != nil {
		t.Fatal(err)
	}

	opts := fetchOpts(10, 0)
	opts.FullRescan = true

	var got []int
	stats := FetchAll(context.Background(), cursors, opts, source.page, func(items []int) error {
		got = append(got, items...)
		return nil
	})

	if stats.Err != nil {
		t.Fatalf("unexpected error: %v", stats.Err)
	}
	if len(got) != 5 {
		t.Errorf("full rescan should start from the beginning, got %d items", len(got))
	}
}

func TestFetchAllPropagatesSinkError(t *testing.T) {
	source := &pagedSource{items: intRange(20), pageSize: 10}

	stats := FetchAll(context.Background(), NewMemoryCursorStore(), fetchOpts(10, 0), source.page, func([]int) error {
		return fmt.Errorf("disk full")
	})

	if stats.Err == nil || stats.Err.Error() != "disk full" {
		t.Errorf("expected sink error to stop the walk, got %v", stats.Err)
	}
}

func TestFetchAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &pagedSource{items: intRange(20), pageSize: 10}
	stats := FetchAll(ctx, NewMemoryCursorStore(), fetchOpts(10, 0), source.page, func([]int) error { return nil })

	if stats.Err == nil {
		t.Error("cancelled context should surface as an error")
	}
	if stats.Pages != 0 {
		t.Errorf("no pages should be fetched after cancellation, got %d", stats.Pages)
	}
}
