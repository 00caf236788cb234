package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"netsync-backend/internal/sync/domain"
	"netsync-backend/pkg/provider"
)

// CursorStore is the slice of the cursor repository the fetcher owns
type CursorStore interface {
	Load(scope domain.CursorScope) (string, error)
	Save(scope domain.CursorScope, cursor string) error
	Reset(scope domain.CursorScope) error
}

// PageFunc fetches one page starting at cursor. It returns the page items,
// the next cursor and the number of malformed items the parser dropped.
type PageFunc[T any] func(ctx context.Context, cursor string, limit int) (items []T, next string, skipped int, err error)

// FetchOptions bounds one traversal
type FetchOptions struct {
	Scope         domain.CursorScope
	PageSize      int
	MaxPages      int
	RetryAttempts int
	FullRescan    bool
	// BackoffBase is the first retry delay; doubles per attempt. Zero means
	// 500ms. Tests shrink it.
	BackoffBase time.Duration
}

// FetchStats reports what a traversal achieved. Err is non-nil when the
// walk stopped early; everything fetched before that point has already been
// handed to the sink and the cursor points past it.
type FetchStats struct {
	Pages   int
	Items   int
	Skipped int
	Err     error
}

// FetchAll walks a paginated endpoint until a short page signals exhaustion,
// MaxPages is reached, or the context is cancelled. Each page is retried
// with exponential backoff while the failure looks transient; exhausted
// retries stop the traversal without discarding prior pages. The cursor
// advances only after a page is fetched and persisted, so a later restart
// resumes instead of rescanning.
func FetchAll[T any](ctx context.Context, cursors CursorStore, opts FetchOptions, page PageFunc[T], sink func([]T) error) *FetchStats {
	stats := &FetchStats{}

	if opts.FullRescan {
		if err := cursors.Reset(opts.Scope); err != nil {
			stats.Err = err
			return stats
		}
	}

	cursor, err := cursors.Load(opts.Scope)
	if err != nil {
		stats.Err = err
		return stats
	}

	backoff := opts.BackoffBase
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	for {
		if ctx.Err() != nil {
			stats.Err = ctx.Err()
			return stats
		}

		items, next, skipped, err := fetchPageWithRetry(ctx, opts, page, cursor, backoff)
		if err != nil {
			stats.Err = err
			return stats
		}

		stats.Skipped += skipped

		if len(items) > 0 {
			if err := sink(items); err != nil {
				stats.Err = err
				return stats
			}
			stats.Items += len(items)
		}
		stats.Pages++

		if err := cursors.Save(opts.Scope, next); err != nil {
			stats.Err = err
			return stats
		}

		// A short page or a missing cursor means the endpoint is exhausted
		if len(items) < opts.PageSize || next == "" {
			return stats
		}
		if opts.MaxPages > 0 && stats.Pages >= opts.MaxPages {
			log.Printf("[Fetch] Stopping %s walk at max pages (%d)", opts.Scope.Endpoint, opts.MaxPages)
			return stats
		}

		cursor = next
	}
}

func fetchPageWithRetry[T any](ctx context.Context, opts FetchOptions, page PageFunc[T], cursor string, backoff time.Duration) ([]T, string, int, error) {
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, "", 0, ctx.Err()
			}
		}

		items, next, skipped, err := page(ctx, cursor, opts.PageSize)
		if err == nil {
			return items, next, skipped, nil
		}
		lastErr = err

		if !provider.IsTransient(err) {
			break
		}
		log.Printf("[Fetch] Transient error on %s page (attempt %d/%d): %v", opts.Scope.Endpoint, attempt+1, attempts, err)
	}
	return nil, "", 0, lastErr
}

// MemoryCursorStore keeps cursors in memory. Per-conversation message walks
// restart every pass and do not need durable cursors; only the top-level
// endpoint walks persist theirs.
type MemoryCursorStore struct {
	mu      sync.Mutex
	cursors map[domain.CursorScope]string
}

func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{cursors: make(map[domain.CursorScope]string)}
}

func (s *MemoryCursorStore) Load(scope domain.CursorScope) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[scope], nil
}

func (s *MemoryCursorStore) Save(scope domain.CursorScope, cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[scope] = cursor
	return nil
}

func (s *MemoryCursorStore) Reset(scope domain.CursorScope) error {
	return s.Save(scope, "")
}
