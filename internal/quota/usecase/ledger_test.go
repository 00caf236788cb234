package usecase

import (
	"sync"
	"testing"
	"time"

	"netsync-backend/internal/quota/domain"
)

// fakeQuotaRepo is an in-memory QuotaRepository with the same atomic
// consume semantics as the SQL implementation.
type fakeQuotaRepo struct {
	mu      sync.Mutex
	records map[string]*domain.QuotaRecord // userID|month
	audit   []*domain.AuditEntry
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{records: make(map[string]*domain.QuotaRecord)}
}

func (f *fakeQuotaRepo) Consume(userID, month string, amount, cap int) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := userID + "|" + month
	record, ok := f.records[key]
	if !ok {
		record = &domain.QuotaRecord{UserID: userID, Month: month, Cap: cap, Remaining: cap}
		f.records[key] = record
	}

	granted := amount
	if granted > record.Remaining {
		granted = record.Remaining
	}
	record.Extracted += granted
	record.Remaining -= granted
	return granted, record.Remaining, nil
}

func (f *fakeQuotaRepo) Get(userID, month string, cap int) (*domain.QuotaRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.records[userID+"|"+month]; ok {
		copied := *record
		return &copied, nil
	}
	return &domain.QuotaRecord{UserID: userID, Month: month, Cap: cap, Remaining: cap}, nil
}

func (f *fakeQuotaRepo) AppendAudit(entry *domain.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, entry)
	return nil
}

func (f *fakeQuotaRepo) ListAudit(userID string, limit int) ([]*domain.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.AuditEntry
	for i := len(f.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if f.audit[i].UserID == userID {
			out = append(out, f.audit[i])
		}
	}
	return out, nil
}

type recordedEvent struct {
	userID    string
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) SendToUser(userID string, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{userID, eventType, payload})
}

func (f *fakeEvents) byType(eventType string) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedEvent
	for _, e := range f.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestTryConsumeFullGrant(t *testing.T) {
	ledger := NewLedger(newFakeQuotaRepo(), 3000, []int{80, 90}, nil)

	grant, err := ledger.TryConsume("u1", "contact_extraction", 100)
	if err != nil {
		t.Fatal(err)
	}
	if grant.Granted != 100 || grant.Shortfall != 0 || grant.Remaining != 2900 {
		t.Errorf("unexpected grant: %+v", grant)
	}
}

// A request that exceeds the remaining balance is granted exactly the
// remainder, never rejected outright and never over-granted.
func TestTryConsumePartialGrantAtBoundary(t *testing.T) {
	repo := newFakeQuotaRepo()
	ledger := NewLedger(repo, 3000, nil, nil)

	if _, err := ledger.TryConsume("u1", "contact_extraction", 2980); err != nil {
		t.Fatal(err)
	}

	grant, err := ledger.TryConsume("u1", "contact_extraction", 50)
	if err != nil {
		t.Fatal(err)
	}
	if grant.Granted != 20 || grant.Shortfall != 30 || grant.Remaining != 0 {
		t.Errorf("expected 20 granted / 30 shortfall / 0 remaining, got %+v", grant)
	}

	// Exhausted: the next request gets nothing
	grant, err = ledger.TryConsume("u1", "contact_extraction", 1)
	if err != nil {
		t.Fatal(err)
	}
	if grant.Granted != 0 || grant.Shortfall != 1 {
		t.Errorf("expected zero grant after exhaustion, got %+v", grant)
	}

	record, err := ledger.Status("u1")
	if err != nil {
		t.Fatal(err)
	}
	if record.Extracted+record.Remaining != record.Cap {
		t.Errorf("ledger invariant broken: %+v", record)
	}
}

func TestTryConsumeConcurrentNeverOverGrants(t *testing.T) {
	repo := newFakeQuotaRepo()
	ledger := NewLedger(repo, 50, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			grant, err := ledger.TryConsume("u1", "contact_extraction", 1)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			total += grant.Granted
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 50 {
		t.Errorf("concurrent grants delivered %d, cap is 50", total)
	}
}

func TestTryConsumeAuditOutcomes(t *testing.T) {
	repo := newFakeQuotaRepo()
	ledger := NewLedger(repo, 100, nil, nil)

	ledger.TryConsume("u1", "contact_extraction", 60)  // granted
	ledger.TryConsume("u1", "contact_extraction", 60)  // partial (40)
	ledger.TryConsume("u1", "contact_extraction", 10)  // rejected

	entries, err := ledger.Audit("u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}

	// Newest first
	wantOutcomes := []string{"rejected", "partial", "granted"}
	for i, want := range wantOutcomes {
		if entries[i].Outcome != want {
			t.Errorf("entry %d: expected outcome %s, got %s", i, want, entries[i].Outcome)
		}
	}
	if entries[1].Requested != 60 || entries[1].Delivered != 40 {
		t.Errorf("partial entry should record requested/delivered: %+v", entries[1])
	}
}

func TestWarnOnThresholdCrossing(t *testing.T) {
	events := &fakeEvents{}
	ledger := NewLedger(newFakeQuotaRepo(), 100, []int{80, 90}, events)

	ledger.TryConsume("u1", "contact_extraction", 79)
	if got := events.byType("quota_warning"); len(got) != 0 {
		t.Fatalf("no threshold crossed yet, got %d warnings", len(got))
	}

	ledger.TryConsume("u1", "contact_extraction", 5) // 79 -> 84, crosses 80
	if got := events.byType("quota_warning"); len(got) != 1 {
		t.Fatalf("expected one warning after crossing 80%%, got %d", len(got))
	}

	// Staying above the threshold does not re-fire it
	ledger.TryConsume("u1", "contact_extraction", 2) // 84 -> 86
	if got := events.byType("quota_warning"); len(got) != 1 {
		t.Fatalf("threshold re-fired without a crossing, got %d warnings", len(got))
	}

	ledger.TryConsume("u1", "contact_extraction", 10) // 86 -> 96, crosses 90
	if got := events.byType("quota_warning"); len(got) != 2 {
		t.Fatalf("expected second warning after crossing 90%%, got %d", len(got))
	}
}

func TestMonthKeyIsUTC(t *testing.T) {
	// 2026-01-31 23:30 in UTC-5 is already February in UTC
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2026, 1, 31, 23, 30, 0, 0, loc)
	if got := domain.MonthKey(ts); got != "2026-02" {
		t.Errorf("expected month key 2026-02, got %s", got)
	}
}
