package usecase

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs sync passes on a periodic timer, one entry per
// workspace/account pair. At most one pass per key is Running at any time;
// a tick or manual trigger that lands while a pass is in flight is dropped,
// not queued.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*schedulerEntry
}

type schedulerEntry struct {
	running  int32
	cancel   context.CancelFunc
	stopChan chan struct{}
	interval time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{entries: make(map[string]*schedulerEntry)}
}

func (s *Scheduler) entry(key string) *schedulerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &schedulerEntry{}
		s.entries[key] = e
	}
	return e
}

// TryRun attempts the Idle -> Running transition and launches the pass in a
// goroutine. Returns false when a pass for the key is already Running.
// Manual syncs go through the same guard as scheduled ticks.
func (s *Scheduler) TryRun(key string, run func(ctx context.Context)) bool {
	e := s.entry(key)
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	e.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			e.cancel = nil
			s.mu.Unlock()
			atomic.StoreInt32(&e.running, 0)
		}()
		run(ctx)
	}()

	return true
}

// Start arms the periodic timer for a key. Re-arming replaces the previous
// timer; an in-flight pass is unaffected.
func (s *Scheduler) Start(key string, interval time.Duration, run func(ctx context.Context)) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &schedulerEntry{}
		s.entries[key] = e
	}
	if e.stopChan != nil {
		close(e.stopChan)
	}
	stop := make(chan struct{})
	e.stopChan = stop
	e.interval = interval
	s.mu.Unlock()

	log.Printf("[Scheduler] Auto-sync armed for %s (interval: %s)", key, interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.TryRun(key, run) {
					log.Printf("[Scheduler] Tick for %s dropped: pass still running", key)
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop cancels the timer for a key. An in-flight pass is allowed to finish;
// no new tick fires.
func (s *Scheduler) Stop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.stopChan != nil {
		close(e.stopChan)
		e.stopChan = nil
		log.Printf("[Scheduler] Auto-sync stopped for %s", key)
	}
}

// CancelRun cancels the in-flight pass for a key, if any. The pass stops
// issuing new page requests but in-flight requests complete and persist.
func (s *Scheduler) CancelRun(key string) {
	s.mu.Lock()
	var fn context.CancelFunc
	if e, ok := s.entries[key]; ok && e.cancel != nil {
		fn = e.cancel
	}
	s.mu.Unlock()

	if fn != nil {
		fn()
		log.Printf("[Scheduler] Cancelled running pass for %s", key)
	}
}

// IsRunning reports whether a pass for the key is in flight
func (s *Scheduler) IsRunning(key string) bool {
	e := s.entry(key)
	return atomic.LoadInt32(&e.running) == 1
}

// IsScheduled reports whether the periodic timer is armed for the key
func (s *Scheduler) IsScheduled(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.stopChan != nil
}
