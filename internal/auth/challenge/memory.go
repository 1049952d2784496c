package challenge

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

// MemoryStore keeps challenges in process. Each record is evicted by a timer
// when its TTL elapses, and Consume re-checks the expiry in case the timer
// has not fired yet.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	records map[string]memoryEntry
}

type memoryEntry struct {
	record domain.Challenge
	timer  *time.Timer
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
		records: make(map[string]memoryEntry),
	}
}

// WithClock overrides the clock used to stamp and check expiry. Eviction
// timers still run on wall time.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Issue(_ context.Context, p Params) (domain.Challenge, error) {
	rec, err := newRecord(p, s.now(), s.ttl)
	if err != nil {
		return domain.Challenge{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.Challenge
	s.records[id] = memoryEntry{
		record: rec,
		timer:  time.AfterFunc(s.ttl, func() { s.evict(id) }),
	}
	return rec, nil
}

func (s *MemoryStore) Consume(_ context.Context, id string) (domain.Challenge, error) {
	s.mu.Lock()
	entry, ok := s.records[id]
	if ok {
		delete(s.records, id)
	}
	s.mu.Unlock()

	if !ok {
		return domain.Challenge{}, ErrNotFound
	}
	entry.timer.Stop()

	if entry.record.Expired(s.now()) {
		return domain.Challenge{}, ErrNotFound
	}
	return entry.record, nil
}

// Len reports how many challenges are currently held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close stops every pending eviction timer and drops all records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.records {
		entry.timer.Stop()
		delete(s.records, id)
	}
	return nil
}

func (s *MemoryStore) evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}
