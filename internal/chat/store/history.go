package store

import (
	"context"
	"sync"

	"github.com/jvcl/datachat/internal/chat/entity"
)

// DefaultMaxHistory bounds the in-memory history when NewHistoryStore
// receives a non-positive value.
const DefaultMaxHistory = 500

// HistoryStore keeps answered questions in memory, newest last.
// When the bound is exceeded the oldest entries are dropped.
type HistoryStore struct {
	mu      sync.RWMutex
	entries []entity.HistoryEntry
	max     int
}

// NewHistoryStore creates a bounded in-memory history store.
func NewHistoryStore(max int) *HistoryStore {
	if max < 1 {
		max = DefaultMaxHistory
	}

	return &HistoryStore{max: max}
}

// Append records one history entry.
func (s *HistoryStore) Append(ctx context.Context, entry entity.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}

	return nil
}

// List returns one page of history, newest first, plus the total count.
func (s *HistoryStore) List(ctx context.Context, page, pageSize int) ([]entity.HistoryEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.entries)
	start := (page - 1) * pageSize
	end := start + pageSize

	items := make([]entity.HistoryEntry, 0, pageSize)
	for i := 0; i < total; i++ {
		if i >= start && i < end {
			items = append(items, s.entries[total-1-i])
		}
	}

	return items, total, nil
}

// FindAnswer returns the most recent successful answer for the same
// question against the same dataset fingerprint. Used by the result
// cache to skip a repeat engine call.
func (s *HistoryStore) FindAnswer(ctx context.Context, question, fingerprint string) (entity.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if entry.Err != "" {
			continue
		}
		if entry.Question == question && entry.Fingerprint == fingerprint {
			return entry.Answer, true
		}
	}

	return entity.Answer{}, false
}
