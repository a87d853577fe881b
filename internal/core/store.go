package core

// store.go keeps split results in memory until they are superseded or
// expire.
//
// Results are grouped by owner (a browser session or API client). Storing
// a new result for an owner drops that owner's previous result, so the most
// recent split is the one that stays retrievable. Anything older than the
// configured TTL is swept periodically.

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultResultTTL is how long a result stays retrievable when no TTL is configured.
const DefaultResultTTL = 30 * time.Minute

type storedResult struct {
	owner  string
	result *SplitResult
}

// ResultStore holds recent split results keyed by ID.
type ResultStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	byID    map[string]storedResult
	byOwner map[string]string
}

// NewResultStore creates a store that keeps results for ttl.
func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultStore{
		ttl:     ttl,
		now:     time.Now,
		byID:    make(map[string]storedResult),
		byOwner: make(map[string]string),
	}
}

// Put stores r. If owner is non-empty, the owner's previous result is removed.
func (s *ResultStore) Put(owner string, r *SplitResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner != "" {
		if prev, ok := s.byOwner[owner]; ok {
			delete(s.byID, prev)
		}
		s.byOwner[owner] = r.ID
	}
	s.byID[r.ID] = storedResult{owner: owner, result: r}
}

// Get returns the result with the given ID if it has not expired.
func (s *ResultStore) Get(id string) (*SplitResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, ok := s.byID[id]
	if !ok || s.expired(sr.result) {
		return nil, false
	}
	return sr.result, true
}

// Latest returns the owner's current result, if any.
func (s *ResultStore) Latest(owner string) (*SplitResult, bool) {
	s.mu.RLock()
	id, ok := s.byOwner[owner]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// Len returns the number of stored results, expired ones included.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Sweep removes expired results and returns how many were removed.
func (s *ResultStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sr := range s.byID {
		if !s.expired(sr.result) {
			continue
		}
		delete(s.byID, id)
		if sr.owner != "" && s.byOwner[sr.owner] == id {
			delete(s.byOwner, sr.owner)
		}
		removed++
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *ResultStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("result sweeper started", "interval", interval, "ttl", s.ttl)

	for {
		select {
		case <-ctx.Done():
			slog.Info("result sweeper stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired split results removed", "count", n)
			}
		}
	}
}

func (s *ResultStore) expired(r *SplitResult) bool {
	return s.now().Sub(r.CreatedAt) > s.ttl
}
