// services/round_store.go
package services

import (
	"errors"
	"sync"
	"time"

	"prize-trainer/game"
)

var ErrRoundNotFound = errors.New("round not found")

// LiveRound is a play-through in progress. Callers must hold mu while they
// touch Round or the result fields.
type LiveRound struct {
	mu sync.Mutex

	ID       string
	UserID   string
	DeckID   *string
	DeckName string
	Round    *game.Round

	SessionID string // set once the result is recorded
	touched   time.Time
}

// RoundStore keeps live rounds in memory, keyed by id.
type RoundStore struct {
	mu     sync.RWMutex
	rounds map[string]*LiveRound
	now    func() time.Time
}

func NewRoundStore() *RoundStore {
	return &RoundStore{rounds: make(map[string]*LiveRound), now: time.Now}
}

func (s *RoundStore) Add(r *LiveRound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.touched = s.now()
	s.rounds[r.ID] = r
}

// Get returns the round if it exists and belongs to userID, and marks it as
// recently used.
func (s *RoundStore) Get(userID, id string) (*LiveRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[id]
	if !ok || r.UserID != userID {
		return nil, ErrRoundNotFound
	}
	r.touched = s.now()
	return r, nil
}

func (s *RoundStore) Remove(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[id]
	if !ok || r.UserID != userID {
		return ErrRoundNotFound
	}
	delete(s.rounds, id)
	return nil
}

// EvictStale drops rounds untouched for longer than ttl and returns how many
// were removed.
func (s *RoundStore) EvictStale(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	evicted := 0
	for id, r := range s.rounds {
		if r.touched.Before(cutoff) {
			delete(s.rounds, id)
			evicted++
		}
	}
	return evicted
}

func (s *RoundStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}
