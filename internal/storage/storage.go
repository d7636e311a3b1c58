// Package storage keeps viewer sessions in memory.
package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
)

// SessionStore maps session ids to explorers. Sessions live until deleted
// or evicted for inactivity.
type SessionStore struct {
	sessions map[string]*explorer.Explorer
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*explorer.Explorer),
	}
}

func (s *SessionStore) Get(sessionID string) (*explorer.Explorer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *explorer.Explorer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) GetAll() map[string]*explorer.Explorer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*explorer.Explorer, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}

// EvictIdle deletes sessions not active within ttl of now and returns
// their ids, sorted. Sessions with a fetch in flight are kept.
func (s *SessionStore) EvictIdle(now time.Time, ttl time.Duration) []string {
	cutoff := now.Add(-ttl)

	var idle []string
	for id, session := range s.GetAll() {
		if session.LastActive().Before(cutoff) && !session.Snapshot().Fetching {
			idle = append(idle, id)
		}
	}

	evicted := idle[:0]
	for _, id := range idle {
		if s.Delete(id) {
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted
}
