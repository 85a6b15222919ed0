package api

import (
	"sort"
	"sync"
	"time"

	"weather-chat/metrics"

	"github.com/google/uuid"
)

// Transport names recorded on sessions
const (
	TransportWebSocket = "websocket"
	TransportHTTP      = "http"
)

// Session describes one open chat session. It is bookkeeping only and never
// influences the replies a session receives.
type Session struct {
	ID         string    `json:"id"`
	Transport  string    `json:"transport"`
	StartedAt  time.Time `json:"started_at"`
	LastActive time.Time `json:"last_active"`
	Messages   int       `json:"messages"`
}

// SessionStore holds the open chat sessions keyed by ID
type SessionStore struct {
	data    map[string]*Session
	mutex   sync.RWMutex
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSessionStore creates a new in-memory session store. m may be nil.
func NewSessionStore(m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		data:    make(map[string]*Session),
		metrics: m,
		now:     time.Now,
	}
}

// Open registers a new session and returns a copy of it
func (s *SessionStore) Open(transport string) Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	session := &Session{
		ID:         uuid.NewString(),
		Transport:  transport,
		StartedAt:  now,
		LastActive: now,
	}
	s.data[session.ID] = session
	s.metrics.SetActiveSessions(len(s.data))

	return *session
}

// Touch records one handled message for a session
func (s *SessionStore) Touch(id string) (Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, exists := s.data[id]
	if !exists {
		return Session{}, false
	}
	session.Messages++
	session.LastActive = s.now()
	return *session, true
}

// Get retrieves a session by ID
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, exists := s.data[id]
	if !exists {
		return Session{}, false
	}
	return *session, true
}

// Close removes a session, reporting whether it existed
func (s *SessionStore) Close(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[id]; !exists {
		return false
	}
	delete(s.data, id)
	s.metrics.SetActiveSessions(len(s.data))
	return true
}

// List returns all sessions ordered by start time
func (s *SessionStore) List() []Session {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sessions := make([]Session, 0, len(s.data))
	for _, session := range s.data {
		sessions = append(sessions, *session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions
}

// Count returns the number of open sessions
func (s *SessionStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// PruneIdle removes HTTP sessions inactive for longer than maxAge.
// Websocket sessions live as long as their connection and are left alone.
func (s *SessionStore) PruneIdle(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxAge)
	prunedCount := 0

	for id, session := range s.data {
		if session.Transport == TransportWebSocket {
			continue
		}
		if session.LastActive.Before(cutoff) {
			delete(s.data, id)
			prunedCount++
		}
	}

	if prunedCount > 0 {
		s.metrics.SetActiveSessions(len(s.data))
	}
	return prunedCount
}
