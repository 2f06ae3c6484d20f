package auth

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"tts-eval-platform/backend/internal/coreengine/samplingengine"
	"tts-eval-platform/backend/internal/datastore"
)

// Session is the explicit per-rater context threaded through the evaluation
// handlers. Besides the identity it owns the transient batch state (active
// MOS/A/B batches and swap flags), which is never shared between raters and
// never persisted.
type Session struct {
	Token     string
	UserID    int
	Username  string
	IsAdmin   bool
	ExpiresAt time.Time

	Batches *samplingengine.BatchSession
}

// SessionStore is an in-memory session registry keyed by opaque tokens.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore creates a session store with the given session lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
	}
}

// Create opens a new session for the authenticated user and returns it.
func (s *SessionStore) Create(user *datastore.User) *Session {
	sess := &Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(s.ttl),
		Batches:   samplingengine.NewBatchSession(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return sess
}

// Get returns the session for a token, or nil when the token is unknown or
// expired. Expired sessions are removed on lookup.
func (s *SessionStore) Get(token string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil
	}
	return sess
}

// Delete discards the session for a token.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
