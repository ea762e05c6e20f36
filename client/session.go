package client

import "sync"

// SessionStore holds the caller's session token. Two slots exist: a
// persistent one ("remember me") and a session-scoped one. When both are
// set, the session-scoped token wins.
type SessionStore struct {
	mu              sync.RWMutex
	persistentToken string
	sessionToken    string
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// SetToken stores a token. With remember set the token goes to the
// persistent slot and the session slot is cleared, and vice versa, so a
// login always leaves exactly one slot populated.
func (s *SessionStore) SetToken(token string, remember bool) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if remember {
		s.persistentToken = token
		s.sessionToken = ""
	} else {
		s.sessionToken = token
		s.persistentToken = ""
	}
}

// Token returns the active token: the session-scoped one if present,
// otherwise the persistent one, otherwise empty.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessionToken != "" {
		return s.sessionToken
	}
	return s.persistentToken
}

// Clear drops both tokens
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistentToken = ""
	s.sessionToken = ""
}
