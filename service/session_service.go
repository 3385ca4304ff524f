package service

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	sessionKeyCredential   = "credential"
	sessionKeyState        = "oauth_state"
	sessionKeyFlash        = "flash"
	sessionKeyConversation = "conversation"
)

// SessionStore is the per-browser-session cache. Entries expire with the
// session cookie.
type SessionStore struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func sessionKey(sessionID, key string) string {
	return sessionID + ":" + key
}

func (s *SessionStore) Set(sessionID, key string, value interface{}) {
	s.cache.Set(sessionKey(sessionID, key), value, cache.DefaultExpiration)
}

func (s *SessionStore) Get(sessionID, key string) (interface{}, bool) {
	return s.cache.Get(sessionKey(sessionID, key))
}

func (s *SessionStore) Delete(sessionID, key string) {
	s.cache.Delete(sessionKey(sessionID, key))
}

// Pop returns the value and removes it in one step.
func (s *SessionStore) Pop(sessionID, key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(sessionKey(sessionID, key))
	if ok {
		s.cache.Delete(sessionKey(sessionID, key))
	}
	return v, ok
}

func (s *SessionStore) AddFlash(sessionID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var flashes []string
	if v, ok := s.cache.Get(sessionKey(sessionID, sessionKeyFlash)); ok {
		flashes = v.([]string)
	}
	s.cache.Set(sessionKey(sessionID, sessionKeyFlash), append(flashes, message), cache.DefaultExpiration)
}

// Flashes returns and clears the pending flash messages.
func (s *SessionStore) Flashes(sessionID string) []string {
	v, ok := s.Pop(sessionID, sessionKeyFlash)
	if !ok {
		return nil
	}
	return v.([]string)
}

// Conversation returns the session's conversation, creating it with newConv
// on first use.
func (s *SessionStore) Conversation(sessionID string, newConv func() *Conversation) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache.Get(sessionKey(sessionID, sessionKeyConversation)); ok {
		return v.(*Conversation)
	}
	conv := newConv()
	s.cache.Set(sessionKey(sessionID, sessionKeyConversation), conv, cache.DefaultExpiration)
	return conv
}
