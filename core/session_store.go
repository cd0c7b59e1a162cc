package core

import (
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
)

// tokenKey is the single slot holding the raw auth token.
const tokenKey = "token"

// SessionStore persists the auth token for one browser.
// A token's presence is treated as an active session; nothing validates it here.
type SessionStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// CookieSessionStore keeps the token inside the signed gorilla session cookie.
// It is bound to a single request/response pair.
type CookieSessionStore struct {
	cfg     Config
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
}

func NewCookieSessionStore(cfg Config, session *sessions.Session, r *http.Request, w http.ResponseWriter) *CookieSessionStore {
	return &CookieSessionStore{cfg: cfg, session: session, r: r, w: w}
}

// Token returns the stored token. A missing or unreadable session reads as no token.
func (s *CookieSessionStore) Token() (string, bool) {
	if s == nil || s.session == nil {
		return "", false
	}
	token, _ := s.session.Values[tokenKey].(string)
	return token, token != ""
}

func (s *CookieSessionStore) SetToken(token string) error {
	s.session.Values[tokenKey] = token
	applySessionOptions(s.cfg, s.session)
	return s.session.Save(s.r, s.w)
}

func (s *CookieSessionStore) ClearToken() error {
	delete(s.session.Values, tokenKey)
	applySessionOptions(s.cfg, s.session)
	return s.session.Save(s.r, s.w)
}

// MemorySessionStore is an in-process SessionStore.
type MemorySessionStore struct {
	mu    sync.Mutex
	token string
}

func NewMemorySessionStore(token string) *MemorySessionStore {
	return &MemorySessionStore{token: token}
}

func (s *MemorySessionStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemorySessionStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemorySessionStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
