package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

func TestCookieSessionStoreRoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef"))
	cfg := Config{CookieSameSite: "Strict"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	sess, err := store.Get(req, sessionName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	slot := NewCookieSessionStore(cfg, sess, req, w)
	if _, ok := slot.Token(); ok {
		t.Fatalf("fresh session must have no token")
	}
	if err := slot.SetToken("abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].SameSite != http.SameSiteStrictMode || cookies[0].MaxAge != sessionMaxAge {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	// A later request carrying the cookie reads the same token.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	sess2, err := store.Get(req2, sessionName)
	if err != nil {
		t.Fatalf("Get with cookie: %v", err)
	}
	slot2 := NewCookieSessionStore(cfg, sess2, req2, w2)
	if tok, ok := slot2.Token(); !ok || tok != "abc" {
		t.Fatalf("token = %q, %v", tok, ok)
	}
	if err := slot2.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if _, ok := slot2.Token(); ok {
		t.Fatalf("token must be gone after ClearToken")
	}
}

func TestCookieSessionStoreWithoutSession(t *testing.T) {
	var slot *CookieSessionStore
	if _, ok := slot.Token(); ok {
		t.Fatalf("nil store must read as no token")
	}
	if _, ok := NewCookieSessionStore(Config{}, nil, nil, nil).Token(); ok {
		t.Fatalf("missing session must read as no token")
	}
}

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore("")
	if _, ok := s.Token(); ok {
		t.Fatalf("empty store reports a token")
	}
	_ = s.SetToken("t1")
	if tok, ok := s.Token(); !ok || tok != "t1" {
		t.Fatalf("token = %q, %v", tok, ok)
	}
	_ = s.ClearToken()
	if _, ok := s.Token(); ok {
		t.Fatalf("token survived ClearToken")
	}
}
