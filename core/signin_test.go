package core

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeAuthClient struct {
	mu    sync.Mutex
	resp  LoginResponse
	err   error
	calls []Credentials
	// block, when set, holds Login until closed.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeAuthClient) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, creds)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

type failingSessionStore struct{ MemorySessionStore }

func (s *failingSessionStore) SetToken(string) error { return errors.New("storage full") }

func TestSubmitSuccessPersistsTokenAndNavigates(t *testing.T) {
	client := &fakeAuthClient{resp: LoginResponse{Token: "abc", Username: "a", Email: "a@b.com"}}
	store := NewMemorySessionStore("")
	nav := &RedirectRecorder{}
	form := NewSignInForm(client, store, nav)

	res, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !res.Success || res.Token != "abc" || res.Username != "a" || res.Email != "a@b.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if tok, ok := store.Token(); !ok || tok != "abc" {
		t.Fatalf("stored token = %q, %v; want abc", tok, ok)
	}
	if nav.Target() != AfterLoginPath {
		t.Fatalf("navigated to %q; want %q", nav.Target(), AfterLoginPath)
	}
	if len(client.calls) != 1 || client.calls[0].Email != "a@b.com" || client.calls[0].Password != "x" {
		t.Fatalf("unexpected calls: %+v", client.calls)
	}
	v := form.View()
	if v.Busy || v.Error != "" || v.State != StateRedirecting {
		t.Fatalf("unexpected view after success: %+v", v)
	}
}

func TestSubmitWithoutTokenIsSilent(t *testing.T) {
	client := &fakeAuthClient{resp: LoginResponse{Username: "a", Email: "a@b.com"}}
	store := NewMemorySessionStore("")
	nav := &RedirectRecorder{}
	form := NewSignInForm(client, store, nav)

	res, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if res.Success || res.Message != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := store.Token(); ok {
		t.Fatalf("token must not be stored")
	}
	if nav.Target() != "" {
		t.Fatalf("unexpected navigation to %q", nav.Target())
	}
	v := form.View()
	if v.Busy || v.Error != "" || v.State != StateIdle {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestSubmitFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"message from body", &AuthError{Status: 401, Message: "Invalid credentials"}, "Invalid credentials"},
		{"status without body", &AuthError{Status: 500}, DefaultLoginError},
		{"network failure", errors.New("dial tcp: connection refused"), DefaultLoginError},
		{"wrapped auth error", errorsJoin(&AuthError{Status: 403, Message: "Locked"}), "Locked"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeAuthClient{err: tc.err}
			store := NewMemorySessionStore("")
			nav := &RedirectRecorder{}
			form := NewSignInForm(client, store, nav)

			res, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
			if err != nil {
				t.Fatalf("Submit error: %v", err)
			}
			if res.Success || res.Message != tc.want {
				t.Fatalf("result = %+v; want message %q", res, tc.want)
			}
			v := form.View()
			if v.Busy {
				t.Fatalf("busy flag must be cleared")
			}
			if v.Error != tc.want || v.State != StateIdleWithError {
				t.Fatalf("view = %+v; want error %q", v, tc.want)
			}
			if v.SubmitLabel != submitLabelIdle {
				t.Fatalf("label = %q", v.SubmitLabel)
			}
			if nav.Target() != "" {
				t.Fatalf("unexpected navigation to %q", nav.Target())
			}
			if _, ok := store.Token(); ok {
				t.Fatalf("token must not be stored on failure")
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("auth request"), err)
}

func TestRepeatedFailuresDoNotAccumulate(t *testing.T) {
	client := &fakeAuthClient{err: &AuthError{Status: 401, Message: "Invalid credentials"}}
	form := NewSignInForm(client, NewMemorySessionStore(""), &RedirectRecorder{})

	for i := 0; i < 3; i++ {
		if _, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"}); err != nil {
			t.Fatalf("Submit %d error: %v", i, err)
		}
		v := form.View()
		if v.Error != "Invalid credentials" || v.Busy {
			t.Fatalf("attempt %d view = %+v", i, v)
		}
	}
	if len(client.calls) != 3 {
		t.Fatalf("calls = %d; want 3", len(client.calls))
	}
}

func TestSubmitClearsPreviousErrorOnSuccess(t *testing.T) {
	client := &fakeAuthClient{err: &AuthError{Status: 401, Message: "Invalid credentials"}}
	store := NewMemorySessionStore("")
	form := NewSignInForm(client, store, &RedirectRecorder{})
	_, _ = form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "bad"})

	client.err = nil
	client.resp = LoginResponse{Token: "t1"}
	if _, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "good"}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if v := form.View(); v.Error != "" {
		t.Fatalf("error not cleared: %+v", v)
	}
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	client := &fakeAuthClient{
		resp:    LoginResponse{Token: "abc"},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	form := NewSignInForm(client, NewMemorySessionStore(""), &RedirectRecorder{})

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
		done <- err
	}()
	<-client.entered

	v := form.View()
	if !v.Busy || v.State != StateSubmitting || v.SubmitLabel != submitLabelBusy {
		t.Fatalf("view while in flight = %+v", v)
	}
	if _, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"}); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("second Submit err = %v; want ErrSubmitInProgress", err)
	}

	close(client.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit error: %v", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("calls = %d; want 1", len(client.calls))
	}
	if form.View().Busy {
		t.Fatalf("busy flag must be cleared")
	}
}

func TestSubmitStorageFailureShowsFallback(t *testing.T) {
	client := &fakeAuthClient{resp: LoginResponse{Token: "abc"}}
	nav := &RedirectRecorder{}
	form := NewSignInForm(client, &failingSessionStore{}, nav)

	res, err := form.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if res.Success || res.Message != DefaultLoginError {
		t.Fatalf("result = %+v", res)
	}
	if nav.Target() != "" {
		t.Fatalf("must not navigate when the token could not be stored")
	}
}

func TestBootstrapWithStoredToken(t *testing.T) {
	nav := &RedirectRecorder{}
	client := &fakeAuthClient{}
	form := NewSignInForm(client, NewMemorySessionStore("existing"), nav)

	if !form.Bootstrap() {
		t.Fatalf("Bootstrap should report a redirect")
	}
	if nav.Target() != AfterLoginPath {
		t.Fatalf("navigated to %q", nav.Target())
	}
	if form.View().State != StateRedirecting {
		t.Fatalf("state = %v", form.View().State)
	}
	if len(client.calls) != 0 {
		t.Fatalf("bootstrap must not call the auth endpoint")
	}
}

func TestBootstrapWithoutToken(t *testing.T) {
	nav := &RedirectRecorder{}
	form := NewSignInForm(&fakeAuthClient{}, NewMemorySessionStore(""), nav)

	if form.Bootstrap() {
		t.Fatalf("Bootstrap should not redirect without a token")
	}
	if nav.Target() != "" {
		t.Fatalf("unexpected navigation to %q", nav.Target())
	}
	v := form.View()
	if v.State != StateIdle || v.SubmitLabel != submitLabelIdle {
		t.Fatalf("view = %+v", v)
	}
}
