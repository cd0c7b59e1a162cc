package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
)

// Navigation targets of the sign-in flow.
const (
	AfterLoginPath = "/afterlogin"
	SignInPath     = "/signin"
	SignUpPath     = "/signup"
)

// DefaultLoginError is shown when a failure carries no message of its own.
const DefaultLoginError = "Login failed"

// Submit button labels.
const (
	submitLabelIdle = "SIGN IN"
	submitLabelBusy = "Signing In..."
)

// ErrSubmitInProgress is returned when a form is submitted while a request is in flight.
var ErrSubmitInProgress = errors.New("sign-in submission already in progress")

// FormState is the sign-in form's position in its state machine.
type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
	StateIdleWithError
	StateRedirecting
)

func (s FormState) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateIdleWithError:
		return "error"
	case StateRedirecting:
		return "redirecting"
	default:
		return "idle"
	}
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(path string)
}

// LoginResult is the outcome of one submission: either a success carrying the
// token and profile fields, or a failure carrying the message to display.
// A 2xx answer without a token is neither: Success is false and Message is empty.
type LoginResult struct {
	Success  bool
	Token    string
	Username string
	Email    string
	Message  string
}

// FormView is a read-only snapshot for rendering the form.
type FormView struct {
	State       FormState
	Busy        bool
	Error       string
	Email       string
	SubmitLabel string
}

// SignInForm owns the state of one sign-in form instance.
type SignInForm struct {
	auth     AuthClient
	sessions SessionStore
	nav      Navigator

	mu    sync.Mutex
	state FormState
	busy  bool
	err   string
	email string
}

func NewSignInForm(auth AuthClient, sessions SessionStore, nav Navigator) *SignInForm {
	return &SignInForm{auth: auth, sessions: sessions, nav: nav}
}

// Bootstrap runs the one-time check when the view becomes active.
// With a token already stored it navigates away and reports true; the form is never shown.
func (f *SignInForm) Bootstrap() bool {
	if _, ok := f.sessions.Token(); !ok {
		return false
	}
	f.mu.Lock()
	f.state = StateRedirecting
	f.mu.Unlock()
	f.nav.Navigate(AfterLoginPath)
	return true
}

// Submit sends creds to the auth endpoint and applies the outcome.
func (f *SignInForm) Submit(ctx context.Context, creds Credentials) (LoginResult, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return LoginResult{}, ErrSubmitInProgress
	}
	f.err = ""
	f.busy = true
	f.state = StateSubmitting
	f.email = strings.TrimSpace(creds.Email)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	resp, err := f.auth.Login(ctx, creds)
	if err != nil {
		msg := loginErrorMessage(err)
		log.Printf("sign-in failed email=%s: %v", f.email, err)
		f.setState(StateIdleWithError, msg)
		return LoginResult{Message: msg}, nil
	}

	if resp.Token == "" {
		// TODO: decide whether a 2xx without a token should surface an error to the user.
		log.Printf("sign-in response without token email=%s; staying on form", f.email)
		f.setState(StateIdle, "")
		return LoginResult{Username: resp.Username, Email: resp.Email}, nil
	}

	if err := f.sessions.SetToken(resp.Token); err != nil {
		log.Printf("persist token failed email=%s: %v", f.email, err)
		f.setState(StateIdleWithError, DefaultLoginError)
		return LoginResult{Message: DefaultLoginError}, nil
	}
	f.setState(StateRedirecting, "")
	f.nav.Navigate(AfterLoginPath)
	return LoginResult{Success: true, Token: resp.Token, Username: resp.Username, Email: resp.Email}, nil
}

// View returns the current render state.
func (f *SignInForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	label := submitLabelIdle
	if f.busy {
		label = submitLabelBusy
	}
	return FormView{State: f.state, Busy: f.busy, Error: f.err, Email: f.email, SubmitLabel: label}
}

func (f *SignInForm) setState(state FormState, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	f.err = msg
}

// loginErrorMessage prefers the endpoint's message and falls back to DefaultLoginError.
func loginErrorMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return DefaultLoginError
}

// RedirectRecorder is a Navigator that remembers the last target.
type RedirectRecorder struct {
	mu     sync.Mutex
	target string
}

func (r *RedirectRecorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = path
}

// Target returns the last navigation target, or "" when none happened.
func (r *RedirectRecorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}
