package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// LoginPath is the fixed authentication endpoint path.
const LoginPath = "/api/auth/login"

// Credentials are held only for the duration of one submission.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse mirrors the success body of the login endpoint.
// Token may be empty when the endpoint answers 2xx without one.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthError is returned for non-2xx answers. Message is the body's "message" field, if any.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth returned status %d", e.Status)
	}
	return fmt.Sprintf("auth returned status %d: %s", e.Status, e.Message)
}

// AuthClient submits credentials to the authentication endpoint.
type AuthClient interface {
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
}

// HTTPAuthClient calls the auth API over HTTP.
type HTTPAuthClient struct {
	client *http.Client
	base   string
}

func NewHTTPAuthClient(baseURL string, timeout time.Duration) *HTTPAuthClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPAuthClient{
		client: &http.Client{Timeout: timeout},
		base:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Login posts {email, password} and decodes {token, username, email}.
// Transport failures, non-2xx statuses and undecodable bodies all come back as errors.
func (c *HTTPAuthClient) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if c.base == "" {
		return LoginResponse{}, errors.New("auth api url not configured")
	}

	b, err := json.Marshal(creds)
	if err != nil {
		return LoginResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+LoginPath, bytes.NewReader(b))
	if err != nil {
		return LoginResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return LoginResponse{}, &AuthError{Status: resp.StatusCode, Message: errorMessageFrom(resp.Body)}
	}

	var body LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LoginResponse{}, fmt.Errorf("decode auth response: %w", err)
	}
	return body, nil
}

// errorMessageFrom extracts {"message": "..."} from an error body; anything else yields "".
func errorMessageFrom(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Printf("auth error body is not json: %q", truncate(string(raw), 120))
		return ""
	}
	return strings.TrimSpace(body.Message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
