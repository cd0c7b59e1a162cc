package core

import (
	"context"
	"errors"
	"time"
)

// User represents an authenticated member returned to handlers.
type User struct {
	ID        int64
	Email     string
	Username  string
	CreatedAt time.Time
}

var (
	// ErrInvalidCredentials is returned when email/password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService defines authentication behaviour.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (User, error)
}
