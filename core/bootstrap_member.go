package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapMember creates a first member when the users table is empty.
// It is idempotent: once any user exists it does nothing.
func BootstrapMember(ctx context.Context, repo UserRepository, cfg Config) error {
	if !cfg.BootstrapMemberEnabled {
		return nil
	}

	has, err := repo.HasAny(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	email := normalizeEmail(cfg.InitialMemberEmail)
	if email == "" {
		return errors.New("initial member email is empty")
	}
	username := usernameFromEmail(email)
	password, err := generatePassword(24)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := repo.Create(ctx, email, username, string(hash)); err != nil {
		return err
	}

	if cfg.InitialMemberPasswordPath != "" {
		if err := os.WriteFile(cfg.InitialMemberPasswordPath, []byte(password+"\n"), 0o600); err != nil {
			return err
		}
		log.Printf("initial member %s created; password written to %s", email, cfg.InitialMemberPasswordPath)
	} else {
		log.Printf("initial member created email=%s password=%s", email, password)
	}

	return nil
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func generatePassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("password length must be positive")
	}
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
