package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TokenKeyPrefix  = "auth:token:"
	DefaultTokenTTL = 7 * 24 * time.Hour
)

// ErrTokenNotFound is returned for unknown, expired or revoked tokens.
var ErrTokenNotFound = errors.New("token not found")

// TokenKey returns the Redis key for a token.
func TokenKey(token string) string {
	return TokenKeyPrefix + token
}

// TokenClaims is the JSON stored under each issued token.
type TokenClaims struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// TokenStore issues and resolves opaque bearer tokens.
type TokenStore interface {
	Issue(ctx context.Context, u User) (string, error)
	Lookup(ctx context.Context, token string) (TokenClaims, error)
	Revoke(ctx context.Context, token string) error
	Count(ctx context.Context) (int64, error)
}

// RedisTokenStore keeps token claims in Redis with a TTL.
type RedisTokenStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisTokenStore(client redis.UniversalClient, ttl time.Duration) *RedisTokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &RedisTokenStore{client: client, ttl: ttl}
}

func (s *RedisTokenStore) Issue(ctx context.Context, u User) (string, error) {
	token := NewAuthToken()
	data, err := json.Marshal(TokenClaims{UserID: u.ID, Email: u.Email, Username: u.Username, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	ok, err := s.client.SetNX(ctx, TokenKey(token), data, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	if !ok {
		return "", errors.New("token collision")
	}
	return token, nil
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, ErrTokenNotFound
	}
	val, err := s.client.Get(ctx, TokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TokenClaims{}, ErrTokenNotFound
		}
		return TokenClaims{}, err
	}
	var claims TokenClaims
	if err := json.Unmarshal([]byte(val), &claims); err != nil {
		return TokenClaims{}, err
	}
	return claims, nil
}

// Revoke deletes the token; revoking an unknown token is not an error.
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, TokenKey(token)).Err()
}

// Count returns the number of live tokens.
func (s *RedisTokenStore) Count(ctx context.Context) (int64, error) {
	iter := s.client.Scan(ctx, 0, TokenKeyPrefix+"*", 100).Iterator()
	var n int64
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
