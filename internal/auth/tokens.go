package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenInvalid indicates an unknown or expired bearer token.
var ErrTokenInvalid = errors.New("auth: invalid or expired token")

// TokenStore issues and resolves opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, prefix string, ttl time.Duration) *TokenStore {
	if prefix == "" {
		prefix = "optica_token"
	}
	return &TokenStore{client: client, prefix: prefix, ttl: ttl}
}

// Issue creates a fresh token mapped to the user id.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id for a token, or ErrTokenInvalid.
func (s *TokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrTokenInvalid
	}
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *TokenStore) key(token string) string {
	return s.prefix + ":" + token
}
