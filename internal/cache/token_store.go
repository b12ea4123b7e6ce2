// Package cache holds the Redis-backed session token store. Access tokens
// are stateless JWTs; logout works by placing the token's jti on a denylist
// for the remainder of its lifetime, and refresh tokens are only honored
// while their jti is present in the store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/config"
)

const (
	refreshTokenKeyPrefix = "session:refresh:"
	revokedTokenKeyPrefix = "session:revoked:"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found or expired")

type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(cfg config.RedisConfig) *TokenStore {
	return &TokenStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping verifies connectivity at startup.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// StoreRefreshToken records an issued refresh token for its full lifetime.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	key := refreshTokenKeyPrefix + tokenID
	if err := s.client.Set(ctx, key, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken resolves a refresh token to its user, or
// ErrRefreshTokenNotFound if it was never issued, expired, or was deleted.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error) {
	key := refreshTokenKeyPrefix + tokenID
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrRefreshTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading refresh token: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return userID, nil
}

// DeleteRefreshToken invalidates a refresh token, e.g. on logout or rotation.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}
	return nil
}

// RevokeAccessToken denylists an access token until its natural expiry.
func (s *TokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to deny.
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoking access token: %w", err)
	}
	return nil
}

// IsAccessTokenRevoked reports whether the token's jti is on the denylist.
// Errors propagate so the caller can deny rather than admit on store failure.
func (s *TokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedTokenKeyPrefix + tokenID
	_, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking token denylist: %w", err)
	}
	return true, nil
}

// Close releases the underlying connection pool.
func (s *TokenStore) Close() error {
	return s.client.Close()
}
