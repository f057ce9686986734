package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finly/backend/internal/application/adapter"
)

const (
	refreshTokenPrefix = "refresh:"
	userTokensPrefix   = "refresh:user:"
)

// redisTokenStore implements adapter.RefreshTokenStore on Redis.
// Each token is a key holding the owner ID with the token TTL. A per-user set
// indexes the tokens so all of them can be revoked at once.
type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a refresh token store backed by Redis.
func NewRedisTokenStore(client *redis.Client) adapter.RefreshTokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(token string) string {
	return refreshTokenPrefix + token
}

func userKey(userID uuid.UUID) string {
	return userTokensPrefix + userID.String()
}

// Save records the token and adds it to the user index. The index lives as
// long as the most recent token.
func (s *redisTokenStore) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token), userID.String(), ttl)
	pipe.SAdd(ctx, userKey(userID), token)
	pipe.Expire(ctx, userKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// Exists reports whether the token is still recorded.
func (s *redisTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return n > 0, nil
}

// Delete revokes a single token.
func (s *redisTokenStore) Delete(ctx context.Context, token string) error {
	owner, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.SRem(ctx, userTokensPrefix+owner, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every token in the user index.
func (s *redisTokenStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list refresh tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, tokenKey(token))
	}
	keys = append(keys, userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	return nil
}
