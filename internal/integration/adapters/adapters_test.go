package adapters

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/finly/backend/config"
	"github.com/finly/backend/internal/application/adapter"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newTestTokenService(t *testing.T) (adapter.TokenService, *miniredis.Miniredis) {
	t.Helper()
	mr, client := newTestRedis(t)
	svc := NewTokenService(&config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	}, NewRedisTokenStore(client))
	return svc, mr
}

func TestPasswordService(t *testing.T) {
	svc := &passwordService{cost: bcrypt.MinCost}

	hash, err := svc.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, svc.VerifyPassword(hash, "correct horse"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong horse"))

	assert.Error(t, svc.ValidatePasswordStrength("short"))
	assert.NoError(t, svc.ValidatePasswordStrength("longenough"))
	assert.Error(t, svc.ValidatePasswordStrength(strings.Repeat("a", 73)))
}

func TestTokenService_PairRoundTrip(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	claims, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenService_RejectsWrongTokenType(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(ctx, pair.RefreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(ctx, pair.AccessToken)
	assert.Error(t, err)
	_, err = svc.ValidateAccessToken(ctx, "not-a-jwt")
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	svc, _ := newTestTokenService(t)
	_, client := newTestRedis(t)
	other := NewTokenService(&config.JWTConfig{
		Secret:             "other-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}, NewRedisTokenStore(client))

	pair, err := other.GenerateTokenPair(context.Background(), uuid.New(), "eve@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenService_Revocation(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, first.RefreshToken))
	_, err = svc.ValidateRefreshToken(ctx, first.RefreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)

	require.NoError(t, svc.InvalidateAllUserTokens(ctx, userID))
	_, err = svc.ValidateRefreshToken(ctx, second.RefreshToken)
	assert.Error(t, err)
}

func TestRedisTokenStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.Save(ctx, "a1", alice, time.Hour))
	require.NoError(t, store.Save(ctx, "a2", alice, time.Hour))
	require.NoError(t, store.Save(ctx, "b1", bob, time.Hour))

	ok, err := store.Exists(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("delete unknown token is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "missing"))
	})

	t.Run("delete single token", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a1"))
		ok, err := store.Exists(ctx, "a1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, mr.Exists("refresh:a1"))
	})

	t.Run("delete all for user leaves other users alone", func(t *testing.T) {
		require.NoError(t, store.DeleteAllForUser(ctx, alice))
		ok, err := store.Exists(ctx, "a2")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.Exists(ctx, "b1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tokens expire with their ttl", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "short", bob, time.Minute))
		mr.FastForward(2 * time.Minute)
		ok, err := store.Exists(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
