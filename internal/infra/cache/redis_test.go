package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/config"
)

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + server.Addr() + "/0", DB: 2})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 2, client.Options().DB)
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(&config.RedisConfig{URL: "not a url"})
	assert.Error(t, err)

	server, err := miniredis.Run()
	require.NoError(t, err)
	addr := server.Addr()
	server.Close()

	_, err = NewRedisClient(&config.RedisConfig{URL: "redis://" + addr})
	assert.Error(t, err)
}
