package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce sync.Once
	redisMock *Redis
)

// Redis is a miniredis server with a connected client.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts the shared miniredis server once.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			Server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.TODO()).Err()
}

// Keys returns the keys matching pattern.
func (r *Redis) Keys(pattern string) ([]string, error) {
	return r.Client.Keys(context.TODO(), pattern).Result()
}
