package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

const floodKeyPrefix = "flood:"

// Lua script: atomic INCR + set EXPIRE on first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// FloodStore counts requests per key inside a rolling window, backing
// both the per-route rate limiter and per-account flood protection.
type FloodStore struct {
	rdb *redis.Client
}

func NewFloodStore(rdb *redis.Client) *FloodStore {
	return &FloodStore{rdb: rdb}
}

func (s *FloodStore) Check(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	count, err := incrExpireScript.Run(ctx, s.rdb, []string{floodKeyPrefix + key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("flood check %s: %w", key, err)
	}
	return count <= int64(max), nil
}

func (s *FloodStore) Reset(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, floodKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("flood reset %s: %w", key, err)
	}
	return nil
}

var _ repository.FloodRepository = (*FloodStore)(nil)
