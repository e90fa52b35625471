package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

const lockKeyPrefix = "lock:"

// Lock implements cluster-wide mutual exclusion with SET NX EX. There is
// no release; the lock simply expires, which doubles as the sweep's
// minimum interval between runs across the cluster.
type Lock struct {
	rdb *redis.Client
}

func NewLock(rdb *redis.Client) *Lock {
	return &Lock{rdb: rdb}
}

func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, lockKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

var _ repository.SweepLock = (*Lock)(nil)
