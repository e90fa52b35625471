package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

const pendingKey = "notifications:pending"

// PendingStore keeps pending notifications in a Redis list, preserving
// enqueue order. The sweep drains it under the cluster-wide lock, so the
// drain does not need to be atomic against itself.
type PendingStore struct {
	rdb *redis.Client
}

func NewPendingStore(rdb *redis.Client) *PendingStore {
	return &PendingStore{rdb: rdb}
}

func (s *PendingStore) Enqueue(ctx context.Context, n entity.PendingNotification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, pendingKey, b).Err(); err != nil {
		return fmt.Errorf("enqueue pending notification: %w", err)
	}
	return nil
}

// TakeOlderThan pops every queued marker and keeps the stale ones,
// requeueing fresh markers at the tail in their original relative order.
func (s *PendingStore) TakeOlderThan(ctx context.Context, threshold time.Duration) ([]entity.PendingNotification, error) {
	cutoff := time.Now().Add(-threshold).UnixMilli()
	var stale []entity.PendingNotification
	var fresh [][]byte

	for {
		raw, err := s.rdb.LPop(ctx, pendingKey).Bytes()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("drain pending notifications: %w", err)
		}
		var n entity.PendingNotification
		if err := json.Unmarshal(raw, &n); err != nil {
			// Malformed entries are dropped rather than wedging the sweep.
			continue
		}
		if n.Timestamp <= cutoff {
			stale = append(stale, n)
		} else {
			fresh = append(fresh, raw)
		}
	}

	for _, raw := range fresh {
		if err := s.rdb.RPush(ctx, pendingKey, raw).Err(); err != nil {
			return stale, fmt.Errorf("requeue pending notification: %w", err)
		}
	}
	return stale, nil
}

var _ repository.PendingNotificationRepository = (*PendingStore)(nil)
