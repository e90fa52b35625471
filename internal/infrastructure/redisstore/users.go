// Package redisstore implements the domain repositories on Redis.
// Records are stored whole as JSON values; there are no multi-key
// transactions, so every write is load-then-store last-write-wins.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/helpers"
)

const (
	userKeyPrefix    = "users:"
	sharingKeyPrefix = "sharing:"
)

// UserStore persists user records under users:<id>.
type UserStore struct {
	rdb *redis.Client
}

func NewUserStore(rdb *redis.Client) *UserStore {
	return &UserStore{rdb: rdb}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*entity.UserRecord, error) {
	var u entity.UserRecord
	found, err := helpers.RedisGetJSON(ctx, s.rdb, userKeyPrefix+userID, &u)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) Put(ctx context.Context, u *entity.UserRecord) error {
	if err := helpers.RedisSetJSON(ctx, s.rdb, userKeyPrefix+u.ID, u, 0); err != nil {
		return fmt.Errorf("put user %s: %w", u.ID, err)
	}
	return nil
}

// SharingStore persists sharing graph records under sharing:<id>.
type SharingStore struct {
	rdb *redis.Client
}

func NewSharingStore(rdb *redis.Client) *SharingStore {
	return &SharingStore{rdb: rdb}
}

func (s *SharingStore) Get(ctx context.Context, userID string) (*entity.SharingRecord, error) {
	var rec entity.SharingRecord
	found, err := helpers.RedisGetJSON(ctx, s.rdb, sharingKeyPrefix+userID, &rec)
	if err != nil {
		return nil, fmt.Errorf("get sharing %s: %w", userID, err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	if rec.ICanSee == nil {
		rec.ICanSee = []string{}
	}
	if rec.CanSeeMe == nil {
		rec.CanSeeMe = []string{}
	}
	return &rec, nil
}

func (s *SharingStore) Put(ctx context.Context, rec *entity.SharingRecord) error {
	if err := helpers.RedisSetJSON(ctx, s.rdb, sharingKeyPrefix+rec.UserID, rec, 0); err != nil {
		return fmt.Errorf("put sharing %s: %w", rec.UserID, err)
	}
	return nil
}

var (
	_ repository.UserRepository    = (*UserStore)(nil)
	_ repository.SharingRepository = (*SharingStore)(nil)
)
