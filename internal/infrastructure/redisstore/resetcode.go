package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/helpers"
)

const resetCodeKeyPrefix = "resetcode:"

// ResetCodeStore stores single-use recovery codes with a TTL.
type ResetCodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResetCodeStore(rdb *redis.Client, ttl time.Duration) *ResetCodeStore {
	return &ResetCodeStore{rdb: rdb, ttl: ttl}
}

func (s *ResetCodeStore) Create(ctx context.Context, userID string) (string, error) {
	resetID := uuid.NewString()
	code := entity.ResetCode{UserID: userID, Code: uuid.NewString()}
	if err := helpers.RedisSetJSON(ctx, s.rdb, resetCodeKeyPrefix+resetID, code, s.ttl); err != nil {
		return "", fmt.Errorf("create reset code: %w", err)
	}
	return resetID, nil
}

func (s *ResetCodeStore) Resolve(ctx context.Context, resetID string) (*entity.ResetCode, error) {
	if _, err := uuid.Parse(resetID); err != nil {
		return nil, repository.ErrNotFound
	}
	var code entity.ResetCode
	found, err := helpers.RedisGetJSON(ctx, s.rdb, resetCodeKeyPrefix+resetID, &code)
	if err != nil {
		return nil, fmt.Errorf("resolve reset code: %w", err)
	}
	if !found || code.UserID == "" || code.Code == "" {
		return nil, repository.ErrNotFound
	}
	return &code, nil
}

func (s *ResetCodeStore) Delete(ctx context.Context, resetID string) error {
	n, err := s.rdb.Del(ctx, resetCodeKeyPrefix+resetID).Result()
	if err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ResetCodeRepository = (*ResetCodeStore)(nil)
