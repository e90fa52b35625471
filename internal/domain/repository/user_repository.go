package repository

import (
	"context"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
)

// ErrNotFound is returned by all repositories when the requested record
// does not exist.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// UserRepository persists whole user records keyed by user id. The store
// offers no transactions; writes are last-write-wins.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserRecord, error)
	Put(ctx context.Context, u *entity.UserRecord) error
}

// SharingRepository persists the per-user sharing graph records.
type SharingRepository interface {
	Get(ctx context.Context, userID string) (*entity.SharingRecord, error)
	Put(ctx context.Context, s *entity.SharingRecord) error
}
