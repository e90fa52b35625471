package repository

import (
	"context"
	"time"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
)

// ResetCodeRepository stores single-use account recovery codes. Codes
// expire through the store's own TTL.
type ResetCodeRepository interface {
	// Create stores a new code for the user and returns the opaque reset id.
	Create(ctx context.Context, userID string) (string, error)
	// Resolve returns the code data for a reset id, ErrNotFound if unknown.
	Resolve(ctx context.Context, resetID string) (*entity.ResetCode, error)
	// Delete removes a consumed code, ErrNotFound if already gone.
	Delete(ctx context.Context, resetID string) error
}

// PendingNotificationRepository is the queue filled by the location
// request path and drained by the notification sweep.
type PendingNotificationRepository interface {
	// Enqueue appends a marker in arrival order.
	Enqueue(ctx context.Context, n entity.PendingNotification) error
	// TakeOlderThan removes and returns, in enqueue order, every marker
	// older than the threshold. Fresher markers stay queued.
	TakeOlderThan(ctx context.Context, threshold time.Duration) ([]entity.PendingNotification, error)
}

// SweepLock is the cluster-wide mutual exclusion primitive for the sweep.
type SweepLock interface {
	// Acquire returns true when this instance won the lock for ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// FloodRepository counts requests per key for flood protection.
type FloodRepository interface {
	// Check increments the counter for key and reports whether the count
	// stays within max for the window.
	Check(ctx context.Context, key string, window time.Duration, max int) (bool, error)
	Reset(ctx context.Context, key string) error
}

// CrashReportRepository persists crash reports.
type CrashReportRepository interface {
	Store(ctx context.Context, r *entity.CrashReport) error
}
