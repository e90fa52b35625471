package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/pkg/push"
)

func newSweepFixture() (*SweepService, *memUsers, *memPending, *memLock, *memGateway) {
	users := newMemUsers()
	pending := &memPending{}
	lock := &memLock{}
	gw := &memGateway{}
	svc := NewSweepService(users, pending, lock, gw, testLogger(),
		time.Minute, 5*time.Minute, time.Hour)
	return svc, users, pending, lock, gw
}

func sweepUser(t *testing.T, users *memUsers, id string, mutate func(*entity.UserRecord)) {
	t.Helper()
	u := &entity.UserRecord{
		ID:         id,
		Email:      id + "@example.com",
		AuthToken:  "tok",
		Activated:  true,
		Visibility: true,
		PushTokens: push.Tokens{APN: "apn-" + id},
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, users.Put(context.Background(), u))
}

func TestRunSweepSkipsWhenLockHeld(t *testing.T) {
	svc, _, pending, lock, _ := newSweepFixture()
	ctx := context.Background()
	lock.held = true

	require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "a", Timestamp: 1}))

	report, err := svc.RunSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, report)
	assert.Len(t, pending.queue, 1, "queue untouched when the lock is held elsewhere")
}

func TestRunSweepDeduplicatesFirstWins(t *testing.T) {
	svc, users, pending, _, gw := newSweepFixture()
	ctx := context.Background()
	now := time.Now()
	svc.Now = func() time.Time { return now }

	sweepUser(t, users, "a", nil)
	sweepUser(t, users, "b", nil)

	t1 := now.Add(-20 * time.Minute).UnixMilli()
	t2 := now.Add(-15 * time.Minute).UnixMilli()
	t3 := now.Add(-10 * time.Minute).UnixMilli()
	require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "a", Timestamp: t1}))
	require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "b", Timestamp: t2}))
	require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "a", Timestamp: t3}))

	report, err := svc.RunSweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Equal(t, 2, report.Sent)
	assert.Len(t, gw.visible, 2)
}

func TestRunSweepConditions(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	ts := now.Add(-10 * time.Minute).UnixMilli()

	tests := []struct {
		name     string
		mutate   func(*entity.UserRecord)
		wantSent int
	}{
		{"qualifying user", nil, 1},
		{"location updated after request", func(u *entity.UserRecord) {
			u.Location = entity.Location{Lat: 1, Lon: 1, Time: now.UnixMilli()}
		}, 0},
		{"recent visible push", func(u *entity.UserRecord) {
			u.LastVisibleNotification = now.Add(-30 * time.Minute).UnixMilli()
		}, 0},
		{"cooldown elapsed", func(u *entity.UserRecord) {
			u.LastVisibleNotification = now.Add(-2 * time.Hour).UnixMilli()
		}, 1},
		{"no apn token", func(u *entity.UserRecord) {
			u.PushTokens = push.Tokens{GCM: "gcm-only"}
		}, 0},
		{"not activated", func(u *entity.UserRecord) {
			u.Activated = false
		}, 0},
		{"not visible", func(u *entity.UserRecord) {
			u.Visibility = false
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, pending, _, gw := newSweepFixture()
			svc.Now = func() time.Time { return now }

			sweepUser(t, users, "u", tt.mutate)
			require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "u", Timestamp: ts}))

			report, err := svc.RunSweep(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Checked)
			assert.Equal(t, tt.wantSent, report.Sent)
			assert.Len(t, gw.visible, tt.wantSent)

			if tt.wantSent == 1 {
				assert.Equal(t, now.UnixMilli(), users.stored("u").LastVisibleNotification)
			}
		})
	}
}

func TestRunSweepSkipsUnknownUsers(t *testing.T) {
	svc, _, pending, _, gw := newSweepFixture()
	ctx := context.Background()

	require.NoError(t, pending.Enqueue(ctx, entity.PendingNotification{UserID: "ghost", Timestamp: 1}))

	report, err := svc.RunSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Zero(t, report.Sent)
	assert.Empty(t, gw.visible)
}

func TestRunSweepEmptyQueue(t *testing.T) {
	svc, _, _, _, _ := newSweepFixture()

	report, err := svc.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report)
}
