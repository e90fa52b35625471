package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestUserStoreRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewUserStore(rdb)
	ctx := context.Background()

	u := &entity.UserRecord{
		ID:        "u1",
		Email:     "user@example.com",
		AuthToken: "tok",
		Activated: true,
		Location:  entity.Location{Lat: 60.17, Lon: 24.94, Acc: 5, Time: 1000},
		Places:    map[string]entity.Place{"p1": {Name: "Home", Lat: 1, Lon: 2, Rad: 100}},
	}
	require.NoError(t, store.Put(ctx, u))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserStoreMissingIsNotFound(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewUserStore(rdb)

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSharingStoreNormalizesNilSlices(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewSharingStore(rdb)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &entity.SharingRecord{UserID: "u1"}))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got.ICanSee)
	assert.NotNil(t, got.CanSeeMe)
	assert.Empty(t, got.ICanSee)
}

func TestResetCodeLifecycle(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewResetCodeStore(rdb, time.Hour)
	ctx := context.Background()

	resetID, err := store.Create(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, resetID)

	code, err := store.Resolve(ctx, resetID)
	require.NoError(t, err)
	assert.Equal(t, "u1", code.UserID)
	assert.NotEmpty(t, code.Code)

	require.NoError(t, store.Delete(ctx, resetID))

	_, err = store.Resolve(ctx, resetID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, resetID), repository.ErrNotFound)
}

func TestResetCodeRejectsMalformedID(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewResetCodeStore(rdb, time.Hour)

	_, err := store.Resolve(context.Background(), "../users:admin")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResetCodeExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewResetCodeStore(rdb, time.Minute)
	ctx := context.Background()

	resetID, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, resetID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPendingStoreTakeOlderThan(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewPendingStore(rdb)
	ctx := context.Background()
	now := time.Now()

	old1 := entity.PendingNotification{UserID: "a", Timestamp: now.Add(-10 * time.Minute).UnixMilli()}
	old2 := entity.PendingNotification{UserID: "b", Timestamp: now.Add(-6 * time.Minute).UnixMilli()}
	fresh := entity.PendingNotification{UserID: "c", Timestamp: now.UnixMilli()}
	require.NoError(t, store.Enqueue(ctx, old1))
	require.NoError(t, store.Enqueue(ctx, fresh))
	require.NoError(t, store.Enqueue(ctx, old2))

	stale, err := store.TakeOlderThan(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []entity.PendingNotification{old1, old2}, stale, "stale markers come back in enqueue order")

	// The fresh marker stays queued and comes back once it ages.
	stale, err = store.TakeOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []entity.PendingNotification{fresh}, stale)

	stale, err = store.TakeOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestPendingStoreDropsMalformedEntries(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewPendingStore(rdb)
	ctx := context.Background()

	_, err := mr.RPush("notifications:pending", "not json")
	require.NoError(t, err)
	n := entity.PendingNotification{UserID: "a", Timestamp: 1}
	require.NoError(t, store.Enqueue(ctx, n))

	stale, err := store.TakeOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []entity.PendingNotification{n}, stale)
}

func TestLockExclusiveUntilExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	lock := NewLock(rdb)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must lose while the lock is held")

	mr.FastForward(2 * time.Minute)

	ok, err = lock.Acquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock is free again after TTL expiry")
}

func TestFloodStoreCountsWithinWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewFloodStore(rdb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := store.Check(ctx, "signup:u1", time.Minute, 3)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := store.Check(ctx, "signup:u1", time.Minute, 3)
	require.NoError(t, err)
	assert.False(t, ok, "fourth hit exceeds max=3")

	mr.FastForward(2 * time.Minute)

	ok, err = store.Check(ctx, "signup:u1", time.Minute, 3)
	require.NoError(t, err)
	assert.True(t, ok, "counter resets after the window")
}

func TestFloodStoreReset(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewFloodStore(rdb)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := store.Check(ctx, "k", time.Minute, 3)
		require.NoError(t, err)
	}
	require.NoError(t, store.Reset(ctx, "k"))

	ok, err := store.Check(ctx, "k", time.Minute, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}
