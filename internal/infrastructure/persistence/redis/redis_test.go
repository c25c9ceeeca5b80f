package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// setupTestRedis 启动miniredis并返回指向它的客户端
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func testLockConfig() *config.Config {
	return &config.Config{Checkout: config.CheckoutConfig{
		Timeout:    time.Second,
		LockTTL:    5 * time.Second,
		LockRetry:  5 * time.Millisecond,
		LockPrefix: "checkout:lock:",
	}}
}

func TestCheckoutLocker_AcquireRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewCheckoutLocker(client, testLockConfig())
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.True(t, mr.Exists("checkout:lock:42"))
	assert.Equal(t, 5*time.Second, mr.TTL("checkout:lock:42"))

	release()
	assert.False(t, mr.Exists("checkout:lock:42"))

	// 释放后可以再次获取
	release, err = locker.Acquire(ctx, 42)
	require.NoError(t, err)
	release()
}

func TestCheckoutLocker_WaitsUntilTimeout(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewCheckoutLocker(client, testLockConfig())

	release, err := locker.Acquire(context.Background(), 7)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.GetAppError(err).Code)

	// 其他用户不受影响
	other, err := locker.Acquire(context.Background(), 8)
	require.NoError(t, err)
	other()
}

func TestCheckoutLocker_WaiterGetsLockAfterRelease(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewCheckoutLocker(client, testLockConfig())

	release, err := locker.Acquire(context.Background(), 1)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		r, err := locker.Acquire(ctx, 1)
		if err == nil {
			r()
			close(acquired)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("等待者未获得锁")
	}
}

func TestCheckoutLocker_ReleaseDoesNotDeleteForeignLock(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewCheckoutLocker(client, testLockConfig())

	release, err := locker.Acquire(context.Background(), 3)
	require.NoError(t, err)

	// 模拟锁过期后被其他请求持有
	mr.FastForward(6 * time.Second)
	require.NoError(t, mr.Set("checkout:lock:3", "someone-else"))

	release()
	got, err := mr.Get("checkout:lock:3")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestSessionStore_Blacklist(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	in, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, in)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
	in, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, in)

	mr.FastForward(2 * time.Minute)
	in, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, in, "黑名单随Token有效期过期")

	// 已过期的Token不写入
	require.NoError(t, store.AddToBlacklist(ctx, "token-b", 0))
	assert.False(t, mr.Exists("blacklist:token-b"))
}

func TestSessionStore_Session(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.GetSession(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, store.SaveSession(ctx, 5, map[string]interface{}{
		"username": "alice",
		"role":     "ROLE_USER",
	}, time.Hour))

	data, err := store.GetSession(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, time.Hour, mr.TTL("session:5"))

	require.NoError(t, store.DeleteSession(ctx, 5))
	_, err = store.GetSession(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
