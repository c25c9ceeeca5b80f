package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// releaseScript 只有持有者（token一致）才能删除锁
// 防止锁过期后被其他请求获得，再被原持有者误删
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLocker 用户级结算锁
// SET key token NX PX ttl；抢锁失败按retry间隔重试，直到ctx超时
type CheckoutLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// NewCheckoutLocker 创建结算锁
func NewCheckoutLocker(client *redis.Client, cfg *config.Config) *CheckoutLocker {
	return &CheckoutLocker{
		client: client,
		prefix: cfg.Checkout.LockPrefix,
		ttl:    cfg.Checkout.LockTTL,
		retry:  cfg.Checkout.LockRetry,
	}
}

func (l *CheckoutLocker) key(userID uint) string {
	return fmt.Sprintf("%s%d", l.prefix, userID)
}

// Acquire 获取用户结算锁，返回释放函数
// 释放函数使用独立的context，结算超时后仍能删除自己的锁
func (l *CheckoutLocker) Acquire(ctx context.Context, userID uint) (func(), error) {
	key := l.key(userID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, lockTimeout(ctx.Err())
			}
			return nil, apperrors.Wrap(err, "获取结算锁失败")
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, lockTimeout(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *CheckoutLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// 释放失败时等TTL过期
	_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

func lockTimeout(err error) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeTimeout,
		Message: "结算繁忙，请稍后重试",
		Err:     err,
	}
}
