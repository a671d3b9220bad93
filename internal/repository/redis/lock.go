package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const LockKeyPrefix = "lock:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

type DistLock struct {
	RDB *redis.Client
}

func NewDistLock(rdb *redis.Client) *DistLock {
	return &DistLock{RDB: rdb}
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return l.RDB.SetNX(ctx, LockKeyPrefix+key, token, ttl).Result()
}

// Release 用lua保证原子性，只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, key, token string) error {
	_, err := releaseScript.Run(ctx, l.RDB, []string{LockKeyPrefix + key}, token).Result()
	return err
}
