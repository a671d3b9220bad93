package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository 以 JSON 形式缓存聚合结果（仪表盘、成绩报表）
type CacheRepository struct {
	RDB *redis.Client
}

func NewCacheRepository(rdb *redis.Client) *CacheRepository {
	return &CacheRepository{RDB: rdb}
}

// GetJSON 命中时解码到 dst 并返回 true；key 不存在返回 false, nil
func (r *CacheRepository) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		// 脏数据直接删掉，交给回源重建
		_ = r.RDB.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (r *CacheRepository) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, key, raw, ttl).Err()
}

func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.RDB.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
