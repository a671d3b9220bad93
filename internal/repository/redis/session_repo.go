package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Office_Hub/internal/pkg"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = pkg.ErrSessionNotFound
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
)

// SessionRepository 每个用户只保留一个有效 access token 和一个有效 refresh jti，实现单点登录和登出即失效
type SessionRepository struct {
	RDB *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{RDB: rdb}
}

func tokenKey(userID string) string {
	return fmt.Sprintf("%s:%s", UserTokenPrefix, userID)
}

func refreshKey(userID string) string {
	return fmt.Sprintf("%s:%s", UserRefreshPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.set(ctx, tokenKey(userID), token, ttl)
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	return r.get(ctx, tokenKey(userID))
}

// SaveRefresh 登记当前有效的 refresh token jti，旧的随之作废
func (r *SessionRepository) SaveRefresh(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return r.set(ctx, refreshKey(userID), tokenID, ttl)
}

func (r *SessionRepository) GetRefresh(ctx context.Context, userID string) (string, error) {
	return r.get(ctx, refreshKey(userID))
}

// Extend 校验通过后顺延过期时间
func (r *SessionRepository) Extend(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.RDB.Expire(ctx, tokenKey(userID), ttl).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

// Delete 同时吊销 access 与 refresh
func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.RDB.Del(ctx, tokenKey(userID), refreshKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}

func (r *SessionRepository) set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) get(ctx context.Context, key string) (string, error) {
	v, err := r.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, nil
}
