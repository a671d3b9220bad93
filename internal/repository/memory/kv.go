package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"Office_Hub/internal/pkg"
)

var ErrNoSession = pkg.ErrSessionNotFound

type entry struct {
	value   []byte
	expires time.Time
}

// KV 带过期时间的键值存储，同时实现会话、缓存和分布式锁接口
type KV struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewKV() *KV {
	return &KV{data: map[string]entry{}, now: time.Now}
}

func (k *KV) get(key string) ([]byte, bool) {
	e, ok := k.data[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !k.now().Before(e.expires) {
		delete(k.data, key)
		return nil, false
	}
	return e.value, true
}

func (k *KV) set(key string, value []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = k.now().Add(ttl)
	}
	k.data[key] = entry{value: value, expires: exp}
}

func sessionKey(userID string) string { return "session:" + userID }

func refreshKey(userID string) string { return "refresh:" + userID }

func (k *KV) Save(_ context.Context, userID, token string, ttl time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.set(sessionKey(userID), []byte(token), ttl)
	return nil
}

func (k *KV) Get(_ context.Context, userID string) (string, error) {
	return k.lookup(sessionKey(userID))
}

func (k *KV) SaveRefresh(_ context.Context, userID, tokenID string, ttl time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.set(refreshKey(userID), []byte(tokenID), ttl)
	return nil
}

func (k *KV) GetRefresh(_ context.Context, userID string) (string, error) {
	return k.lookup(refreshKey(userID))
}

func (k *KV) lookup(key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.get(key)
	if !ok {
		return "", ErrNoSession
	}
	return string(v), nil
}

func (k *KV) Extend(_ context.Context, userID string, ttl time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if v, ok := k.get(sessionKey(userID)); ok {
		k.set(sessionKey(userID), v, ttl)
	}
	return nil
}

func (k *KV) Delete(_ context.Context, userID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, sessionKey(userID))
	delete(k.data, refreshKey(userID))
	return nil
}

// Cache 返回同一存储上的缓存视图
func (k *KV) Cache() *Cache { return &Cache{kv: k} }

type Cache struct{ kv *KV }

func (c *Cache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.kv.mu.Lock()
	v, ok := c.kv.get("cache:" + key)
	c.kv.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.kv.mu.Lock()
	defer c.kv.mu.Unlock()
	c.kv.set("cache:"+key, raw, ttl)
	return nil
}

// Has 测试断言用
func (c *Cache) Has(key string) bool {
	c.kv.mu.Lock()
	defer c.kv.mu.Unlock()
	_, ok := c.kv.get("cache:" + key)
	return ok
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.kv.mu.Lock()
	defer c.kv.mu.Unlock()
	for _, key := range keys {
		delete(c.kv.data, "cache:"+key)
	}
	return nil
}

// Locker 返回同一存储上的锁视图
func (k *KV) Locker() *Locker { return &Locker{kv: k} }

type Locker struct{ kv *KV }

func (l *Locker) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	l.kv.mu.Lock()
	defer l.kv.mu.Unlock()
	if _, held := l.kv.get("lock:" + key); held {
		return false, nil
	}
	l.kv.set("lock:"+key, []byte(token), ttl)
	return true, nil
}

func (l *Locker) Release(_ context.Context, key, token string) error {
	l.kv.mu.Lock()
	defer l.kv.mu.Unlock()
	if v, ok := l.kv.get("lock:" + key); ok && string(v) == token {
		delete(l.kv.data, "lock:"+key)
	}
	return nil
}
