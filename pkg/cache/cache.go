package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"Khobor_Live/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Entry 是缓存里的一条记录，新鲜度由 WrittenAt + TTLSeconds 决定，而不是依赖存储自身的过期
type Entry struct {
	Key        string    `json:"key"`
	Payload    []byte    `json:"payload"`
	WrittenAt  time.Time `json:"written_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

// Fresh 判断 now 时刻这条记录是否还能用
func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.WrittenAt) < time.Duration(e.TTLSeconds)*time.Second
}

// Store 是缓存的底层存储，Redis 和进程内 LRU 各有一个实现
type Store interface {
	// Get 未命中时返回 nil, nil
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, e Entry) error
	Delete(ctx context.Context, keys ...string) error
	// Tag 把 key 记到 tag 下面，PurgeTag 一次性删掉 tag 下的所有 key
	Tag(ctx context.Context, tag, key string, ttl time.Duration) error
	PurgeTag(ctx context.Context, tag string) error
}

// ResponseCache 包在整个读链路外面的 TTL 缓存。写缓存失败只记日志，不影响读请求
type ResponseCache struct {
	store Store
	now   func() time.Time
	sf    singleflight.Group
}

type Option func(*ResponseCache)

// WithClock 替换时间来源，测试里用来模拟过期
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) { c.now = now }
}

func New(store Store, opts ...Option) *ResponseCache {
	c := &ResponseCache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key 由操作名和参数组成，参数按 key 排序，所以参数顺序不同也会得到同一个 key
func Key(op string, params map[string]string) string {
	vals := url.Values{}
	for k, v := range params {
		vals.Set(k, v)
	}
	return "rc:" + op + "?" + vals.Encode()
}

// Get 返回 payload；存储出错、不存在、已过期都当作未命中
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	e, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Log.WithError(err).WithField("cache_key", key).Warn("读取缓存失败，按未命中处理")
		return nil, false
	}
	if e == nil || !e.Fresh(c.now()) {
		return nil, false
	}
	return e.Payload, true
}

// Set 尽力写入，失败只打日志
func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration, tags ...string) {
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		return
	}
	logCtx := logger.Log.WithField("cache_key", key)

	e := Entry{Key: key, Payload: payload, WrittenAt: c.now(), TTLSeconds: seconds}
	if err := c.store.Set(ctx, e); err != nil {
		logCtx.WithError(err).Warn("写入缓存失败")
		return
	}
	for _, tag := range tags {
		if err := c.store.Tag(ctx, tag, key, ttl); err != nil {
			logCtx.WithError(err).WithField("tag", tag).Warn("缓存打标签失败")
		}
	}
}

// Invalidate 删除 tag 下的全部缓存
func (c *ResponseCache) Invalidate(ctx context.Context, tag string) error {
	return c.store.PurgeTag(ctx, tag)
}

// Fetch 先查缓存，未命中时通过 singleflight 只让一个请求去执行 load，结果写回缓存
func Fetch[T any](ctx context.Context, c *ResponseCache, key string, ttl time.Duration, tags []string, load func(ctx context.Context) (T, error)) (T, error) {
	if payload, ok := c.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		logger.Log.WithField("cache_key", key).Warn("缓存内容反序列化失败，重新加载")
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(val)
		if err != nil {
			logger.Log.WithError(err).WithField("cache_key", key).Warn("缓存内容序列化失败")
			return val, nil
		}
		c.Set(ctx, key, payload, ttl, tags...)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
