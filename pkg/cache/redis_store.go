package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const tagKeyPrefix = "rc:tag:"

// RedisStore 多实例共享的缓存存储。Redis 自身的过期时间只是兜底，新鲜度仍以 Entry 为准
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func tagKey(tag string) string {
	return tagKeyPrefix + tag
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // key 不存在，但 Redis 正常
	} else if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *RedisStore) Set(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, e.Key, data, time.Duration(e.TTLSeconds)*time.Second).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Tag 用 Set 记录 tag 下的 key，tag 本身的过期时间跟着最新写入的 key 走
func (s *RedisStore) Tag(ctx context.Context, tag, key string, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, tagKey(tag), key)
	pipe.Expire(ctx, tagKey(tag), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) PurgeTag(ctx context.Context, tag string) error {
	keys, err := s.rdb.SMembers(ctx, tagKey(tag)).Result()
	if err != nil {
		return err
	}
	return s.rdb.Del(ctx, append(keys, tagKey(tag))...).Err()
}
