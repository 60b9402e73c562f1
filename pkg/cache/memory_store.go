package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore 进程内的 LRU 存储，单实例部署或测试时使用
type MemoryStore struct {
	entries *lru.Cache[string, Entry]

	mu      sync.Mutex
	tags    map[string]map[string]struct{} // tag -> keys
	keyTags map[string][]string            // key -> tags，淘汰时用来清理 tags
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	s := &MemoryStore{
		tags:    make(map[string]map[string]struct{}),
		keyTags: make(map[string][]string),
	}
	l, err := lru.NewWithEvict[string, Entry](size, s.onEvict)
	if err != nil {
		return nil, err
	}
	s.entries = l
	return s, nil
}

// onEvict 由 lru 回调，调用方不能持有 s.mu
func (s *MemoryStore) onEvict(key string, _ Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range s.keyTags[key] {
		if keys, ok := s.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.tags, tag)
			}
		}
	}
	delete(s.keyTags, key)
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *MemoryStore) Set(_ context.Context, e Entry) error {
	s.entries.Add(e.Key, e)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.entries.Remove(k)
	}
	return nil
}

func (s *MemoryStore) Tag(_ context.Context, tag, key string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, ok := s.tags[tag]
	if !ok {
		keys = make(map[string]struct{})
		s.tags[tag] = keys
	}
	if _, dup := keys[key]; !dup {
		keys[key] = struct{}{}
		s.keyTags[key] = append(s.keyTags[key], tag)
	}
	return nil
}

func (s *MemoryStore) PurgeTag(ctx context.Context, tag string) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.tags[tag]))
	for k := range s.tags[tag] {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	// Remove 会触发 onEvict，所以必须在释放锁之后调用
	return s.Delete(ctx, keys...)
}

// Len 当前缓存条数
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
