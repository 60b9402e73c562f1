package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// brokenStore 每个操作都失败
type brokenStore struct{}

var errBroken = errors.New("store is down")

func (brokenStore) Get(context.Context, string) (*Entry, error)             { return nil, errBroken }
func (brokenStore) Set(context.Context, Entry) error                         { return errBroken }
func (brokenStore) Delete(context.Context, ...string) error                  { return errBroken }
func (brokenStore) Tag(context.Context, string, string, time.Duration) error { return errBroken }
func (brokenStore) PurgeTag(context.Context, string) error                   { return errBroken }

func newMemoryCache(t *testing.T, clock *fakeClock) (*ResponseCache, *MemoryStore) {
	t.Helper()
	store, err := NewMemoryStore(16)
	require.NoError(t, err)
	return New(store, WithClock(clock.Now)), store
}

func TestKeyIgnoresParamOrder(t *testing.T) {
	a := Key("comments.list", map[string]string{"article_id": "7", "page": "2", "lang": "bn"})
	b := Key("comments.list", map[string]string{"lang": "bn", "page": "2", "article_id": "7"})
	assert.Equal(t, a, b)
	assert.Equal(t, "rc:comments.list?article_id=7&lang=bn&page=2", a)

	c := Key("comments.list", map[string]string{"article_id": "7", "page": "3", "lang": "bn"})
	assert.NotEqual(t, a, c)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c, _ := newMemoryCache(t, clock)
	ctx := context.Background()

	c.Set(ctx, "k", []byte(`"v"`), 60*time.Second)

	clock.Advance(59 * time.Second)
	payload, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `"v"`, string(payload))

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry at exactly ttl must be treated as absent")
}

func TestFetchLoadsOnceAndServesFromCache(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c, _ := newMemoryCache(t, clock)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]int, error) {
		atomic.AddInt32(&calls, 1)
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, "nums", time.Minute, nil, load)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock.Advance(2 * time.Minute)
	_, err := Fetch(ctx, c, "nums", time.Minute, nil, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "stale entry is replaced on the next miss")
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c, store := newMemoryCache(t, &fakeClock{now: time.Now()})
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "k", time.Minute, nil, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestFetchSurvivesBrokenStore(t *testing.T) {
	c := New(brokenStore{})

	got, err := Fetch(context.Background(), c, "k", time.Minute, []string{"article:1"}, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestInvalidateByTag(t *testing.T) {
	c, _ := newMemoryCache(t, &fakeClock{now: time.Now()})
	ctx := context.Background()

	c.Set(ctx, "a1p1", []byte("1"), time.Minute, "article:1")
	c.Set(ctx, "a1p2", []byte("2"), time.Minute, "article:1")
	c.Set(ctx, "a2p1", []byte("3"), time.Minute, "article:2")

	require.NoError(t, c.Invalidate(ctx, "article:1"))

	_, ok := c.Get(ctx, "a1p1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a1p2")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a2p1")
	assert.True(t, ok)
}

func TestMemoryStoreEvictionCleansTags(t *testing.T) {
	store, err := NewMemoryStore(1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, Entry{Key: "a", TTLSeconds: 60}))
	require.NoError(t, store.Tag(ctx, "t", "a", time.Minute))
	require.NoError(t, store.Set(ctx, Entry{Key: "b", TTLSeconds: 60}))

	store.mu.Lock()
	_, tagged := store.tags["t"]
	store.mu.Unlock()
	assert.False(t, tagged)
}
