// Copyright (c) 2026 gqlsql. All rights reserved.

package cache

import (
	stdctx "context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCachePutGet(t *testing.T) {
	c := NewResultCache(4, time.Minute, nil, nil)
	ctx := stdctx.Background()

	_, ok := c.Get(ctx, "k1")
	require.False(t, ok)

	c.Put(ctx, "k1", []byte(`{"id":1}`), []Tag{{TypeName: "Post", ID: "1"}})

	v, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, `{"id":1}`, string(v))
}

func TestResultCacheEntryExpiresAfterTTL(t *testing.T) {
	c := NewResultCache(4, time.Millisecond, nil, nil)
	ctx := stdctx.Background()
	c.Put(ctx, "k1", []byte("v"), nil)

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestResultCacheInvalidateByTagDropsAllMatchingEntries(t *testing.T) {
	c := NewResultCache(8, time.Minute, nil, nil)
	ctx := stdctx.Background()

	tag := Tag{TypeName: "Post", ID: "1"}
	c.Put(ctx, "k1", []byte("a"), []Tag{tag})
	c.Put(ctx, "k2", []byte("b"), []Tag{tag, {TypeName: "Author", ID: "9"}})
	c.Put(ctx, "k3", []byte("c"), []Tag{{TypeName: "Post", ID: "2"}})

	n := c.Invalidate(ctx, []Tag{tag})
	assert.Equal(t, 2, n)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "k2")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "k3")
	assert.True(t, ok)
}

func TestResultCacheEvictionUntracksTags(t *testing.T) {
	c := NewResultCache(1, time.Minute, nil, nil)
	ctx := stdctx.Background()

	tag := Tag{TypeName: "Post", ID: "1"}
	c.Put(ctx, "k1", []byte("a"), []Tag{tag})
	c.Put(ctx, "k2", []byte("b"), []Tag{tag}) // evicts k1, capacity is 1

	n := c.Invalidate(ctx, []Tag{tag})
	assert.Equal(t, 1, n, "only k2 should remain tracked after k1 was evicted")
}

func TestResultCacheGetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c := NewResultCache(4, time.Minute, nil, nil)
	ctx := stdctx.Background()

	var loadCount atomic.Int32
	load := func() ([]byte, []Tag, error) {
		loadCount.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []byte("loaded"), nil, nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad(ctx, "k1", nil, load)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loadCount.Load())
	for _, v := range results {
		assert.Equal(t, "loaded", string(v))
	}
}
