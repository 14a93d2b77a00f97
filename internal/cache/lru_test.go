// Copyright (c) 2026 gqlsql. All rights reserved.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetSetRoundTrip(t *testing.T) {
	c := newLRU(2, nil)
	c.set("a", 1)
	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := newLRU(2, func(key string, _ any) { evicted = append(evicted, key) })

	c.set("a", 1)
	c.set("b", 2)
	c.get("a") // touch a, making b the LRU
	c.set("c", 3)

	assert.Equal(t, []string{"b"}, evicted)
	_, ok := c.get("b")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUDelete(t *testing.T) {
	c := newLRU(2, nil)
	c.set("a", 1)
	c.delete("a")
	_, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.len())
}

func TestLRUSetExistingKeyUpdatesValueWithoutGrowing(t *testing.T) {
	c := newLRU(2, nil)
	c.set("a", 1)
	c.set("a", 2)
	v, _ := c.get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.len())
}
