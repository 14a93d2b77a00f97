// Copyright (c) 2026 gqlsql. All rights reserved.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCachePutGet(t *testing.T) {
	pc := NewPlanCache(4)
	fp := FingerprintOperation("GetPost", "post", nil)

	_, ok := pc.Get(fp)
	require.False(t, ok)

	pc.Put(fp, Plan{SQL: "select data from v_post where data->>'id' = $1", ParamOrder: []string{"id"}})

	plan, ok := pc.Get(fp)
	require.True(t, ok)
	assert.Equal(t, "select data from v_post where data->>'id' = $1", plan.SQL)
	assert.Equal(t, 1, pc.Len())
}

func TestPlanCacheClearDropsEntries(t *testing.T) {
	pc := NewPlanCache(4)
	fp := FingerprintOperation("GetPost", "post", nil)
	pc.Put(fp, Plan{SQL: "select 1"})
	pc.Clear()
	_, ok := pc.Get(fp)
	assert.False(t, ok)
	assert.Equal(t, 0, pc.Len())
}

func TestFingerprintOperationDiffersByName(t *testing.T) {
	a := FingerprintOperation("Search", "post", nil)
	b := FingerprintOperation("List", "post", nil)
	assert.NotEqual(t, a, b)
}

func TestFingerprintOperationDiffersBySelectionShape(t *testing.T) {
	a := FingerprintOperation("GetPost", "post{author{name}}", nil)
	b := FingerprintOperation("GetPost", "post{author{name,bio}}", nil)
	assert.NotEqual(t, a, b)
}

func TestFingerprintOperationDiffersByLiteralArgs(t *testing.T) {
	a := FingerprintOperation("Search", "post", []byte(`{"filter":{"status":"published"}}`))
	b := FingerprintOperation("Search", "post", []byte(`{"filter":{"status":"draft"}}`))
	assert.NotEqual(t, a, b)
}
