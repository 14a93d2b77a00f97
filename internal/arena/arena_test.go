// Copyright (c) 2026 gqlsql. All rights reserved.

package arena

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAllocation(t *testing.T) {
	a := New()

	b, err := a.TryAlloc(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
	assert.Equal(t, 16, a.Used())

	c, err := a.TryAlloc(8)
	require.NoError(t, err)
	assert.Len(t, c, 8)
	assert.Equal(t, 24, a.Used())
}

func TestSizeLimit(t *testing.T) {
	a := NewWithCapacity(64, 128)

	_, err := a.TryAlloc(128)
	require.NoError(t, err)

	_, err = a.TryAlloc(1)
	require.Error(t, err)

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, SizeExceeded, aerr.Kind)
}

func TestReset(t *testing.T) {
	a := NewWithCapacity(64, 128)

	_, err := a.TryAlloc(129)
	require.Error(t, err)

	_, err = a.TryAlloc(64)
	require.NoError(t, err)
	assert.Equal(t, 64, a.Used())

	a.Reset()
	assert.Equal(t, 0, a.Used())

	_, err = a.TryAlloc(128)
	require.NoError(t, err)
}

func TestOverflowProtection(t *testing.T) {
	a := New()

	_, err := a.TryAlloc(1)
	require.NoError(t, err)

	_, err = a.TryAlloc(math.MaxInt)
	require.Error(t, err)

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Overflow, aerr.Kind)
}

func TestNegativeLengthRejected(t *testing.T) {
	a := New()

	_, err := a.TryAlloc(-1)
	require.Error(t, err)
}

func TestAllocPanicsOnFailure(t *testing.T) {
	a := NewWithCapacity(16, 16)
	assert.Panics(t, func() {
		a.Alloc(17)
	})
}
