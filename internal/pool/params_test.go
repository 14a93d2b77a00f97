// Copyright (c) 2026 gqlsql. All rights reserved.

package pool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareParametersValid(t *testing.T) {
	params := []QueryParam{BigInt(123), Text("hello"), Bool(true)}
	assert.NoError(t, PrepareParameters(params))
}

func TestPrepareParametersWithNull(t *testing.T) {
	params := []QueryParam{Null(), Text("test")}
	assert.NoError(t, PrepareParameters(params))
}

func TestValidateParameterNaN(t *testing.T) {
	err := Double(math.NaN()).Validate(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NaN")
}

func TestValidateParameterInfinity(t *testing.T) {
	err := Double(math.Inf(1)).Validate(0)
	require.Error(t, err)
}

func TestFormatParameter(t *testing.T) {
	assert.Equal(t, "NULL", Format(Null()))
	assert.Equal(t, "INT(42)", Format(Int(42)))
	assert.Equal(t, "TEXT(hello)", Format(Text("hello")))

	long := ""
	for i := 0; i < 100; i++ {
		long += "a"
	}
	formatted := Format(Text(long))
	assert.Contains(t, formatted, "...")
}

func TestCountPlaceholders(t *testing.T) {
	assert.Equal(t, 0, CountPlaceholders("SELECT * FROM users"))
	assert.Equal(t, 1, CountPlaceholders("SELECT * FROM users WHERE id = $1"))
	assert.Equal(t, 3, CountPlaceholders("SELECT * FROM users WHERE id = $1 AND name = $2 AND status = $3"))
}

func TestCountPlaceholdersWithDoubleDigit(t *testing.T) {
	assert.Equal(t, 10, CountPlaceholders("INSERT INTO t VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"))
}

func TestCountPlaceholdersDollarNotFollowedByDigitIsNotCounted(t *testing.T) {
	assert.Equal(t, 0, CountPlaceholders("SELECT name FROM products WHERE name = 'tip $ jar'"))
}

func TestValidateParameterCountMatch(t *testing.T) {
	sql := "SELECT * FROM users WHERE id = $1 AND name = $2"
	params := []QueryParam{BigInt(123), Text("test")}
	assert.NoError(t, ValidateParameterCount(sql, params))
}

func TestValidateParameterCountTooFew(t *testing.T) {
	sql := "SELECT * FROM users WHERE id = $1 AND name = $2"
	params := []QueryParam{BigInt(123)}
	err := ValidateParameterCount(sql, params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2")
	assert.Contains(t, err.Error(), "got 1")
}

func TestValidateParameterCountTooMany(t *testing.T) {
	sql := "SELECT * FROM users WHERE id = $1"
	params := []QueryParam{BigInt(123), Text("extra")}
	require.Error(t, ValidateParameterCount(sql, params))
}

func TestFromAnySliceClassifiesWhereParams(t *testing.T) {
	params, err := FromAnySlice([]any{"Alice", 18, true, nil})
	require.NoError(t, err)
	require.Len(t, params, 4)
	assert.Equal(t, ParamText, params[0].Kind)
	assert.Equal(t, ParamBigInt, params[1].Kind)
	assert.Equal(t, ParamBool, params[2].Kind)
	assert.Equal(t, ParamNull, params[3].Kind)
}
