// Copyright (c) 2026 gqlsql. All rights reserved.

package where

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeEmptyTree(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(nil)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, params)
}

func TestComposeEqPlaceholder(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(Field("name", Eq, "Alice"))
	require.NoError(t, err)
	assert.Equal(t, `(data->>'name') = $1`, sql)
	assert.Equal(t, []any{"Alice"}, params)
}

func TestComposeAndOr(t *testing.T) {
	c := NewComposer(Postgres)
	tree := And{Children: []Node{
		Field("status", Eq, "active"),
		Or{Children: []Node{
			Field("age", Gt, 18),
			Field("verified", Eq, true),
		}},
	}}
	sql, params, err := c.Compose(tree)
	require.NoError(t, err)
	assert.Equal(t, `((data->>'status') = $1 AND ((data->>'age') > $2 OR (data->>'verified') = $3))`, sql)
	assert.Equal(t, []any{"active", 18, true}, params)
}

func TestComposeEmptyInListShortCircuitsFalse(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(Field("id", In, []any{}))
	require.NoError(t, err)
	assert.Equal(t, "FALSE", sql)
	assert.Empty(t, params)
}

func TestComposeEmptyNinListShortCircuitsTrue(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(Field("id", NotIn, []any{}))
	require.NoError(t, err)
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, params)
}

func TestComposeInList(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(Field("id", In, []string{"1", "2", "3"}))
	require.NoError(t, err)
	assert.Equal(t, `(data->>'id') IN ($1, $2, $3)`, sql)
	assert.Equal(t, []any{"1", "2", "3"}, params)
}

func TestComposeCaseSensitivityIsOperatorIdentity(t *testing.T) {
	assert.False(t, Contains.IsCaseInsensitive())
	assert.True(t, IContains.IsCaseInsensitive())

	c := NewComposer(Postgres)
	sql, _, err := c.Compose(Field("name", Contains, "Ali"))
	require.NoError(t, err)
	assert.Contains(t, sql, "LIKE")
	assert.NotContains(t, sql, "ILIKE")

	c2 := NewComposer(Postgres)
	sql2, _, err := c2.Compose(Field("name", IContains, "ali"))
	require.NoError(t, err)
	assert.Contains(t, sql2, "ILIKE")
}

func TestComposeRejectsInvalidFieldPath(t *testing.T) {
	c := NewComposer(Postgres)
	_, _, err := c.Compose(Field("bad-name", Eq, "x"))
	require.Error(t, err)
}

func TestComposeIsNull(t *testing.T) {
	c := NewComposer(Postgres)
	sql, params, err := c.Compose(Field("deleted_at", IsNull, true))
	require.NoError(t, err)
	assert.Equal(t, `(data->>'deleted_at') IS NULL`, sql)
	assert.Empty(t, params)
}

func TestComposeNot(t *testing.T) {
	c := NewComposer(Postgres)
	sql, _, err := c.Compose(Not{Child: Field("active", Eq, true)})
	require.NoError(t, err)
	assert.Equal(t, `NOT ((data->>'active') = $1)`, sql)
}

func TestComposeNoValueLeaksIntoSQLText(t *testing.T) {
	c := NewComposer(Postgres)
	payload := "'; DROP TABLE users;--"
	sql, params, err := c.Compose(Field("name", Eq, payload))
	require.NoError(t, err)
	assert.NotContains(t, sql, payload)
	assert.Equal(t, []any{payload}, params)
}

func TestOperatorNames(t *testing.T) {
	assert.Equal(t, "eq", Eq.Name())
	assert.Equal(t, "icontains", IContains.Name())
	assert.Equal(t, "websearch-query", FTSWebsearchQuery.Name())
}

// TestComposeEveryDialectCoversBaseOperators proves every base
// operator template declared for Postgres is also declared for
// MySQL, SQLite, and SQL Server, the same completeness guarantee
// schema.OperatorTemplate.HasAllDialects enforces for rich-type
// operators.
func TestComposeEveryDialectCoversBaseOperators(t *testing.T) {
	for op, byDialect := range ftsTemplates {
		for _, d := range AllDialects {
			assert.Containsf(t, byDialect, d, "fts operator %s missing dialect %s", op.Name(), d)
		}
	}
	for op, byDialect := range vectorTemplates {
		for _, d := range AllDialects {
			assert.Containsf(t, byDialect, d, "vector operator %s missing dialect %s", op.Name(), d)
		}
	}
	for op, byDialect := range inetUnaryTemplates {
		for _, d := range AllDialects {
			assert.Containsf(t, byDialect, d, "inet operator %s missing dialect %s", op.Name(), d)
		}
	}
	for op, byDialect := range inetBinaryTemplates {
		for _, d := range AllDialects {
			assert.Containsf(t, byDialect, d, "inet operator %s missing dialect %s", op.Name(), d)
		}
	}
	for _, d := range AllDialects {
		assert.Containsf(t, likeSyntaxByDialect, d, "like syntax missing dialect %s", d)
	}
}

func TestComposeLikeAcrossDialects(t *testing.T) {
	cases := []struct {
		dialect      Dialect
		wantKeyword  string
		wantLowerLHS bool
	}{
		{Postgres, "ILIKE", false},
		{MySQL, "LIKE", false},
		{SQLite, "LIKE", true},
		{SQLServer, "LIKE", true},
	}
	for _, tc := range cases {
		c := NewComposer(tc.dialect)
		sql, params, err := c.Compose(Field("name", IContains, "Ali"))
		require.NoError(t, err)
		assert.Contains(t, sql, tc.wantKeyword)
		if tc.wantLowerLHS {
			assert.Contains(t, sql, "LOWER(")
			assert.Equal(t, []any{"%ali%"}, params)
		} else {
			assert.Equal(t, []any{"%Ali%"}, params)
		}
	}

	// Case-sensitive matching never lowers either operand.
	for _, d := range AllDialects {
		c := NewComposer(d)
		sql, _, err := c.Compose(Field("name", Contains, "Ali"))
		require.NoError(t, err)
		assert.NotContains(t, sql, "LOWER(")
		assert.NotContains(t, sql, "ILIKE")
	}
}

func TestComposeFTSAcrossDialects(t *testing.T) {
	for _, d := range AllDialects {
		c := NewComposer(d)
		sql, params, err := c.Compose(Field("body", FTSWebsearchQuery, "go routines"))
		require.NoError(t, err)
		assert.NotEmpty(t, sql)
		assert.Equal(t, []any{"go routines"}, params)
	}
}

func TestComposeVectorDistanceAcrossDialects(t *testing.T) {
	for _, d := range AllDialects {
		c := NewComposer(d)
		sql, params, err := c.Compose(Field("embedding", CosineDistance, []float64{0.1, 0.2}))
		require.NoError(t, err)
		assert.NotEmpty(t, sql)
		assert.Equal(t, []any{[]float64{0.1, 0.2}}, params)
	}
}

func TestComposeInetOperatorsAcrossDialects(t *testing.T) {
	for _, d := range AllDialects {
		c := NewComposer(d)
		sql, params, err := c.Compose(Field("ip", IsPrivate, nil))
		require.NoError(t, err)
		assert.NotEmpty(t, sql)
		assert.Empty(t, params)

		c2 := NewComposer(d)
		sql2, params2, err := c2.Compose(Field("ip", InSubnet, "10.0.0.0/8"))
		require.NoError(t, err)
		assert.NotEmpty(t, sql2)
		assert.Equal(t, []any{"10.0.0.0/8"}, params2)
	}
}
