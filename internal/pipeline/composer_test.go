// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gqlsql/internal/ql/orderby"
	"github.com/taibuivan/gqlsql/internal/ql/where"
	"github.com/taibuivan/gqlsql/internal/schema"
)

func TestComposeRegularEmitsSelectFromWhereOrderLimitOffset(t *testing.T) {
	plan := &Plan{
		Source:      "v_post",
		JSONBColumn: "data",
		BoundArgs:   map[string]any{"tenant_id": "t1"},
		Where:       where.Field("status", where.Eq, "published"),
		OrderBy:     orderby.List{orderby.JSONBField("created_at", orderby.Desc)},
		Limit:       20,
		Offset:      0,
	}

	q, err := ComposeRegular(plan, where.Postgres)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "SELECT data FROM v_post")
	assert.Contains(t, q.SQL, "WHERE tenant_id = $1 AND")
	assert.Contains(t, q.SQL, "ORDER BY (data->'created_at') DESC")
	assert.Contains(t, q.SQL, "LIMIT $")
	assert.Contains(t, q.SQL, "OFFSET $")
	assert.Equal(t, []any{"t1", "published", 20, 0}, q.Params)
}

func TestComposeRegularNoWhereOmitsWhereClause(t *testing.T) {
	plan := &Plan{Source: "v_post", JSONBColumn: "data"}
	q, err := ComposeRegular(plan, where.Postgres)
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "WHERE")
	assert.Contains(t, q.SQL, "OFFSET $1")
}

func TestComposeAggregateEmitsSumAndGroupBy(t *testing.T) {
	fact := schema.FactTableDescriptor{
		Name:       "tf_sales",
		Measures:   []schema.Measure{{Name: "revenue", SQLType: "numeric"}},
		Dimensions: []schema.Dimension{{Name: "region"}},
	}
	plan := &Plan{
		Source: "tf_sales",
		Selection: map[string]*SelectionNode{
			"sumRevenue": {Name: "sumRevenue"},
			"region":     {Name: "region"},
		},
	}

	q, err := ComposeAggregate(plan, fact, where.Postgres)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "SUM(revenue) AS sumRevenue")
	assert.Contains(t, q.SQL, "region AS region")
	assert.Contains(t, q.SQL, "GROUP BY region")
	assert.Contains(t, q.SQL, "FROM tf_sales")
}

func TestComposeAggregateDefaultsToCountWhenNoMeasureSelected(t *testing.T) {
	fact := schema.FactTableDescriptor{Name: "tf_sales"}
	plan := &Plan{Source: "tf_sales", Selection: map[string]*SelectionNode{}}

	q, err := ComposeAggregate(plan, fact, where.Postgres)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "COUNT(*) AS count")
}
