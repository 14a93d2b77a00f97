// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gqlsql/internal/ql/orderby"
	"github.com/taibuivan/gqlsql/internal/ql/where"
)

func TestFilterToNodeSingleFieldSingleOperator(t *testing.T) {
	node, err := FilterToNode(map[string]any{
		"status": map[string]any{"eq": "published"},
	})
	require.NoError(t, err)

	pred, ok := node.(where.FieldPredicate)
	require.True(t, ok)
	assert.Equal(t, "status", pred.Path)
	assert.Equal(t, where.Eq, pred.Operator)
	assert.Equal(t, "published", pred.Value)
}

func TestFilterToNodeAndOr(t *testing.T) {
	node, err := FilterToNode(map[string]any{
		"AND": []any{
			map[string]any{"status": map[string]any{"eq": "published"}},
			map[string]any{"views": map[string]any{"gt": 10}},
		},
	})
	require.NoError(t, err)

	and, ok := node.(where.And)
	require.True(t, ok)
	assert.Len(t, and.Children, 2)
}

func TestFilterToNodeNot(t *testing.T) {
	node, err := FilterToNode(map[string]any{
		"NOT": map[string]any{"status": map[string]any{"eq": "draft"}},
	})
	require.NoError(t, err)
	_, ok := node.(where.Not)
	assert.True(t, ok)
}

func TestFilterToNodeRejectsUnknownOperator(t *testing.T) {
	_, err := FilterToNode(map[string]any{
		"status": map[string]any{"bogus": "x"},
	})
	assert.Error(t, err)
}

func TestFilterToNodeNilIsNilNode(t *testing.T) {
	node, err := FilterToNode(nil)
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestOrderByToListParsesDirectionSourceAndNulls(t *testing.T) {
	list, err := OrderByToList([]any{
		map[string]any{"field": "created_at", "direction": "DESC", "source": "direct", "nulls": "LAST"},
		map[string]any{"field": "title", "direction": "ASC"},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "created_at", list[0].Field)
	assert.Equal(t, orderby.DirectColumn, list[0].Source)
	assert.Equal(t, orderby.Desc, list[0].Direction)
	assert.Equal(t, orderby.NullsLast, list[0].Nulls)

	assert.Equal(t, orderby.JsonbPayload, list[1].Source)
	assert.Equal(t, orderby.Asc, list[1].Direction)
}

func TestOrderByToListRejectsInvalidFieldName(t *testing.T) {
	_, err := OrderByToList([]any{
		map[string]any{"field": "bad field"},
	})
	assert.Error(t, err)
}
