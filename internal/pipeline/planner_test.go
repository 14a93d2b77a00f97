// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/taibuivan/gqlsql/internal/platform/sec"
	"github.com/taibuivan/gqlsql/internal/schema"
)

func plannerSchema() *schema.CompiledSchema {
	return &schema.CompiledSchema{
		Types: map[string]schema.TypeDescriptor{
			"Post": {
				Name:      "Post",
				SQLSource: "v_post",
				Fields: []schema.FieldDescriptor{
					{Name: "id", Type: schema.TypeRef{Kind: schema.KindScalar, Name: "ID"}},
					{Name: "title", Type: schema.TypeRef{Kind: schema.KindScalar, Name: "String"}},
					{Name: "email", Type: schema.TypeRef{Kind: schema.KindScalar, Name: "String"}, RequiresScope: "read:Post.email"},
					{Name: "author", Type: schema.TypeRef{Kind: schema.KindObject, Name: "Author"}},
				},
			},
			"Author": {
				Name:      "Author",
				SQLSource: "v_author",
				Fields: []schema.FieldDescriptor{
					{Name: "id", Type: schema.TypeRef{Kind: schema.KindScalar, Name: "ID"}},
					{Name: "ssn", Type: schema.TypeRef{Kind: schema.KindScalar, Name: "String"}, RequiresScope: "admin:*"},
				},
			},
		},
		Queries: map[string]schema.QueryDescriptor{
			"posts": {
				Name: "posts", ReturnType: "Post", ReturnsList: true, SQLSource: "v_post",
				AutoParams: schema.AutoParamPolicy{Tenant: true, Filter: true, Pagination: true},
			},
			"postSales": {
				Name: "postSales", ReturnType: "PostSales", ReturnsList: true,
				FactTable: "tf_post_sales",
			},
		},
		FactTables: map[string]schema.FactTableDescriptor{
			"tf_post_sales": {Name: "tf_post_sales"},
		},
	}
}

func TestPlanQueryBindsAutoParamsAndPagination(t *testing.T) {
	p := NewPlanner(plannerSchema())
	field := mustField(t, `query { posts(limit: 5, offset: 10) { id title } }`, "posts")

	plan, err := p.PlanQuery(field, nil, nil, sec.SecurityContext{TenantID: "t1"})
	require.NoError(t, err)

	assert.Equal(t, RouteRegular, plan.Route)
	assert.Equal(t, "v_post", plan.Source)
	assert.Equal(t, "t1", plan.BoundArgs["tenant_id"])
	assert.Equal(t, 5, plan.Limit)
	assert.Equal(t, 10, plan.Offset)
}

func TestPlanQueryRoutesFactTableToAggregate(t *testing.T) {
	p := NewPlanner(plannerSchema())
	field := mustField(t, `query { postSales { sumRevenue } }`, "postSales")

	plan, err := p.PlanQuery(field, nil, nil, sec.SecurityContext{})
	require.NoError(t, err)

	assert.Equal(t, RouteAggregate, plan.Route)
	assert.Equal(t, "tf_post_sales", plan.Source)
}

func TestPlanQueryRejectsUnknownField(t *testing.T) {
	p := NewPlanner(plannerSchema())
	field := mustField(t, `query { posts { id } }`, "posts")
	field.Name = "bogus"

	_, err := p.PlanQuery(field, nil, nil, sec.SecurityContext{})
	assert.Error(t, err)
}

func TestApplyProjectionScopeDropsUnauthorizedField(t *testing.T) {
	p := NewPlanner(plannerSchema())
	selection := map[string]*SelectionNode{
		"id":    {Name: "id"},
		"email": {Name: "email"},
	}
	plan := &Plan{ReturnType: "Post", Selection: selection}

	p.ApplyProjectionScope(plan, sec.SecurityContext{})

	assert.Contains(t, plan.Selection, "id")
	assert.NotContains(t, plan.Selection, "email")
}

func TestApplyProjectionScopeKeepsFieldWithSatisfiedScope(t *testing.T) {
	p := NewPlanner(plannerSchema())
	selection := map[string]*SelectionNode{"email": {Name: "email"}}
	plan := &Plan{ReturnType: "Post", Selection: selection}

	p.ApplyProjectionScope(plan, sec.SecurityContext{Scopes: []string{"read:Post.email"}})

	assert.Contains(t, plan.Selection, "email")
}

func TestApplyProjectionScopeRecursesIntoNestedObject(t *testing.T) {
	p := NewPlanner(plannerSchema())
	selection := map[string]*SelectionNode{
		"author": {
			Name: "author",
			Children: map[string]*SelectionNode{
				"id":  {Name: "id"},
				"ssn": {Name: "ssn"},
			},
		},
	}
	plan := &Plan{ReturnType: "Post", Selection: selection}

	p.ApplyProjectionScope(plan, sec.SecurityContext{})

	authorChildren := plan.Selection["author"].Children
	assert.Contains(t, authorChildren, "id")
	assert.NotContains(t, authorChildren, "ssn")
}

func TestResolvePaginationClampsToMaxLimit(t *testing.T) {
	p := NewPlanner(plannerSchema())
	limit, offset := p.resolvePagination(map[string]any{"limit": 999999})
	assert.Equal(t, p.maxLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestResolvePaginationDerivesOffsetFromPage(t *testing.T) {
	p := NewPlanner(plannerSchema())
	limit, offset := p.resolvePagination(map[string]any{"limit": 10, "page": 3})
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}

// mustField parses query and returns the named top-level field.
func mustField(t *testing.T, query, name string) *ast.Field {
	t.Helper()
	op, err := ParseRequest(query, "", nil)
	require.NoError(t, err)
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in query", name)
	return nil
}
