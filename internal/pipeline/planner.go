// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/taibuivan/gqlsql/internal/ql/orderby"
	"github.com/taibuivan/gqlsql/internal/ql/where"
	"github.com/taibuivan/gqlsql/internal/platform/sec"
	"github.com/taibuivan/gqlsql/pkg/pagination"
	"github.com/taibuivan/gqlsql/internal/schema"
)

// Route is the routing decision: a plain read against a view, or an
// aggregate read against a fact table (spec.md §4.5 "Planner").
type Route int

const (
	RouteRegular Route = iota
	RouteAggregate
)

// WindowSpec is a planner-level window-function descriptor for an
// aggregate plan's optional window clause.
type WindowSpec struct {
	PartitionBy []string
	OrderBy     orderby.List
	Frame       string
}

// Plan is the request-scoped plan entity (spec.md §3): route, source,
// bound arguments, where-tree, order-by list, pagination, and the
// projection mask used after execution.
type Plan struct {
	Route       Route
	QueryName   string
	ReturnType  string
	ReturnsList bool
	Source      string // view, ta_ table, or tf_ fact table
	JSONBColumn string

	BoundArgs map[string]any

	Where  where.Node
	Having where.Node

	OrderBy orderby.List
	Window  *WindowSpec

	Limit  int
	Offset int

	Selection map[string]*SelectionNode
}

// route1Row reports whether the plan's query returns a single object
// rather than a list.
func (p *Plan) route1Row() bool {
	return !p.ReturnsList
}

// Planner classifies and plans one validated, parsed operation
// against the compiled schema and the caller's security context.
type Planner struct {
	schema       *schema.CompiledSchema
	defaultLimit int
	maxLimit     int
}

// NewPlanner builds a Planner bound to a compiled schema.
func NewPlanner(compiled *schema.CompiledSchema) *Planner {
	return &Planner{schema: compiled, defaultLimit: pagination.DefaultLimit, maxLimit: pagination.MaxLimit}
}

// PlanQuery plans a single top-level query field.
func (p *Planner) PlanQuery(field *ast.Field, vars map[string]any, fragments map[string]*ast.FragmentDefinition, secCtx sec.SecurityContext) (*Plan, error) {
	qd, ok := p.schema.Queries[field.Name]
	if !ok {
		return nil, validationErr("unknown query field: "+field.Name, field.Name)
	}

	args := argumentsToMap(field.Arguments, vars)
	selection := BuildSelection(field.SelectionSet, fragments)

	plan := &Plan{
		QueryName:   field.Name,
		ReturnType:  qd.ReturnType,
		ReturnsList: qd.ReturnsList,
		Source:      qd.SQLSource,
		JSONBColumn: p.jsonbColumnFor(qd.ReturnType),
		BoundArgs:   make(map[string]any),
		Selection:   selection,
	}

	if qd.FactTable != "" {
		if _, ok := p.schema.FactTables[qd.FactTable]; ok {
			plan.Route = RouteAggregate
			plan.Source = qd.FactTable
		}
	}

	if qd.AutoParams.Tenant {
		plan.BoundArgs["tenant_id"] = secCtx.TenantID
	}
	if qd.AutoParams.User {
		plan.BoundArgs["user_id"] = secCtx.UserID
	}

	if qd.AutoParams.Filter {
		node, err := FilterToNode(args["filter"])
		if err != nil {
			return nil, compositionErr("invalid filter argument", err)
		}
		plan.Where = node
	}

	if orderArg, ok := args["orderBy"]; ok {
		list, err := OrderByToList(orderArg)
		if err != nil {
			return nil, compositionErr("invalid orderBy argument", err)
		}
		plan.OrderBy = list
	}

	if qd.AutoParams.Pagination {
		limit, offset := p.resolvePagination(args)
		plan.Limit = limit
		plan.Offset = offset
	}

	return plan, nil
}

// jsonbColumnFor resolves the JSONB payload column for a return type,
// defaulting to "data" per convention.
func (p *Planner) jsonbColumnFor(typeName string) string {
	if td, ok := p.schema.Types[typeName]; ok {
		return td.DefaultJSONBColumn()
	}
	return "data"
}

func (p *Planner) resolvePagination(args map[string]any) (limit, offset int) {
	limit = p.defaultLimit
	if v, ok := args["limit"]; ok {
		if n, ok := toInt(v); ok {
			limit = n
		}
	}
	if limit <= 0 || limit > p.maxLimit {
		limit = p.maxLimit
	}

	if v, ok := args["offset"]; ok {
		if n, ok := toInt(v); ok {
			offset = n
		}
	}
	if page, ok := args["page"]; ok {
		if n, ok := toInt(page); ok && n > 1 {
			offset = (n - 1) * limit
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// ApplyProjectionScope filters plan.Selection in place, removing any
// field (recursively) whose requires_scope is not satisfied by
// secCtx, per spec.md §4.9.
func (p *Planner) ApplyProjectionScope(plan *Plan, secCtx sec.SecurityContext) {
	plan.Selection = p.filterSelection(plan.ReturnType, plan.Selection, secCtx)
}

func (p *Planner) filterSelection(typeName string, level map[string]*SelectionNode, secCtx sec.SecurityContext) map[string]*SelectionNode {
	td, ok := p.schema.Types[typeName]
	if !ok {
		return level
	}
	fieldByName := make(map[string]schema.FieldDescriptor, len(td.Fields))
	for _, f := range td.Fields {
		fieldByName[f.Name] = f
	}

	out := make(map[string]*SelectionNode, len(level))
	for name, node := range level {
		fd, known := fieldByName[name]
		if known && !secCtx.SatisfiesScope(fd.RequiresScope) {
			continue
		}
		childType := ""
		if known {
			childType = underlyingObjectName(fd.Type)
		}
		if childType != "" && len(node.Children) > 0 {
			node.Children = p.filterSelection(childType, node.Children, secCtx)
		}
		out[name] = node
	}
	return out
}

func underlyingObjectName(t schema.TypeRef) string {
	switch t.Kind {
	case schema.KindObject:
		return t.Name
	case schema.KindList, schema.KindNonNull:
		if t.Of != nil {
			return underlyingObjectName(*t.Of)
		}
	}
	return ""
}
