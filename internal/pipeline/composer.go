// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/taibuivan/gqlsql/internal/ql/where"
	"github.com/taibuivan/gqlsql/internal/schema"
)

// ComposedQuery is the SQL composer's output: a placeholder-only SQL
// string, its parallel parameter vector, and the parameter names in
// binding order (kept for the plan cache's parameter plan).
type ComposedQuery struct {
	SQL        string
	Params     []any
	ParamOrder []string
}

var aggregatePrefixes = []string{"sum", "count", "avg", "min", "max"}

// aggregateFunctionFor matches a selected field name against the
// fact table's measures by stripping a recognized SQL-function
// prefix (e.g. "sumRevenue" -> SUM(revenue)).
func aggregateFunctionFor(fieldName string, measures []schema.Measure) (fn string, measure string, ok bool) {
	for _, prefix := range aggregatePrefixes {
		if !strings.HasPrefix(strings.ToLower(fieldName), prefix) {
			continue
		}
		remainder := fieldName[len(prefix):]
		if remainder == "" {
			continue
		}
		candidate := lowerFirst(remainder)
		for _, m := range measures {
			if strings.EqualFold(m.Name, candidate) {
				return strings.ToUpper(prefix), m.Name, true
			}
		}
	}
	return "", "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ComposeRegular emits the SELECT for a regular (view-backed) plan
// (spec.md §4.6).
func ComposeRegular(plan *Plan, dialect where.Dialect) (*ComposedQuery, error) {
	var sb strings.Builder
	var params []any
	var paramOrder []string
	next := 1

	sb.WriteString("SELECT ")
	sb.WriteString(plan.JSONBColumn)
	sb.WriteString(" FROM ")
	sb.WriteString(plan.Source)

	var conditions []string

	if v, ok := plan.BoundArgs["tenant_id"]; ok {
		conditions = append(conditions, "tenant_id = "+dialect.Placeholder(next))
		params = append(params, v)
		paramOrder = append(paramOrder, "tenant_id")
		next++
	}
	if v, ok := plan.BoundArgs["user_id"]; ok {
		conditions = append(conditions, "user_id = "+dialect.Placeholder(next))
		params = append(params, v)
		paramOrder = append(paramOrder, "user_id")
		next++
	}

	if plan.Where != nil {
		composer := &where.Composer{Dialect: dialect, NextPlaceholder: next}
		whereSQL, whereParams, err := composer.Compose(plan.Where)
		if err != nil {
			return nil, compositionErr("failed to compose where clause", err)
		}
		if whereSQL != "TRUE" {
			conditions = append(conditions, whereSQL)
		}
		params = append(params, whereParams...)
		for i := range whereParams {
			paramOrder = append(paramOrder, "filter["+strconv.Itoa(i)+"]")
		}
		next = composer.NextPlaceholder
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if len(plan.OrderBy) > 0 {
		orderSQL, err := plan.OrderBy.ToSQL()
		if err != nil {
			return nil, compositionErr("failed to compose order by clause", err)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderSQL)
	}

	if plan.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(dialect.Placeholder(next))
		params = append(params, plan.Limit)
		paramOrder = append(paramOrder, "limit")
		next++
	}
	sb.WriteString(" OFFSET ")
	sb.WriteString(dialect.Placeholder(next))
	params = append(params, plan.Offset)
	paramOrder = append(paramOrder, "offset")

	return &ComposedQuery{SQL: sb.String(), Params: params, ParamOrder: paramOrder}, nil
}

// ComposeAggregate emits the SELECT for an aggregate (fact-table)
// plan: SUM/COUNT/AVG/MIN/MAX over measures, GROUP BY dimensions, an
// optional HAVING built from the same where-algebra, and an optional
// window clause (spec.md §4.6).
func ComposeAggregate(plan *Plan, fact schema.FactTableDescriptor, dialect where.Dialect) (*ComposedQuery, error) {
	var selectCols []string
	var groupCols []string

	for _, name := range FieldNames(plan.Selection) {
		if name == "count" {
			selectCols = append(selectCols, "COUNT(*) AS count")
			continue
		}
		if fn, measure, ok := aggregateFunctionFor(name, fact.Measures); ok {
			selectCols = append(selectCols, fn+"("+measure+") AS "+name)
			continue
		}
		for _, dim := range fact.Dimensions {
			if dim.Name == name {
				expr := dimensionExpr(dim)
				selectCols = append(selectCols, expr+" AS "+name)
				groupCols = append(groupCols, expr)
			}
		}
	}

	if len(selectCols) == 0 {
		selectCols = append(selectCols, "COUNT(*) AS count")
	}

	var sb strings.Builder
	var params []any
	var paramOrder []string
	next := 1

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectCols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(fact.Name)

	var conditions []string
	if v, ok := plan.BoundArgs["tenant_id"]; ok {
		conditions = append(conditions, "tenant_id = "+dialect.Placeholder(next))
		params = append(params, v)
		paramOrder = append(paramOrder, "tenant_id")
		next++
	}
	if plan.Where != nil {
		composer := &where.Composer{Dialect: dialect, NextPlaceholder: next}
		whereSQL, whereParams, err := composer.Compose(plan.Where)
		if err != nil {
			return nil, compositionErr("failed to compose where clause", err)
		}
		if whereSQL != "TRUE" {
			conditions = append(conditions, whereSQL)
		}
		params = append(params, whereParams...)
		for i := range whereParams {
			paramOrder = append(paramOrder, "filter["+strconv.Itoa(i)+"]")
		}
		next = composer.NextPlaceholder
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if len(groupCols) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groupCols, ", "))
	}

	if plan.Having != nil {
		composer := &where.Composer{Dialect: dialect, NextPlaceholder: next}
		havingSQL, havingParams, err := composer.Compose(plan.Having)
		if err != nil {
			return nil, compositionErr("failed to compose having clause", err)
		}
		sb.WriteString(" HAVING ")
		sb.WriteString(havingSQL)
		params = append(params, havingParams...)
		for i := range havingParams {
			paramOrder = append(paramOrder, "having["+strconv.Itoa(i)+"]")
		}
		next = composer.NextPlaceholder
	}

	if plan.Window != nil {
		windowSQL, err := composeWindow(plan.Window)
		if err != nil {
			return nil, compositionErr("failed to compose window clause", err)
		}
		sb.WriteString(" ")
		sb.WriteString(windowSQL)
	}

	if len(plan.OrderBy) > 0 {
		orderSQL, err := plan.OrderBy.ToSQL()
		if err != nil {
			return nil, compositionErr("failed to compose order by clause", err)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderSQL)
	}

	return &ComposedQuery{SQL: sb.String(), Params: params, ParamOrder: paramOrder}, nil
}

func dimensionExpr(d schema.Dimension) string {
	if d.JSONBPath {
		return "(data->'" + d.Name + "')"
	}
	return d.Name
}

func composeWindow(w *WindowSpec) (string, error) {
	var sb strings.Builder
	sb.WriteString("WINDOW w AS (")
	if len(w.PartitionBy) > 0 {
		sb.WriteString("PARTITION BY ")
		sb.WriteString(strings.Join(w.PartitionBy, ", "))
	}
	if len(w.OrderBy) > 0 {
		if len(w.PartitionBy) > 0 {
			sb.WriteString(" ")
		}
		orderSQL, err := w.OrderBy.ToSQL()
		if err != nil {
			return "", err
		}
		sb.WriteString("ORDER BY ")
		sb.WriteString(orderSQL)
	}
	if w.Frame != "" {
		sb.WriteString(" ")
		sb.WriteString(w.Frame)
	}
	sb.WriteString(")")
	return sb.String(), nil
}
