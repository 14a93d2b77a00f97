// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"fmt"
	"sort"

	"github.com/taibuivan/gqlsql/internal/ql/orderby"
	"github.com/taibuivan/gqlsql/internal/ql/where"
)

// operatorKeys maps the GraphQL-facing operator key used inside a
// `filter` input object to its where.Operator.
var operatorKeys = map[string]where.Operator{
	"eq": where.Eq, "neq": where.Neq,
	"gt": where.Gt, "gte": where.Gte, "lt": where.Lt, "lte": where.Lte,
	"in": where.In, "nin": where.NotIn,
	"arrayContains": where.ArrayContains, "arrayContainedBy": where.ArrayContainedBy, "arrayOverlaps": where.ArrayOverlaps,
	"lenEq": where.LenEq, "lenGt": where.LenGt, "lenGte": where.LenGte, "lenLt": where.LenLt, "lenLte": where.LenLte,
	"contains": where.Contains, "icontains": where.IContains,
	"startsWith": where.StartsWith, "istartsWith": where.IStartsWith,
	"endsWith": where.EndsWith, "iendsWith": where.IEndsWith,
	"like": where.Like, "ilike": where.ILike,
	"isNull": where.IsNull,
	"l2Distance": where.L2Distance, "cosineDistance": where.CosineDistance,
	"innerProduct": where.InnerProduct, "jaccardDistance": where.JaccardDistance,
	"matches": where.FTSMatches, "plainQuery": where.FTSPlainQuery,
	"phraseQuery": where.FTSPhraseQuery, "websearchQuery": where.FTSWebsearchQuery,
	"isIPv4": where.IsIPv4, "isIPv6": where.IsIPv6, "isPrivate": where.IsPrivate, "isLoopback": where.IsLoopback,
	"inSubnet": where.InSubnet, "containsSubnet": where.ContainsSubnet,
	"containsIP": where.ContainsIP, "ipRangeOverlap": where.IPRangeOverlap,
}

// FilterToNode parses a `filter` argument's Go-value representation
// into a where.Node. The input convention nests logical combinators
// under the reserved keys "AND", "OR", "NOT" and otherwise treats a
// key as a field path mapping to an object of operator-name -> value.
func FilterToNode(v any) (where.Node, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pipeline: filter must be an object, got %T", v)
	}
	return filterObjectToNode(obj)
}

func filterObjectToNode(obj map[string]any) (where.Node, error) {
	var clauses []where.Node

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := obj[key]
		switch key {
		case "AND", "OR":
			list, ok := val.([]any)
			if !ok {
				return nil, fmt.Errorf("pipeline: %s requires a list of filters", key)
			}
			children := make([]where.Node, 0, len(list))
			for _, item := range list {
				itemObj, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("pipeline: %s entry must be an object", key)
				}
				child, err := filterObjectToNode(itemObj)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
			if key == "AND" {
				clauses = append(clauses, where.And{Children: children})
			} else {
				clauses = append(clauses, where.Or{Children: children})
			}
		case "NOT":
			inner, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("pipeline: NOT requires an object")
			}
			child, err := filterObjectToNode(inner)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, where.Not{Child: child})
		default:
			fieldClauses, err := fieldOperatorsToNodes(key, val)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fieldClauses...)
		}
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return where.And{Children: clauses}, nil
}

func fieldOperatorsToNodes(field string, val any) ([]where.Node, error) {
	ops, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pipeline: field %q filter must be an object of operators", field)
	}

	opKeys := make([]string, 0, len(ops))
	for k := range ops {
		opKeys = append(opKeys, k)
	}
	sort.Strings(opKeys)

	var nodes []where.Node
	for _, opKey := range opKeys {
		op, ok := operatorKeys[opKey]
		if !ok {
			return nil, fmt.Errorf("pipeline: unknown filter operator %q on field %q", opKey, field)
		}
		nodes = append(nodes, where.Field(field, op, ops[opKey]))
	}
	return nodes, nil
}

// OrderByToList parses an `orderBy` argument's Go-value
// representation (a list of `{field, direction, source, collation,
// nulls}` objects) into an orderby.List.
func OrderByToList(v any) (orderby.List, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("pipeline: orderBy must be a list")
	}

	list := make(orderby.List, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("pipeline: orderBy entry must be an object")
		}

		field, _ := obj["field"].(string)
		clause := orderby.Clause{Field: field}

		if src, ok := obj["source"].(string); ok && src == "direct" {
			clause.Source = orderby.DirectColumn
		}
		if dir, ok := obj["direction"].(string); ok && dir == "DESC" {
			clause.Direction = orderby.Desc
		}
		if collation, ok := obj["collation"].(string); ok {
			clause.Collation = collation
		}
		if nulls, ok := obj["nulls"].(string); ok {
			switch nulls {
			case "FIRST":
				clause.Nulls = orderby.NullsFirst
			case "LAST":
				clause.Nulls = orderby.NullsLast
			}
		}

		if err := clause.Validate(); err != nil {
			return nil, err
		}
		list = append(list, clause)
	}
	return list, nil
}
