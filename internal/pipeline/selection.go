// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// SelectionNode is the resolved field-selection tree for one level of
// a response: fragment spreads and inline fragments are flattened
// into their parent's children so the projector never has to know
// about GraphQL's selection syntax.
type SelectionNode struct {
	Name     string
	Alias    string
	Children map[string]*SelectionNode
}

// BuildSelection flattens a selection set (resolving fragment spreads
// via the given index) into a field-name-keyed tree.
func BuildSelection(ss ast.SelectionSet, fragments map[string]*ast.FragmentDefinition) map[string]*SelectionNode {
	out := make(map[string]*SelectionNode)
	mergeSelection(out, ss, fragments, nil)
	return out
}

func mergeSelection(into map[string]*SelectionNode, ss ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visiting map[string]bool) {
	for _, sel := range ss {
		switch s := sel.(type) {
		case *ast.Field:
			name := s.Name
			node, ok := into[name]
			if !ok {
				node = &SelectionNode{Name: name, Alias: s.Alias, Children: make(map[string]*SelectionNode)}
				into[name] = node
			}
			mergeSelection(node.Children, s.SelectionSet, fragments, visiting)
		case *ast.InlineFragment:
			mergeSelection(into, s.SelectionSet, fragments, visiting)
		case *ast.FragmentSpread:
			if visiting[s.Name] {
				continue
			}
			frag, ok := fragments[s.Name]
			if !ok {
				continue
			}
			next := cloneVisiting(visiting)
			next[s.Name] = true
			mergeSelection(into, frag.SelectionSet, fragments, next)
		}
	}
}

// FieldNames returns the selected field names at this level, sorted
// for deterministic projection ordering.
func FieldNames(level map[string]*SelectionNode) []string {
	names := make([]string, 0, len(level))
	for name := range level {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectionShape serializes the full recursive field-selection tree
// into a deterministic string: two selections compare equal only when
// every level, not just the root's immediate children, selects the
// same fields and aliases. This is the structural half of a cache
// Fingerprint — it exists because two queries can share identical
// root-level field names while diverging arbitrarily deep (e.g.
// post{author{name}} vs post{author{name bio}} both produce
// FieldNames == ["author"] at the top level).
func SelectionShape(level map[string]*SelectionNode) string {
	names := FieldNames(level)
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		node := level[name]
		sb.WriteString(name)
		if node.Alias != "" && node.Alias != node.Name {
			sb.WriteByte('@')
			sb.WriteString(node.Alias)
		}
		if len(node.Children) > 0 {
			sb.WriteByte('{')
			sb.WriteString(SelectionShape(node.Children))
			sb.WriteByte('}')
		}
	}
	return sb.String()
}
