// Copyright (c) 2026 gqlsql. All rights reserved.

package schema

import (
	"fmt"
	"strings"
)

// ValidationIssue names one invariant violation and the offending
// node's path.
type ValidationIssue struct {
	Path    string
	Message string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Validate checks the quantified invariants of spec.md §3/§8 against a
// built CompiledSchema: every field resolves to a declared type,
// aggregate types carry `count`, fact tables are `tf_`-prefixed, every
// operator template covers all four dialects, and lookup tables are
// non-empty. It returns every issue found rather than failing fast, so
// a caller in strict mode can report them all at once.
func Validate(s *CompiledSchema) []ValidationIssue {
	var issues []ValidationIssue

	known := make(map[string]bool, len(s.Types)+len(s.InputTypes)+len(s.Enums))
	for name := range s.Types {
		known[name] = true
	}
	for name := range s.InputTypes {
		known[name] = true
	}
	for name := range s.Enums {
		known[name] = true
	}
	for _, scalar := range builtinScalars {
		known[scalar] = true
	}

	for typeName, td := range s.Types {
		for _, f := range td.Fields {
			if !resolves(f.Type, known) {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("types.%s.fields.%s", typeName, f.Name),
					Message: "field references an undeclared type",
				})
			}
		}
	}

	for name, ft := range s.FactTables {
		if !strings.HasPrefix(name, "tf_") {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("fact_tables.%s", name),
				Message: "fact table name must start with tf_",
			})
		}
		if len(ft.Measures) == 0 {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("fact_tables.%s", name),
				Message: "fact table declares no measures",
			})
		}
	}

	for typeName, td := range s.Types {
		if isAggregateShaped(td) && !td.HasCount() {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("types.%s", typeName),
				Message: "aggregate type is missing a count field",
			})
		}
	}

	for semanticType, ops := range s.OperatorTemplates {
		for _, op := range ops.Operators {
			if !op.HasAllDialects() {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("operator_templates.%s.%s", semanticType, op.Operator),
					Message: "operator template is missing a dialect",
				})
			}
		}
	}

	for name, lt := range s.Lookups {
		if len(lt.Entries) == 0 {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("lookups.%s", name),
				Message: "lookup table must be non-empty",
			})
		}
	}

	issues = append(issues, detectRequiredCycles(s)...)

	return issues
}

// detectRequiredCycles rejects circular references that flow only
// through non-list, non-nullable fields — a cycle through a list or a
// nullable field is fine (it bottoms out at runtime), but a cycle of
// required scalar-shaped edges can never be satisfied.
func detectRequiredCycles(s *CompiledSchema) []ValidationIssue {
	edges := make(map[string][]string)
	for typeName, td := range s.Types {
		for _, f := range td.Fields {
			if target, ok := requiredObjectEdge(f.Type); ok {
				edges[typeName] = append(edges[typeName], target)
			}
		}
	}

	var issues []ValidationIssue
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)
	var visit func(node, path string) bool
	visit = func(node, path string) bool {
		switch state[node] {
		case visiting:
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: fmt.Sprintf("circular required reference back to %s", node),
			})
			return true
		case done:
			return false
		}
		state[node] = visiting
		for _, next := range edges[node] {
			if visit(next, path+" -> "+next) {
				break
			}
		}
		state[node] = done
		return false
	}
	for typeName := range s.Types {
		if state[typeName] == unvisited {
			visit(typeName, typeName)
		}
	}
	return issues
}

// requiredObjectEdge reports the object type a field directly,
// non-nullably requires, i.e. NonNull(Object(X)) with no List wrapper
// breaking the requirement.
func requiredObjectEdge(ref TypeRef) (string, bool) {
	if ref.Kind != KindNonNull || ref.Of == nil {
		return "", false
	}
	inner := *ref.Of
	if inner.Kind == KindObject {
		return inner.Name, true
	}
	return "", false
}

var builtinScalars = []string{
	"String", "Int", "Float", "Boolean", "ID", "JSON", "DateTime", "UUID",
}

func resolves(ref TypeRef, known map[string]bool) bool {
	switch ref.Kind {
	case KindList, KindNonNull:
		if ref.Of == nil {
			return false
		}
		return resolves(*ref.Of, known)
	default:
		return known[ref.Name]
	}
}

// isAggregateShaped is a heuristic: a type is considered an aggregate
// projection if its backing SQL source is a fact table name.
func isAggregateShaped(td TypeDescriptor) bool {
	return strings.HasPrefix(td.SQLSource, "tf_")
}
