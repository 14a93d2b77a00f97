// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/taibuivan/gqlsql/internal/schema"
)

// ValidatorConfig carries the configured request limits (spec.md §6
// "Validator" row).
type ValidatorConfig struct {
	MaxDepth         int
	MaxComplexity    int
	EnableDepth      bool
	EnableComplexity bool
}

// Validator enforces depth, complexity, fragment-graph acyclicity,
// variable coercion, and the operation whitelist against a compiled
// schema (spec.md §4.5 "Validator").
type Validator struct {
	cfg    ValidatorConfig
	schema *schema.CompiledSchema
}

// NewValidator builds a Validator bound to a compiled schema.
func NewValidator(cfg ValidatorConfig, compiled *schema.CompiledSchema) *Validator {
	return &Validator{cfg: cfg, schema: compiled}
}

// Validate runs every check and returns the first violation, or the
// coerced variable map on success.
func (v *Validator) Validate(op *ParsedOperation) (map[string]any, error) {
	fragments := op.fragmentIndex()

	if err := checkFragmentAcyclic(fragments); err != nil {
		return nil, err
	}

	if v.cfg.EnableDepth && v.cfg.MaxDepth > 0 {
		depth := selectionSetDepth(op.SelectionSet, fragments, 0, nil)
		if depth > v.cfg.MaxDepth {
			return nil, validationErr(fmt.Sprintf("query depth %d exceeds maximum %d", depth, v.cfg.MaxDepth))
		}
	}

	if v.cfg.EnableComplexity && v.cfg.MaxComplexity > 0 {
		complexity := selectionSetComplexity(op.SelectionSet, fragments, nil)
		if complexity > v.cfg.MaxComplexity {
			return nil, validationErr(fmt.Sprintf("query complexity %d exceeds maximum %d", complexity, v.cfg.MaxComplexity))
		}
	}

	vars, err := coerceVariables(op.VariableDefs, op.RawVariables)
	if err != nil {
		return nil, err
	}

	if err := v.checkWhitelist(op); err != nil {
		return nil, err
	}

	return vars, nil
}

// checkWhitelist requires every root field of a query or mutation
// operation to exist in the compiled schema.
func (v *Validator) checkWhitelist(op *ParsedOperation) error {
	for _, name := range op.RootFieldNames() {
		if name == "__schema" || name == "__type" || name == "__typename" {
			continue
		}
		switch op.Kind {
		case ast.Mutation:
			if _, ok := v.schema.Mutations[name]; !ok {
				return validationErr("unknown mutation: "+name, name)
			}
		default:
			if _, ok := v.schema.Queries[name]; !ok {
				return validationErr("unknown query field: "+name, name)
			}
		}
	}
	return nil
}

// checkFragmentAcyclic rejects a fragment reference graph that
// contains a cycle, via a DFS coloring walk (white/grey/black).
func checkFragmentAcyclic(fragments map[string]*ast.FragmentDefinition) error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(fragments))

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch color[name] {
		case black:
			return nil
		case grey:
			return validationErr("fragment cycle detected: " + name)
		}
		color[name] = grey
		chain = append(chain, name)

		frag, ok := fragments[name]
		if ok {
			for _, spread := range fragmentSpreadNames(frag.SelectionSet) {
				if err := visit(spread, chain); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}

	for name := range fragments {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func fragmentSpreadNames(ss ast.SelectionSet) []string {
	var names []string
	for _, sel := range ss {
		switch s := sel.(type) {
		case *ast.FragmentSpread:
			names = append(names, s.Name)
		case *ast.InlineFragment:
			names = append(names, fragmentSpreadNames(s.SelectionSet)...)
		case *ast.Field:
			names = append(names, fragmentSpreadNames(s.SelectionSet)...)
		}
	}
	return names
}

// selectionSetDepth walks the selection set, resolving fragment
// spreads through the fragments index. visiting guards against
// re-descending into a fragment already on the current path (the
// acyclicity check has already run, but a self-referencing alias
// chain could otherwise recurse once more than necessary).
func selectionSetDepth(ss ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, current int, visiting map[string]bool) int {
	if len(ss) == 0 {
		return current
	}
	maxDepth := current
	for _, sel := range ss {
		var childDepth int
		switch s := sel.(type) {
		case *ast.Field:
			childDepth = selectionSetDepth(s.SelectionSet, fragments, current+1, visiting)
		case *ast.InlineFragment:
			childDepth = selectionSetDepth(s.SelectionSet, fragments, current, visiting)
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
			childDepth = selectionSetDepth(frag.SelectionSet, fragments, current, next)
		}
		if childDepth > maxDepth {
			maxDepth = childDepth
		}
	}
	return maxDepth
}

// selectionSetComplexity scores each field as 1 plus the complexity
// of its children, resolving fragment spreads the same way depth
// does.
func selectionSetComplexity(ss ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visiting map[string]bool) int {
	total := 0
	for _, sel := range ss {
		switch s := sel.(type) {
		case *ast.Field:
			total += 1 + selectionSetComplexity(s.SelectionSet, fragments, visiting)
		case *ast.InlineFragment:
			total += selectionSetComplexity(s.SelectionSet, fragments, visiting)
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
			total += selectionSetComplexity(frag.SelectionSet, fragments, next)
		}
	}
	return total
}

func cloneVisiting(visiting map[string]bool) map[string]bool {
	next := make(map[string]bool, len(visiting)+1)
	for k, v := range visiting {
		next[k] = v
	}
	return next
}

// coerceVariables decodes the supplied variables, applies each declared
// variable's default (the default literal's Raw text) when missing,
// rejects variables present in the raw payload but not declared by the
// operation, and rejects a missing or null value for a non-null
// variable. Supplied values are not checked against the declared type.
func coerceVariables(defs ast.VariableDefinitionList, raw json.RawMessage) (map[string]any, error) {
	var supplied map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &supplied); err != nil {
			return nil, validationErr("variables must be a JSON object: " + err.Error())
		}
	}

	declared := make(map[string]*ast.VariableDefinition, len(defs))
	for _, d := range defs {
		declared[d.Variable] = d
	}
	for name := range supplied {
		if _, ok := declared[name]; !ok {
			return nil, validationErr("unknown variable: $"+name, name)
		}
	}

	out := make(map[string]any, len(defs))
	for _, d := range defs {
		rawVal, present := supplied[d.Variable]
		if !present {
			if d.DefaultValue != nil {
				out[d.Variable] = d.DefaultValue.Raw
			} else if d.Type.NonNull {
				return nil, validationErr("missing required variable: $"+d.Variable, d.Variable)
			}
			continue
		}
		var v any
		if err := json.Unmarshal(rawVal, &v); err != nil {
			return nil, validationErr("invalid value for variable $"+d.Variable, d.Variable)
		}
		if v == nil && d.Type.NonNull {
			return nil, validationErr("variable $"+d.Variable+" cannot be null", d.Variable)
		}
		out[d.Variable] = v
	}
	return out, nil
}
