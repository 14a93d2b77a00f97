// Copyright (c) 2026 gqlsql. All rights reserved.

// Package pipeline implements the request-time path: parse, validate,
// plan, compose SQL, execute, project, and normalize mutation
// responses (spec.md §4.5-§4.10).
package pipeline

import (
	"encoding/json"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParsedOperation is the request-scoped parsed-operation entity
// (spec.md §3): operation kind, optional name, root field list with
// nested selections, variable declarations, and the fragments the
// operation may spread.
type ParsedOperation struct {
	Kind          ast.Operation
	Name          string
	SelectionSet  ast.SelectionSet
	VariableDefs  ast.VariableDefinitionList
	RawVariables  json.RawMessage
	Fragments     ast.FragmentDefinitionList
}

// ParseRequest parses GraphQL source text and selects the requested
// operation by name (or the sole operation, if the document carries
// exactly one). Fragment definitions are collected as a side table
// for the validator's acyclic-graph check.
func ParseRequest(query string, operationName string, variables json.RawMessage) (*ParsedOperation, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return nil, parseErr("invalid GraphQL document", gqlErr)
	}

	op := selectOperation(doc, operationName)
	if op == nil {
		return nil, parseErr("no matching operation in document", nil)
	}

	return &ParsedOperation{
		Kind:         op.Operation,
		Name:         op.Name,
		SelectionSet: op.SelectionSet,
		VariableDefs: op.VariableDefinitions,
		RawVariables: variables,
		Fragments:    doc.Fragments,
	}, nil
}

func selectOperation(doc *ast.QueryDocument, operationName string) *ast.OperationDefinition {
	if operationName != "" {
		for _, op := range doc.Operations {
			if op.Name == operationName {
				return op
			}
		}
		return nil
	}
	if len(doc.Operations) == 1 {
		return doc.Operations[0]
	}
	return nil
}

// RootFieldNames returns the top-level field names selected by the
// operation, resolving fragment spreads against the side table so a
// root field hidden behind `...Frag` is still counted.
func (p *ParsedOperation) RootFieldNames() []string {
	return rootFieldNames(p.SelectionSet, p.fragmentIndex())
}

func (p *ParsedOperation) fragmentIndex() map[string]*ast.FragmentDefinition {
	idx := make(map[string]*ast.FragmentDefinition, len(p.Fragments))
	for _, f := range p.Fragments {
		idx[f.Name] = f
	}
	return idx
}

func rootFieldNames(ss ast.SelectionSet, fragments map[string]*ast.FragmentDefinition) []string {
	var names []string
	for _, sel := range ss {
		switch s := sel.(type) {
		case *ast.Field:
			names = append(names, s.Name)
		case *ast.FragmentSpread:
			if frag, ok := fragments[s.Name]; ok {
				names = append(names, rootFieldNames(frag.SelectionSet, fragments)...)
			}
		case *ast.InlineFragment:
			names = append(names, rootFieldNames(s.SelectionSet, fragments)...)
		}
	}
	return names
}
