// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taibuivan/gqlsql/internal/schema"
)

var scopePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(:[a-zA-Z_*][a-zA-Z0-9_.*]*)?$`)

// ValidatedIR is an AuthoringIR that has passed type-binding, cycle,
// scope-syntax, fact-table-naming, and lookup-table checks. It carries
// the same data as the AuthoringIR; the distinct type documents that
// the checks below have run.
type ValidatedIR struct {
	IR *AuthoringIR
}

// Validate runs the compiler's semantic checks. strict promotes
// warnings (currently: fields with no requires_scope on a type that
// has at least one scoped field) to hard errors.
func Validate(ir *AuthoringIR, strict bool) (*ValidatedIR, ValidationErrors) {
	var errs ValidationErrors

	known := knownTypeKinds(ir)

	for _, t := range ir.Types {
		for _, f := range t.Fields {
			if _, err := parseTypeRef(f.Type, known); err != nil {
				errs = append(errs, &ValidationError{
					Kind: "type-binding", Path: fmt.Sprintf("types.%s.fields.%s", t.Name, f.Name),
					Message: err.Error(),
				})
			}
			if f.RequiresScope != "" && !scopePattern.MatchString(f.RequiresScope) {
				errs = append(errs, &ValidationError{
					Kind: "auth-rule-syntax", Path: fmt.Sprintf("types.%s.fields.%s.requires_scope", t.Name, f.Name),
					Message: fmt.Sprintf("malformed scope: %q", f.RequiresScope),
				})
			}
		}
		if !strings.HasPrefix(t.SQLSource, "v_") && !strings.HasPrefix(t.SQLSource, "ta_") && !strings.HasPrefix(t.SQLSource, "tf_") && t.SQLSource != "" {
			errs = append(errs, &ValidationError{
				Kind: "naming-convention", Path: fmt.Sprintf("types.%s.sql_source", t.Name),
				Message: fmt.Sprintf("sql_source %q does not follow v_/ta_/tf_ convention", t.SQLSource),
			})
		}
	}

	for _, ft := range ir.FactTables {
		if !strings.HasPrefix(ft.Name, "tf_") {
			errs = append(errs, &ValidationError{
				Kind: "fact-table-naming", Path: fmt.Sprintf("fact_tables.%s", ft.Name),
				Message: "fact table name must start with tf_",
			})
		}
	}

	for name, entries := range ir.Lookups {
		if len(entries) == 0 {
			errs = append(errs, &ValidationError{
				Kind: "lookup-table", Path: fmt.Sprintf("lookups.%s", name),
				Message: "lookup table must be non-empty",
			})
		}
	}

	errs = append(errs, detectIRCycles(ir)...)

	if strict {
		errs = append(errs, strictWarnings(ir)...)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return &ValidatedIR{IR: ir}, nil
}

func knownTypeKinds(ir *AuthoringIR) map[string]schema.Kind {
	known := make(map[string]schema.Kind)
	for _, t := range ir.Types {
		known[t.Name] = schema.KindObject
	}
	for _, t := range ir.InputTypes {
		known[t.Name] = schema.KindObject
	}
	for name := range ir.Enums {
		known[name] = schema.KindEnum
	}
	for _, s := range []string{"String", "Int", "Float", "Boolean", "ID", "JSON", "DateTime", "UUID"} {
		known[s] = schema.KindScalar
	}
	return known
}

func detectIRCycles(ir *AuthoringIR) ValidationErrors {
	edges := make(map[string][]string)
	for _, t := range ir.Types {
		for _, f := range t.Fields {
			if target, ok := requiredBareObjectEdge(f.Type, t.Name, ir); ok {
				edges[t.Name] = append(edges[t.Name], target)
			}
		}
	}

	var errs ValidationErrors
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)
	var visit func(node string) bool
	visit = func(node string) bool {
		switch state[node] {
		case visiting:
			errs = append(errs, &ValidationError{Kind: "cycle", Path: node, Message: "circular required reference"})
			return true
		case done:
			return false
		}
		state[node] = visiting
		for _, next := range edges[node] {
			if visit(next) {
				break
			}
		}
		state[node] = done
		return false
	}
	for _, t := range ir.Types {
		if state[t.Name] == unvisited {
			visit(t.Name)
		}
	}
	return errs
}

// requiredBareObjectEdge reports a bare, non-list, non-null-suffixed
// ("Foo!") reference to another declared object type.
func requiredBareObjectEdge(raw, selfName string, ir *AuthoringIR) (string, bool) {
	if !strings.HasSuffix(raw, "!") {
		return "", false
	}
	name := strings.TrimSuffix(raw, "!")
	if strings.Contains(name, "[") {
		return "", false
	}
	for _, t := range ir.Types {
		if t.Name == name {
			return name, true
		}
	}
	return "", false
}

func strictWarnings(ir *AuthoringIR) ValidationErrors {
	var errs ValidationErrors
	for _, t := range ir.Types {
		hasScoped := false
		for _, f := range t.Fields {
			if f.RequiresScope != "" {
				hasScoped = true
				break
			}
		}
		if !hasScoped {
			continue
		}
		for _, f := range t.Fields {
			if f.RequiresScope == "" {
				errs = append(errs, &ValidationError{
					Kind: "warning", Path: fmt.Sprintf("types.%s.fields.%s", t.Name, f.Name),
					Message: "field has no requires_scope while sibling fields do; strict mode requires an explicit scope on every field of a scoped type",
				})
			}
		}
	}
	return errs
}
