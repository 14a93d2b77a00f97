// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import "fmt"

// ValidationError is returned by any compiler stage. Kind names the
// stage or rule that failed ("parse", "type-binding",
// "auth-rule-syntax", "naming-convention", "fact-table-naming",
// "lookup-table", "cycle", "warning", "post-codegen-invariant"); Path
// points at the offending node.
type ValidationError struct {
	Kind    string
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("compiler: %s at %s: %s", e.Kind, e.Path, e.Message)
}

// ValidationErrors aggregates every issue found by a stage that does
// not fail fast (Validate collects as many problems as it can before
// giving up).
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return "compiler: no errors"
	}
	msg := es[0].Error()
	if len(es) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(es)-1)
	}
	return msg
}

func (es ValidationErrors) HasErrors() bool {
	return len(es) > 0
}
