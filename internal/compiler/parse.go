// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"encoding/json"
	"fmt"
)

// Parse turns a JSON schema document into an AuthoringIR. This stage
// only checks syntax (valid JSON, required top-level keys); semantic
// checks belong to Validate.
func Parse(schemaJSON []byte) (*AuthoringIR, error) {
	var ir AuthoringIR
	if err := json.Unmarshal(schemaJSON, &ir); err != nil {
		return nil, &ValidationError{Kind: "parse", Path: "$", Message: fmt.Sprintf("invalid schema JSON: %v", err)}
	}
	for i, t := range ir.Types {
		if t.Name == "" {
			return nil, &ValidationError{Kind: "parse", Path: fmt.Sprintf("types[%d]", i), Message: "type is missing a name"}
		}
	}
	for i, q := range ir.Queries {
		if q.Name == "" {
			return nil, &ValidationError{Kind: "parse", Path: fmt.Sprintf("queries[%d]", i), Message: "query is missing a name"}
		}
	}
	for i, m := range ir.Mutations {
		if m.Name == "" {
			return nil, &ValidationError{Kind: "parse", Path: fmt.Sprintf("mutations[%d]", i), Message: "mutation is missing a name"}
		}
	}
	return &ir, nil
}
