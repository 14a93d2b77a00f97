// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"fmt"
	"strings"

	"github.com/taibuivan/gqlsql/internal/schema"
)

// parseTypeRef parses a GraphQL-style type string ("String",
// "String!", "[User]", "[User!]!") into a schema.TypeRef. known
// classifies a bare name as enum/object/scalar.
func parseTypeRef(raw string, known map[string]schema.Kind) (schema.TypeRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return schema.TypeRef{}, fmt.Errorf("empty type reference")
	}

	if strings.HasSuffix(raw, "!") {
		inner, err := parseTypeRef(raw[:len(raw)-1], known)
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.TypeRef{Kind: schema.KindNonNull, Of: &inner}, nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner, err := parseTypeRef(raw[1:len(raw)-1], known)
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.TypeRef{Kind: schema.KindList, Of: &inner}, nil
	}

	if kind, ok := known[raw]; ok {
		return schema.TypeRef{Kind: kind, Name: raw}, nil
	}

	// Unrecognized bare names default to scalar. Validate does not
	// reject them; for type fields, the post-codegen schema.Validate
	// check run by Compile reports a name that is genuinely undeclared.
	return schema.TypeRef{Kind: schema.KindScalar, Name: raw}, nil
}
