// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgumentsToMapResolvesInlineLiterals(t *testing.T) {
	field := mustField(t, `query { posts(filter: {status: "published", tags: ["a", "b"]}, limit: 10) { id } }`, "posts")
	args := argumentsToMap(field.Arguments, nil)

	assert.Equal(t, map[string]any{
		"status": "published",
		"tags":   []any{"a", "b"},
	}, args["filter"])
	assert.Equal(t, int64(10), args["limit"])
}

// TestArgumentsToMapCanonicalizesVariableReferences proves that a
// $variable reference resolves to its bound value when variables are
// supplied and to nil when they are not, so a structural fingerprint
// built from this map without variables is not perturbed by differing
// variable values — only the surrounding literal structure is.
func TestArgumentsToMapCanonicalizesVariableReferences(t *testing.T) {
	field := mustField(t, `query($f: FilterInput) { posts(filter: $f) { id } }`, "posts")

	withValue := argumentsToMap(field.Arguments, map[string]any{"f": map[string]any{"status": "published"}})
	withoutValue := argumentsToMap(field.Arguments, nil)

	assert.Equal(t, map[string]any{"status": "published"}, withValue["filter"])
	assert.Nil(t, withoutValue["filter"])
}

func TestArgumentsToMapDistinguishesLiteralFromVariableFilter(t *testing.T) {
	literal := mustField(t, `query { posts(filter: {status: "published"}) { id } }`, "posts")
	variable := mustField(t, `query($f: FilterInput) { posts(filter: $f) { id } }`, "posts")

	literalArgs := argumentsToMap(literal.Arguments, nil)
	variableArgs := argumentsToMap(variable.Arguments, nil)

	assert.NotEqual(t, literalArgs, variableArgs)
}
