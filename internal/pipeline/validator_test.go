// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gqlsql/internal/schema"
)

func testSchema() *schema.CompiledSchema {
	return &schema.CompiledSchema{
		Queries: map[string]schema.QueryDescriptor{
			"post":   {Name: "post", ReturnType: "Post", SQLSource: "v_post"},
			"author": {Name: "author", ReturnType: "Author", SQLSource: "v_author"},
		},
		Mutations: map[string]schema.MutationDescriptor{
			"createPost": {Name: "createPost", Operation: "fn_create_post", SuccessType: "CreatePostSuccess", ErrorType: "CreatePostError"},
		},
	}
}

func TestValidatorRejectsUnknownRootField(t *testing.T) {
	op, err := ParseRequest(`query { nonExistentField { id } }`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}

func TestValidatorAllowsKnownRootField(t *testing.T) {
	op, err := ParseRequest(`query { post { id } }`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	_, err = v.Validate(op)
	assert.NoError(t, err)
}

func TestValidatorRejectsExceededDepth(t *testing.T) {
	op, err := ParseRequest(`query { post { author { post { author { id } } } } }`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{MaxDepth: 2, EnableDepth: true}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}

func TestValidatorRejectsExceededComplexity(t *testing.T) {
	op, err := ParseRequest(`query { post { id title author { id } } }`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{MaxComplexity: 2, EnableComplexity: true}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}

func TestValidatorRejectsFragmentCycle(t *testing.T) {
	op, err := ParseRequest(`
		query { post { ...A } }
		fragment A on Post { ...B }
		fragment B on Post { ...A }
	`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}

func TestValidatorCoercesDeclaredVariable(t *testing.T) {
	vars := json.RawMessage(`{"limit": 5}`)
	op, err := ParseRequest(`query($limit: Int) { post { id } }`, "", vars)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	coerced, err := v.Validate(op)
	require.NoError(t, err)
	assert.Equal(t, float64(5), coerced["limit"])
}

func TestValidatorRejectsUnknownVariable(t *testing.T) {
	vars := json.RawMessage(`{"bogus": 1}`)
	op, err := ParseRequest(`query { post { id } }`, "", vars)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}

func TestValidatorRejectsMissingRequiredVariable(t *testing.T) {
	op, err := ParseRequest(`query($id: ID!) { post { id } }`, "", nil)
	require.NoError(t, err)

	v := NewValidator(ValidatorConfig{}, testSchema())
	_, err = v.Validate(op)
	assert.Error(t, err)
}
