// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gqlsql/internal/schema"
)

const sampleSchemaJSON = `{
	"types": [
		{
			"name": "User",
			"sql_source": "v_user",
			"fields": [
				{"name": "id", "type": "ID!"},
				{"name": "email", "type": "String!", "requires_scope": "read:User.email", "semantic_type": "EmailAddress"},
				{"name": "password_hash", "type": "String", "requires_scope": "admin:*"}
			]
		}
	],
	"queries": [
		{"name": "user", "return_type": "User", "sql_source": "v_user", "arguments": [{"name": "id", "type": "ID!"}]}
	],
	"mutations": [
		{"name": "createUser", "operation": "fn_create_user", "input_type": "CreateUserInput", "success_type": "User", "error_type": "UserError",
		 "cascade": {"types": ["User"]}}
	]
}`

func TestCompileValidSchema(t *testing.T) {
	c := New()
	compiled, err := c.Compile([]byte(sampleSchemaJSON))
	require.NoError(t, err)
	require.Contains(t, compiled.Types, "User")
	assert.Equal(t, "v_user", compiled.Types["User"].SQLSource)
	assert.Contains(t, compiled.OperatorTemplates, "EmailAddress")
	assert.Contains(t, compiled.Queries, "user")
	assert.Contains(t, compiled.Mutations, "createUser")
	assert.Equal(t, []string{"User"}, compiled.Mutations["createUser"].Cascade.Types)
}

func TestCompileIsDeterministic(t *testing.T) {
	c := New()
	a, err := c.Compile([]byte(sampleSchemaJSON))
	require.NoError(t, err)
	b, err := c.Compile([]byte(sampleSchemaJSON))
	require.NoError(t, err)

	aJSON, err := schema.Marshal(a)
	require.NoError(t, err)
	bJSON, err := schema.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, aJSON, bJSON)
}

func TestCompileRejectsMalformedJSON(t *testing.T) {
	c := New()
	_, err := c.Compile([]byte(`{not json`))
	require.Error(t, err)
}

func TestCompileRejectsBadFactTableName(t *testing.T) {
	c := New()
	badJSON := `{
		"types": [],
		"queries": [],
		"mutations": [],
		"fact_tables": [{"name": "sales", "measures": [{"name": "total", "sql_type": "numeric"}], "dimensions": []}]
	}`
	_, err := c.Compile([]byte(badJSON))
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestCompileRejectsMalformedScope(t *testing.T) {
	c := New()
	badJSON := `{
		"types": [{"name": "User", "sql_source": "v_user", "fields": [
			{"name": "id", "type": "ID!", "requires_scope": "not a scope!!"}
		]}],
		"queries": [], "mutations": []
	}`
	_, err := c.Compile([]byte(badJSON))
	require.Error(t, err)
}

func TestCompileRejectsRequiredCycle(t *testing.T) {
	c := New()
	badJSON := `{
		"types": [
			{"name": "A", "sql_source": "v_a", "fields": [{"name": "b", "type": "B!"}]},
			{"name": "B", "sql_source": "v_b", "fields": [{"name": "a", "type": "A!"}]}
		],
		"queries": [], "mutations": []
	}`
	_, err := c.Compile([]byte(badJSON))
	require.Error(t, err)
}

func TestStrictModePromotesMissingScopeToError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictMode = true
	c := WithConfig(cfg)

	partiallyScopedJSON := `{
		"types": [{"name": "User", "sql_source": "v_user", "fields": [
			{"name": "id", "type": "ID!", "requires_scope": "read:User.id"},
			{"name": "name", "type": "String!"}
		]}],
		"queries": [], "mutations": []
	}`
	_, err := c.Compile([]byte(partiallyScopedJSON))
	require.Error(t, err)
}
