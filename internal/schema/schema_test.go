// Copyright (c) 2026 gqlsql. All rights reserved.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() *CompiledSchema {
	return &CompiledSchema{
		Version: "1",
		Types: map[string]TypeDescriptor{
			"User": {
				Name: "User",
				Fields: []FieldDescriptor{
					{Name: "id", Type: TypeRef{Kind: KindScalar, Name: "ID"}},
					{Name: "email", Type: TypeRef{Kind: KindScalar, Name: "String"}, RequiresScope: "read:User.email"},
				},
				SQLSource: "v_user",
			},
		},
		Queries: map[string]QueryDescriptor{
			"user": {Name: "user", ReturnType: "User", SQLSource: "v_user"},
		},
		Mutations:         map[string]MutationDescriptor{},
		OperatorTemplates: map[string]SemanticTypeOperators{},
	}
}

func TestMarshalIsByteEqualAcrossCalls(t *testing.T) {
	s := sampleSchema()
	a, err := Marshal(s)
	require.NoError(t, err)
	b, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRoundTripCompileJSONOfEqualsSchema(t *testing.T) {
	s := sampleSchema()
	data, err := Marshal(s)
	require.NoError(t, err)

	parsed, err := Unmarshal(data)
	require.NoError(t, err)

	reMarshaled, err := Marshal(parsed)
	require.NoError(t, err)

	assert.Equal(t, data, reMarshaled)
}

func TestValidateCatchesUnresolvedFieldType(t *testing.T) {
	s := sampleSchema()
	s.Types["Post"] = TypeDescriptor{
		Name: "Post",
		Fields: []FieldDescriptor{
			{Name: "author", Type: TypeRef{Kind: KindObject, Name: "Ghost"}},
		},
		SQLSource: "v_post",
	}
	issues := Validate(s)
	require.NotEmpty(t, issues)
}

func TestValidateCatchesMissingDialectTemplate(t *testing.T) {
	s := sampleSchema()
	s.OperatorTemplates["EmailAddress"] = SemanticTypeOperators{
		SemanticType: "EmailAddress",
		Operators: []OperatorTemplate{
			{Operator: "domainEq", Templates: map[Dialect]string{DialectPostgres: "x = $1"}},
		},
	}
	issues := Validate(s)
	require.NotEmpty(t, issues)
}

func TestValidateCatchesBadFactTablePrefix(t *testing.T) {
	s := sampleSchema()
	s.FactTables = map[string]FactTableDescriptor{
		"sales": {Name: "sales", Measures: []Measure{{Name: "total", SQLType: "numeric"}}},
	}
	issues := Validate(s)
	require.NotEmpty(t, issues)
}

func TestValidateDetectsRequiredCycle(t *testing.T) {
	s := sampleSchema()
	nonNullObj := func(name string) TypeRef {
		return TypeRef{Kind: KindNonNull, Of: &TypeRef{Kind: KindObject, Name: name}}
	}
	s.Types["A"] = TypeDescriptor{Name: "A", Fields: []FieldDescriptor{{Name: "b", Type: nonNullObj("B")}}, SQLSource: "v_a"}
	s.Types["B"] = TypeDescriptor{Name: "B", Fields: []FieldDescriptor{{Name: "a", Type: nonNullObj("A")}}, SQLSource: "v_b"}

	issues := Validate(s)
	found := false
	for _, iss := range issues {
		if iss.Message == "circular required reference back to A" || iss.Message == "circular required reference back to B" {
			found = true
		}
	}
	assert.True(t, found, "expected a circular reference issue, got %v", issues)
}

func TestValidateAllowsCycleThroughList(t *testing.T) {
	s := sampleSchema()
	listOfObj := func(name string) TypeRef {
		return TypeRef{Kind: KindList, Of: &TypeRef{Kind: KindObject, Name: name}}
	}
	s.Types["A"] = TypeDescriptor{Name: "A", Fields: []FieldDescriptor{{Name: "bs", Type: listOfObj("B")}}, SQLSource: "v_a"}
	s.Types["B"] = TypeDescriptor{Name: "B", Fields: []FieldDescriptor{{Name: "as", Type: listOfObj("A")}}, SQLSource: "v_b"}

	issues := Validate(s)
	for _, iss := range issues {
		assert.NotContains(t, iss.Message, "circular")
	}
}
