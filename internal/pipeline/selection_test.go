// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectionFlattensFragmentSpread(t *testing.T) {
	op, err := ParseRequest(`
		query { post { ...PostFields } }
		fragment PostFields on Post { id title }
	`, "", nil)
	require.NoError(t, err)

	fragments := op.fragmentIndex()
	var postField = mustField(t, `query { post { ...PostFields } } fragment PostFields on Post { id title }`, "post")

	selection := BuildSelection(postField.SelectionSet, fragments)

	assert.ElementsMatch(t, []string{"id", "title"}, FieldNames(selection))
}

func TestBuildSelectionMergesDuplicateFieldChildren(t *testing.T) {
	field := mustField(t, `query { post { author { id } author { name } } }`, "post")
	selection := BuildSelection(field.SelectionSet, nil)

	authorChildren := selection["author"].Children
	assert.ElementsMatch(t, []string{"id", "name"}, FieldNames(authorChildren))
}

func TestBuildSelectionHonorsInlineFragment(t *testing.T) {
	field := mustField(t, `query { post { ... on Post { id } title } }`, "post")
	selection := BuildSelection(field.SelectionSet, nil)

	assert.ElementsMatch(t, []string{"id", "title"}, FieldNames(selection))
}

func TestFieldNamesIsSorted(t *testing.T) {
	selection := map[string]*SelectionNode{
		"zeta":  {Name: "zeta"},
		"alpha": {Name: "alpha"},
	}
	assert.Equal(t, []string{"alpha", "zeta"}, FieldNames(selection))
}

// TestSelectionShapeDistinguishesDeeperNesting proves two queries
// with identical immediate children but diverging sub-selections two
// levels deep no longer collapse to the same shape, unlike FieldNames
// which only looks at one level.
func TestSelectionShapeDistinguishesDeeperNesting(t *testing.T) {
	shallow := mustField(t, `query { post { author { name } } }`, "post")
	deep := mustField(t, `query { post { author { name bio } } }`, "post")

	shallowSelection := BuildSelection(shallow.SelectionSet, nil)
	deepSelection := BuildSelection(deep.SelectionSet, nil)

	assert.ElementsMatch(t, []string{"author"}, FieldNames(shallowSelection))
	assert.ElementsMatch(t, []string{"author"}, FieldNames(deepSelection))
	assert.NotEqual(t, SelectionShape(shallowSelection), SelectionShape(deepSelection))
}

func TestSelectionShapeIsStableRegardlessOfFieldDeclarationOrder(t *testing.T) {
	a := mustField(t, `query { post { id title } }`, "post")
	b := mustField(t, `query { post { title id } }`, "post")

	assert.Equal(t,
		SelectionShape(BuildSelection(a.SelectionSet, nil)),
		SelectionShape(BuildSelection(b.SelectionSet, nil)),
	)
}

func TestBuildSelectionStopsOnSelfReferentialFragment(t *testing.T) {
	field := mustField(t, `
		query { post { ...Cyclic } }
		fragment Cyclic on Post { id ...Cyclic }
	`, "post")
	op, err := ParseRequest(`
		query { post { ...Cyclic } }
		fragment Cyclic on Post { id ...Cyclic }
	`, "", nil)
	require.NoError(t, err)

	selection := BuildSelection(field.SelectionSet, op.fragmentIndex())
	assert.Contains(t, selection, "id")
}
