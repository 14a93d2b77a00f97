// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMasksUnselectedKeys(t *testing.T) {
	payload := json.RawMessage(`{"id":"1","title":"Hello","secret":"x"}`)
	selection := map[string]*SelectionNode{
		"id":    {Name: "id"},
		"title": {Name: "title"},
	}

	out, err := Project(payload, selection)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{"id": "1", "title": "Hello"}, decoded)
}

func TestProjectHonorsAlias(t *testing.T) {
	payload := json.RawMessage(`{"title":"Hello"}`)
	selection := map[string]*SelectionNode{
		"title": {Name: "title", Alias: "headline"},
	}

	out, err := Project(payload, selection)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{"headline": "Hello"}, decoded)
}

func TestProjectRecursesIntoNestedObject(t *testing.T) {
	payload := json.RawMessage(`{"id":"1","author":{"id":"a1","ssn":"secret"}}`)
	selection := map[string]*SelectionNode{
		"id": {Name: "id"},
		"author": {
			Name:     "author",
			Children: map[string]*SelectionNode{"id": {Name: "id"}},
		},
	}

	out, err := Project(payload, selection)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{
		"id":     "1",
		"author": map[string]any{"id": "a1"},
	}, decoded)
}

func TestProjectPassesThroughNullPayload(t *testing.T) {
	out, err := Project(json.RawMessage(`null`), map[string]*SelectionNode{"id": {Name: "id"}})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestProjectRowsAppliesToEachRow(t *testing.T) {
	rows := []json.RawMessage{
		json.RawMessage(`{"id":"1","title":"A"}`),
		json.RawMessage(`{"id":"2","title":"B"}`),
	}
	selection := map[string]*SelectionNode{"id": {Name: "id"}}

	out, err := ProjectRows(rows, selection)
	require.NoError(t, err)
	require.Len(t, out, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(out[0], &first))
	assert.Equal(t, map[string]any{"id": "1"}, first)
}

func TestProjectArrayOfObjects(t *testing.T) {
	payload := json.RawMessage(`[{"id":"1","x":"y"},{"id":"2","x":"z"}]`)
	selection := map[string]*SelectionNode{"id": {Name: "id"}}

	out, err := Project(payload, selection)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []map[string]any{{"id": "1"}, {"id": "2"}}, decoded)
}
