// Copyright (c) 2026 gqlsql. All rights reserved.

package schema

import "encoding/json"

// Marshal renders the compiled schema as a deterministic JSON
// document: Go's encoding/json already sorts map keys, and every
// collection in CompiledSchema that must be order-stable is a map
// rather than a slice, so repeated Marshal calls over an equal
// CompiledSchema value are byte-equal.
func Marshal(s *CompiledSchema) ([]byte, error) {
	return json.Marshal(s)
}

// MarshalIndent is Marshal with human-readable indentation, used by
// the compiler CLI when writing the artifact to disk for inspection.
func MarshalIndent(s *CompiledSchema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal parses a compiled schema document.
func Unmarshal(data []byte) (*CompiledSchema, error) {
	var s CompiledSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
