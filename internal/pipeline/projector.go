// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"encoding/json"

	"github.com/taibuivan/gqlsql/internal/engineerr"
)

// Project walks payload guided by selection (already scope-filtered
// by Planner.ApplyProjectionScope) and returns the JSON value with
// only the selected, permitted keys retained. Fields whose
// requirements were unmet were already dropped from selection, so
// this stage is a pure structural mask: no error is signaled for a
// missing scope (spec.md §4.9).
func Project(payload json.RawMessage, selection map[string]*SelectionNode) (json.RawMessage, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return payload, nil
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "failed to decode result payload", err)
	}

	projected := projectValue(decoded, selection)

	out, err := json.Marshal(projected)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "failed to encode projected payload", err)
	}
	return out, nil
}

// ProjectRows applies Project to every row of a result set.
func ProjectRows(rows []json.RawMessage, selection map[string]*SelectionNode) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		p, err := Project(row, selection)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func projectValue(v any, selection map[string]*SelectionNode) any {
	switch val := v.(type) {
	case map[string]any:
		if len(selection) == 0 {
			return map[string]any{}
		}
		out := make(map[string]any, len(selection))
		for name, node := range selection {
			key := name
			if node.Alias != "" {
				key = node.Alias
			}
			raw, present := val[name]
			if !present {
				continue
			}
			if len(node.Children) > 0 {
				out[key] = projectValue(raw, node.Children)
			} else {
				out[key] = raw
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = projectValue(item, selection)
		}
		return out
	default:
		return val
	}
}
