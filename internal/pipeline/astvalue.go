// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// argumentsToMap resolves a field's GraphQL arguments into plain Go
// values, substituting coerced variable values for `$var` references.
func argumentsToMap(args ast.ArgumentList, vars map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		out[arg.Name] = astValueToAny(arg.Value, vars)
	}
	return out
}

// astValueToAny converts a parsed GraphQL value into its plain Go
// representation (map/slice/string/float64/bool/nil), resolving
// variable references against vars.
func astValueToAny(v *ast.Value, vars map[string]any) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.Variable:
		return vars[v.Raw]
	case ast.IntValue:
		n, _ := strconv.ParseInt(v.Raw, 10, 64)
		return n
	case ast.FloatValue:
		f, _ := strconv.ParseFloat(v.Raw, 64)
		return f
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw
	case ast.BooleanValue:
		return v.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.ListValue:
		out := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			out = append(out, astValueToAny(c.Value, vars))
		}
		return out
	case ast.ObjectValue:
		out := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			out[c.Name] = astValueToAny(c.Value, vars)
		}
		return out
	default:
		return v.Raw
	}
}
