// Copyright (c) 2026 gqlsql. All rights reserved.

// Package pool wraps a pgxpool.Pool with the engine's retry policy,
// strongly-typed parameter binding, and execution metrics (spec.md
// §4.7).
package pool

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParamKind tags a QueryParam's concrete payload.
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamBool
	ParamInt
	ParamBigInt
	ParamFloat
	ParamDouble
	ParamText
	ParamJSON
	ParamTimestamp
	ParamUUID
)

// QueryParam is the strongly-typed sum of values the executor can
// bind to a placeholder. Values never flow into SQL text; they travel
// here and are handed to the driver's parameterized-query API.
type QueryParam struct {
	Kind  ParamKind
	Bool  bool
	Int   int32
	Big   int64
	F32   float32
	F64   float64
	Text  string
	JSON  []byte
	Time  time.Time
	UUID  uuid.UUID
}

func Null() QueryParam                    { return QueryParam{Kind: ParamNull} }
func Bool(v bool) QueryParam              { return QueryParam{Kind: ParamBool, Bool: v} }
func Int(v int32) QueryParam              { return QueryParam{Kind: ParamInt, Int: v} }
func BigInt(v int64) QueryParam           { return QueryParam{Kind: ParamBigInt, Big: v} }
func Float(v float32) QueryParam          { return QueryParam{Kind: ParamFloat, F32: v} }
func Double(v float64) QueryParam         { return QueryParam{Kind: ParamDouble, F64: v} }
func Text(v string) QueryParam            { return QueryParam{Kind: ParamText, Text: v} }
func JSON(v []byte) QueryParam            { return QueryParam{Kind: ParamJSON, JSON: v} }
func Timestamp(v time.Time) QueryParam    { return QueryParam{Kind: ParamTimestamp, Time: v} }
func UUID(v uuid.UUID) QueryParam         { return QueryParam{Kind: ParamUUID, UUID: v} }

// Value returns the Go value the driver should bind for this param.
func (p QueryParam) Value() any {
	switch p.Kind {
	case ParamNull:
		return nil
	case ParamBool:
		return p.Bool
	case ParamInt:
		return p.Int
	case ParamBigInt:
		return p.Big
	case ParamFloat:
		return p.F32
	case ParamDouble:
		return p.F64
	case ParamText:
		return p.Text
	case ParamJSON:
		return p.JSON
	case ParamTimestamp:
		return p.Time
	case ParamUUID:
		return p.UUID
	default:
		return nil
	}
}

// Validate rejects NaN/Infinity doubles, the only parameter shape
// that is structurally invalid independent of the query.
func (p QueryParam) Validate(index int) error {
	if p.Kind == ParamDouble && (math.IsNaN(p.F64) || math.IsInf(p.F64, 0)) {
		return fmt.Errorf("parameter %d is NaN or infinite (invalid in PostgreSQL)", index)
	}
	return nil
}

// PrepareParameters validates every parameter in order, matching the
// engine's "single source of truth for parameter binding" design.
func PrepareParameters(params []QueryParam) error {
	for i, p := range params {
		if err := p.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Format renders a parameter for debug display; long text/JSON values
// are truncated to 47 characters plus an ellipsis so error messages
// stay bounded.
func Format(p QueryParam) string {
	switch p.Kind {
	case ParamNull:
		return "NULL"
	case ParamBool:
		return fmt.Sprintf("BOOL(%t)", p.Bool)
	case ParamInt:
		return fmt.Sprintf("INT(%d)", p.Int)
	case ParamBigInt:
		return fmt.Sprintf("BIGINT(%d)", p.Big)
	case ParamFloat:
		return fmt.Sprintf("FLOAT(%v)", p.F32)
	case ParamDouble:
		return fmt.Sprintf("DOUBLE(%v)", p.F64)
	case ParamText:
		return fmt.Sprintf("TEXT(%s)", truncate(p.Text))
	case ParamJSON:
		return fmt.Sprintf("JSON(%s)", truncate(string(p.JSON)))
	case ParamTimestamp:
		return fmt.Sprintf("TIMESTAMP(%s)", p.Time)
	case ParamUUID:
		return fmt.Sprintf("UUID(%s)", p.UUID)
	default:
		return "UNKNOWN"
	}
}

func truncate(s string) string {
	if len(s) > 50 {
		return s[:47] + "..."
	}
	return s
}

// CountPlaceholders scans sql for $<digit+> placeholders, the same
// lexical scan (not a regex) the original implementation used: a `$`
// followed by a non-digit is not a placeholder.
func CountPlaceholders(sql string) int {
	count := 0
	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '$' {
			continue
		}
		j := i + 1
		if j >= len(runes) || !isDigit(runes[j]) {
			continue
		}
		count++
		for j < len(runes) && isDigit(runes[j]) {
			j++
		}
		i = j - 1
	}
	return count
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ValidateParameterCount compares the placeholder count in sql
// against len(params).
func ValidateParameterCount(sql string, params []QueryParam) error {
	expected := CountPlaceholders(sql)
	actual := len(params)
	if expected != actual {
		return fmt.Errorf("parameter count mismatch: expected %s placeholders, got %s parameters",
			strconv.Itoa(expected), strconv.Itoa(actual))
	}
	return nil
}

// Values converts a []QueryParam into the []any pgx expects for
// Query/Exec.
func Values(params []QueryParam) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.Value()
	}
	return out
}

// FromAny classifies a loosely-typed value (as produced by the
// internal/ql/where composer's parameter vector) into a QueryParam.
func FromAny(v any) (QueryParam, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return BigInt(int64(t)), nil
	case int32:
		return Int(t), nil
	case int64:
		return BigInt(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Double(t), nil
	case string:
		return Text(t), nil
	case []byte:
		return JSON(t), nil
	case time.Time:
		return Timestamp(t), nil
	case uuid.UUID:
		return UUID(t), nil
	default:
		return QueryParam{}, fmt.Errorf("pool: unsupported parameter value of type %T", v)
	}
}

// FromAnySlice converts a slice of loosely-typed where-algebra
// parameter values into QueryParams in order.
func FromAnySlice(values []any) ([]QueryParam, error) {
	out := make([]QueryParam, len(values))
	for i, v := range values {
		p, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
