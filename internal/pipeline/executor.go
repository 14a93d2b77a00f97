// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	stdctx "context"
	"encoding/json"
	"strings"

	"github.com/taibuivan/gqlsql/internal/engineerr"
	"github.com/taibuivan/gqlsql/internal/pool"
	"github.com/taibuivan/gqlsql/internal/ql/where"
)

// Executor runs a ComposedQuery against the pool and returns the raw
// JSONB payloads at column 0, per the CQRS read convention (spec.md
// §4.7 "Result shape").
type Executor struct {
	pool *pool.Pool
}

// NewExecutor wraps a connection pool.
func NewExecutor(p *pool.Pool) *Executor {
	return &Executor{pool: p}
}

// ExecuteRead runs a read query and collects the JSONB payload column
// from every row.
func (e *Executor) ExecuteRead(ctx stdctx.Context, q *ComposedQuery) ([]json.RawMessage, error) {
	params, err := pool.FromAnySlice(q.Params)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Composition, "invalid query parameter", err)
	}

	rows, err := e.pool.ExecuteQuery(ctx, q.SQL, params)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "query execution failed", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	rowIndex := 0
	for rows.Next() {
		var payload json.RawMessage
		if err := rows.Scan(&payload); err != nil {
			return nil, &engineerr.Error{
				Kind:    engineerr.Execution,
				Message: "column access error",
				Cause:   &pool.ColumnAccessError{RowIndex: rowIndex, Detail: err.Error()},
			}
		}
		out = append(out, payload)
		rowIndex++
	}
	if err := rows.Err(); err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "row iteration failed", err)
	}
	return out, nil
}

// ExecuteMutation calls a stored procedure and returns its raw
// envelope JSON (the normalizer classifies and reshapes it
// afterward).
func (e *Executor) ExecuteMutation(ctx stdctx.Context, dialect where.Dialect, operation string, args []any) (json.RawMessage, error) {
	params, err := pool.FromAnySlice(args)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Composition, "invalid mutation parameter", err)
	}

	sql := "SELECT " + operation + "(" + placeholderList(dialect, len(params)) + ")"
	rows, err := e.pool.ExecuteQuery(ctx, sql, params)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "mutation execution failed", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, engineerr.Wrap(engineerr.Execution, "row iteration failed", err)
		}
		return nil, engineerr.New(engineerr.Execution, "mutation returned no rows")
	}

	var envelope json.RawMessage
	if err := rows.Scan(&envelope); err != nil {
		return nil, engineerr.Wrap(engineerr.Execution, "column access error", err)
	}
	return envelope, nil
}

func placeholderList(dialect where.Dialect, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = dialect.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
