// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	stdctx "context"
	"encoding/json"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/taibuivan/gqlsql/internal/cache"
	"github.com/taibuivan/gqlsql/internal/engineerr"
	"github.com/taibuivan/gqlsql/internal/platform/sec"
	"github.com/taibuivan/gqlsql/internal/ql/where"
	"github.com/taibuivan/gqlsql/internal/schema"
)

// Request is the GraphQL-over-HTTP request body (spec.md §6
// "GraphQL wire").
type Request struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables,omitempty"`
	OperationName string          `json:"operationName,omitempty"`
}

// ResponseError is one entry of a GraphQL response's `errors` array.
type ResponseError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Response is the GraphQL-over-HTTP response body.
type Response struct {
	Data       json.RawMessage        `json:"data,omitempty"`
	Errors     []ResponseError        `json:"errors,omitempty"`
	Extensions map[string]any         `json:"extensions,omitempty"`
}

// Config configures an Engine's cross-cutting request behavior.
type Config struct {
	Validator        ValidatorConfig
	Dialect          where.Dialect
	CacheListQueries bool
	ResultCacheTTLMS int64
}

// Engine is the request-time pipeline orchestrator: one instance is
// built per process from a compiled schema and reused across
// requests, per the "compiled schema: shared immutable" ownership
// rule (spec.md §3).
type Engine struct {
	cfg       Config
	schema    *schema.CompiledSchema
	validator *Validator
	planner   *Planner
	executor  *Executor
	planCache *cache.PlanCache
	resultCache *cache.ResultCache
}

// NewEngine wires together the validator, planner, executor, and
// caches for one compiled schema.
func NewEngine(cfg Config, compiled *schema.CompiledSchema, executor *Executor, planCache *cache.PlanCache, resultCache *cache.ResultCache) *Engine {
	return &Engine{
		cfg:         cfg,
		schema:      compiled,
		validator:   NewValidator(cfg.Validator, compiled),
		planner:     NewPlanner(compiled),
		executor:    executor,
		planCache:   planCache,
		resultCache: resultCache,
	}
}

// Execute runs the full request-time pipeline for one GraphQL
// request under the given security context.
func (e *Engine) Execute(ctx stdctx.Context, req Request, secCtx sec.SecurityContext) *Response {
	op, err := ParseRequest(req.Query, req.OperationName, req.Variables)
	if err != nil {
		return errorResponse(err)
	}

	vars, err := e.validator.Validate(op)
	if err != nil {
		return errorResponse(err)
	}

	fragments := op.fragmentIndex()

	if op.Kind == ast.Mutation {
		return e.executeMutations(ctx, op, vars, fragments, secCtx)
	}
	return e.executeQueries(ctx, op, vars, fragments, secCtx)
}

func (e *Engine) executeQueries(ctx stdctx.Context, op *ParsedOperation, vars map[string]any, fragments map[string]*ast.FragmentDefinition, secCtx sec.SecurityContext) *Response {
	data := make(map[string]json.RawMessage)

	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		key := field.Name
		if field.Alias != "" {
			key = field.Alias
		}

		payload, err := e.executeOneQuery(ctx, field, vars, fragments, secCtx)
		if err != nil {
			return errorResponse(err)
		}
		data[key] = payload
	}

	out, err := json.Marshal(data)
	if err != nil {
		return errorResponse(engineerr.Wrap(engineerr.Execution, "failed to encode response", err))
	}
	return &Response{Data: out}
}

func (e *Engine) executeOneQuery(ctx stdctx.Context, field *ast.Field, vars map[string]any, fragments map[string]*ast.FragmentDefinition, secCtx sec.SecurityContext) (json.RawMessage, error) {
	plan, err := e.planner.PlanQuery(field, vars, fragments, secCtx)
	if err != nil {
		return nil, err
	}
	e.planner.ApplyProjectionScope(plan, secCtx)

	literalArgs := argumentsToMap(field.Arguments, nil)
	fp := cache.FingerprintOperation(field.Name, SelectionShape(plan.Selection), mustCanonicalJSON(literalArgs))
	varHash := cache.VariableHash(mustCanonicalJSON(vars))
	resultKey := cache.ResultKey(fp, varHash)

	cacheable := !plan.ReturnsList || e.cfg.CacheListQueries

	load := func() ([]byte, []cache.Tag, error) {
		composed, plan, err := e.composeCached(fp, plan)
		if err != nil {
			return nil, nil, err
		}

		rows, err := e.executor.ExecuteRead(ctx, composed)
		if err != nil {
			return nil, nil, err
		}

		projected, err := ProjectRows(rows, plan.Selection)
		if err != nil {
			return nil, nil, err
		}

		var body []byte
		if plan.route1Row() {
			if len(projected) == 0 {
				body = []byte("null")
			} else {
				body = projected[0]
			}
		} else {
			body, err = json.Marshal(projected)
			if err != nil {
				return nil, nil, engineerr.Wrap(engineerr.Execution, "failed to encode rows", err)
			}
		}
		return body, tagsForRows(plan.ReturnType, projected), nil
	}

	if !cacheable || e.resultCache == nil {
		body, _, err := load()
		if err != nil {
			return nil, err
		}
		return body, nil
	}

	body, err := e.resultCache.GetOrLoad(ctx, resultKey, nil, load)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// composeCached returns the plan-cached SQL template for fp if
// present, otherwise composes it fresh and stores it.
func (e *Engine) composeCached(fp cache.Fingerprint, plan *Plan) (*ComposedQuery, *Plan, error) {
	if e.planCache != nil {
		if cached, ok := e.planCache.Get(fp); ok {
			return &ComposedQuery{SQL: cached.SQL, Params: composedParams(plan, cached.IsAggregate), ParamOrder: cached.ParamOrder}, plan, nil
		}
	}

	var composed *ComposedQuery
	var err error
	if plan.Route == RouteAggregate {
		fact := e.schema.FactTables[plan.Source]
		composed, err = ComposeAggregate(plan, fact, e.cfg.Dialect)
	} else {
		composed, err = ComposeRegular(plan, e.cfg.Dialect)
	}
	if err != nil {
		return nil, nil, err
	}

	if e.planCache != nil {
		e.planCache.Put(fp, cache.Plan{
			SQL:           composed.SQL,
			ParamOrder:    composed.ParamOrder,
			IsAggregate:   plan.Route == RouteAggregate,
			ProjectedType: plan.ReturnType,
		})
	}
	return composed, plan, nil
}

// composedParams re-derives a fresh parameter vector for a
// plan-cache hit, in the same order ComposeRegular/ComposeAggregate
// bound them: the SQL template is shared across requests, but the
// bound values are always request-specific.
func composedParams(plan *Plan, isAggregate bool) []any {
	var params []any
	if v, ok := plan.BoundArgs["tenant_id"]; ok {
		params = append(params, v)
	}
	if !isAggregate {
		if v, ok := plan.BoundArgs["user_id"]; ok {
			params = append(params, v)
		}
	}
	if plan.Where != nil {
		composer := where.NewComposer(where.Dialect(""))
		_, whereParams, _ := composer.Compose(plan.Where)
		params = append(params, whereParams...)
	}
	if isAggregate {
		if plan.Having != nil {
			composer := where.NewComposer(where.Dialect(""))
			_, havingParams, _ := composer.Compose(plan.Having)
			params = append(params, havingParams...)
		}
		return params
	}
	if plan.Limit > 0 {
		params = append(params, plan.Limit)
	}
	params = append(params, plan.Offset)
	return params
}

func (e *Engine) executeMutations(ctx stdctx.Context, op *ParsedOperation, vars map[string]any, fragments map[string]*ast.FragmentDefinition, secCtx sec.SecurityContext) *Response {
	data := make(map[string]json.RawMessage)
	var allTags []cache.Tag

	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		key := field.Name
		if field.Alias != "" {
			key = field.Alias
		}

		md, ok := e.schema.Mutations[field.Name]
		if !ok {
			return errorResponse(validationErr("unknown mutation: "+field.Name, field.Name))
		}

		args := argumentsToMap(field.Arguments, vars)
		input := args["input"]
		orderedArgs := e.flattenMutationArgs(md, input, secCtx)

		envelopeJSON, err := e.executor.ExecuteMutation(ctx, e.cfg.Dialect, md.Operation, orderedArgs)
		if err != nil {
			return errorResponse(err)
		}

		var envelope RawEnvelope
		if err := json.Unmarshal(envelopeJSON, &envelope); err != nil {
			envelope = RawEnvelope{Entity: envelopeJSON}
		}

		normalizer := NewNormalizer(md.SuccessType, md.ErrorType, true)
		result := normalizer.Normalize(&envelope)

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return errorResponse(engineerr.Wrap(engineerr.Execution, "failed to encode mutation result", err))
		}
		data[key] = resultJSON

		allTags = append(allTags, envelope.Cascade.Tags()...)
	}

	if e.resultCache != nil && len(allTags) > 0 {
		e.resultCache.Invalidate(ctx, allTags)
	}

	out, err := json.Marshal(data)
	if err != nil {
		return errorResponse(engineerr.Wrap(engineerr.Execution, "failed to encode response", err))
	}
	return &Response{Data: out}
}

// flattenMutationArgs orders a mutation's bound arguments: the input
// object's values in the compiled input type's declared field order
// (falling back to Go's unspecified map iteration order over the
// input object when the input type is not present in the schema), the
// caller's user ID appended last.
func (e *Engine) flattenMutationArgs(md schema.MutationDescriptor, input any, secCtx sec.SecurityContext) []any {
	obj, _ := input.(map[string]any)

	var out []any
	if inputType, ok := e.schema.InputTypes[md.InputType]; ok {
		for _, f := range inputType.Fields {
			out = append(out, obj[f.Name])
		}
	} else {
		for _, v := range obj {
			out = append(out, v)
		}
	}
	out = append(out, secCtx.UserID)
	return out
}

func tagsForRows(typeName string, rows []json.RawMessage) []cache.Tag {
	tags := make([]cache.Tag, 0, len(rows))
	for _, row := range rows {
		var obj map[string]any
		if err := json.Unmarshal(row, &obj); err != nil {
			continue
		}
		if id, ok := obj["id"]; ok {
			tags = append(tags, cache.Tag{TypeName: typeName, ID: toIDString(id)})
		}
	}
	return tags
}

func toIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	default:
		b, _ := json.Marshal(id)
		return string(b)
	}
}

func mustCanonicalJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func errorResponse(err error) *Response {
	if eerr, ok := engineerr.As(err); ok {
		return &Response{Errors: []ResponseError{{Message: eerr.Message, Path: eerr.Path}}}
	}
	return &Response{Errors: []ResponseError{{Message: err.Error()}}}
}
