// Copyright (c) 2026 gqlsql. All rights reserved.

package where

import (
	"fmt"
	"strings"
)

// Composer walks a where-tree and emits a SQL fragment with numbered
// placeholders plus the parallel parameter vector. It never
// string-concatenates a user value into the fragment; every value
// handed to the caller travels through params.
type Composer struct {
	Dialect Dialect

	// NextPlaceholder is the 1-based index of the next placeholder to
	// emit; composers are typically chained after auto-parameters
	// (tenant id, user id) have already claimed the first few slots.
	NextPlaceholder int
}

// NewComposer returns a Composer starting placeholder numbering at 1.
func NewComposer(dialect Dialect) *Composer {
	return &Composer{Dialect: dialect, NextPlaceholder: 1}
}

// Compose renders root into a SQL boolean expression and returns the
// accumulated parameter vector in placeholder order. An empty tree
// (nil) renders to "TRUE" with no parameters.
func (c *Composer) Compose(root Node) (string, []any, error) {
	if root == nil {
		return "TRUE", nil, nil
	}
	var sb strings.Builder
	var params []any
	if err := c.write(&sb, &params, root); err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

func (c *Composer) write(sb *strings.Builder, params *[]any, n Node) error {
	switch v := n.(type) {
	case FieldPredicate:
		return c.writeField(sb, params, v)
	case And:
		return c.writeJoin(sb, params, v.Children, "AND")
	case Or:
		return c.writeJoin(sb, params, v.Children, "OR")
	case Not:
		sb.WriteString("NOT (")
		if err := c.write(sb, params, v.Child); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil
	default:
		return fmt.Errorf("where: unsupported node type %T", n)
	}
}

func (c *Composer) writeJoin(sb *strings.Builder, params *[]any, children []Node, joiner string) error {
	if len(children) == 0 {
		sb.WriteString("TRUE")
		return nil
	}
	sb.WriteString("(")
	for i, child := range children {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(joiner)
			sb.WriteString(" ")
		}
		if err := c.write(sb, params, child); err != nil {
			return err
		}
	}
	sb.WriteString(")")
	return nil
}

func (c *Composer) writeField(sb *strings.Builder, params *[]any, f FieldPredicate) error {
	if err := ValidateFieldPath(f.Path); err != nil {
		return err
	}

	switch f.Operator {
	case In, NotIn:
		return c.writeListOp(sb, params, f)
	case IsNull:
		return c.writeIsNull(sb, params, f)
	}

	expr := jsonbExpr(f.Path, f.Operator)

	switch f.Operator {
	case Eq, Neq, Gt, Gte, Lt, Lte:
		sb.WriteString(expr)
		sb.WriteString(" ")
		sb.WriteString(comparisonSQL(f.Operator))
		sb.WriteString(" ")
		c.placeholder(sb, params, f.Value)
		return nil

	case ArrayContains, ArrayContainedBy, ArrayOverlaps:
		sb.WriteString(expr)
		sb.WriteString(" ")
		sb.WriteString(arraySQL(f.Operator))
		sb.WriteString(" ")
		c.placeholder(sb, params, f.Value)
		return nil

	case LenEq, LenGt, LenGte, LenLt, LenLte:
		sb.WriteString("jsonb_array_length(")
		sb.WriteString(expr)
		sb.WriteString(") ")
		sb.WriteString(lengthSQL(f.Operator))
		sb.WriteString(" ")
		c.placeholder(sb, params, f.Value)
		return nil

	case Contains, IContains:
		return c.writeLikePattern(sb, params, expr, f.Value, "%%%s%%", f.Operator == IContains)
	case StartsWith, IStartsWith:
		return c.writeLikePattern(sb, params, expr, f.Value, "%s%%", f.Operator == IStartsWith)
	case EndsWith, IEndsWith:
		return c.writeLikePattern(sb, params, expr, f.Value, "%%%s", f.Operator == IEndsWith)
	case Like, ILike:
		s, ok := f.Value.(string)
		if !ok {
			return fmt.Errorf("where: %s requires a string value", f.Operator.Name())
		}
		c.writeLikeClause(sb, params, expr, s, f.Operator == ILike)
		return nil

	case L2Distance, CosineDistance, InnerProduct, JaccardDistance:
		tok := c.bindPlaceholder(params, f.Value)
		out, err := vectorTemplates[f.Operator].render(c.Dialect, f.Operator, expr, tok)
		if err != nil {
			return err
		}
		sb.WriteString(out)
		return nil

	case FTSMatches, FTSPlainQuery, FTSPhraseQuery, FTSWebsearchQuery:
		return c.writeFTS(sb, params, expr, f)

	case IsIPv4, IsIPv6, IsPrivate, IsLoopback:
		out, err := inetUnaryTemplates[f.Operator].render(c.Dialect, f.Operator, expr)
		if err != nil {
			return err
		}
		sb.WriteString(out)
		return nil
	case InSubnet, ContainsSubnet, ContainsIP, IPRangeOverlap:
		tok := c.bindPlaceholder(params, f.Value)
		out, err := inetBinaryTemplates[f.Operator].render(c.Dialect, f.Operator, expr, tok)
		if err != nil {
			return err
		}
		sb.WriteString(out)
		return nil

	default:
		return fmt.Errorf("where: operator %s has no built-in template; resolve via compiled schema operator templates", f.Operator.Name())
	}
}

func (c *Composer) writeListOp(sb *strings.Builder, params *[]any, f FieldPredicate) error {
	values, ok := asSlice(f.Value)
	if !ok {
		return fmt.Errorf("where: %s requires a list value", f.Operator.Name())
	}
	expr := jsonbExpr(f.Path, Eq)

	// Empty lists short-circuit: in([]) is always-false, nin([]) is
	// always-true, with no placeholders consumed.
	if len(values) == 0 {
		if f.Operator == In {
			sb.WriteString("FALSE")
		} else {
			sb.WriteString("TRUE")
		}
		return nil
	}

	sb.WriteString(expr)
	if f.Operator == NotIn {
		sb.WriteString(" NOT IN (")
	} else {
		sb.WriteString(" IN (")
	}
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.placeholder(sb, params, v)
	}
	sb.WriteString(")")
	return nil
}

func (c *Composer) writeIsNull(sb *strings.Builder, params *[]any, f FieldPredicate) error {
	wantNull := true
	if b, ok := f.Value.(bool); ok {
		wantNull = b
	}
	expr := jsonbExpr(f.Path, Eq)
	sb.WriteString(expr)
	if wantNull {
		sb.WriteString(" IS NULL")
	} else {
		sb.WriteString(" IS NOT NULL")
	}
	return nil
}

func (c *Composer) writeLikePattern(sb *strings.Builder, params *[]any, expr string, value any, format string, insensitive bool) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("where: pattern operator requires a string value")
	}
	c.writeLikeClause(sb, params, expr, fmt.Sprintf(format, escapeLike(s)), insensitive)
	return nil
}

// writeLikeClause renders a LIKE-family predicate against this
// composer's dialect. Dialects with no native case-insensitive
// keyword lower both operands explicitly rather than claim a keyword
// they don't have.
func (c *Composer) writeLikeClause(sb *strings.Builder, params *[]any, expr, pattern string, insensitive bool) {
	syntax := likeSyntaxByDialect[c.Dialect]
	lhs, keyword, rhs := expr, syntax.sensitive, pattern
	if insensitive {
		keyword = syntax.insensitive
		if syntax.lowerWrap {
			lhs = "LOWER(" + expr + ")"
			rhs = strings.ToLower(pattern)
		}
	}
	sb.WriteString(lhs)
	sb.WriteString(" ")
	sb.WriteString(keyword)
	sb.WriteString(" ")
	c.placeholder(sb, params, rhs)
}

func (c *Composer) writeFTS(sb *strings.Builder, params *[]any, expr string, f FieldPredicate) error {
	lang := f.Language
	if lang == "" {
		lang = "simple"
	}
	tok := c.bindPlaceholder(params, f.Value)
	out, err := ftsTemplates[f.Operator].render(c.Dialect, f.Operator, lang, expr, tok)
	if err != nil {
		return err
	}
	sb.WriteString(out)
	return nil
}

func (c *Composer) placeholder(sb *strings.Builder, params *[]any, value any) {
	sb.WriteString(c.bindPlaceholder(params, value))
}

// bindPlaceholder reserves the next placeholder slot, records value
// in the parameter vector, and returns the placeholder token without
// writing it to the builder — callers that need the token embedded
// mid-template (FTS, vector, inet) use this directly.
func (c *Composer) bindPlaceholder(params *[]any, value any) string {
	tok := c.Dialect.Placeholder(c.NextPlaceholder)
	c.NextPlaceholder++
	*params = append(*params, value)
	return tok
}

func jsonbExpr(path string, op Operator) string {
	segs := strings.Split(path, ".")
	expr := "data"
	for i, s := range segs {
		if i == len(segs)-1 {
			switch op {
			case ArrayContains, ArrayContainedBy, ArrayOverlaps:
				expr += "->'" + s + "'"
			default:
				expr += "->>'" + s + "'"
			}
			continue
		}
		expr += "->'" + s + "'"
	}
	return "(" + expr + ")"
}

func comparisonSQL(op Operator) string {
	switch op {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	default:
		return "<="
	}
}

func arraySQL(op Operator) string {
	switch op {
	case ArrayContains:
		return "@>"
	case ArrayContainedBy:
		return "<@"
	default:
		return "&&"
	}
}

func lengthSQL(op Operator) string {
	switch op {
	case LenEq:
		return "="
	case LenGt:
		return ">"
	case LenGte:
		return ">="
	case LenLt:
		return "<"
	default:
		return "<="
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}
