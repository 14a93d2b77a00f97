// Copyright (c) 2026 gqlsql. All rights reserved.

// Package orderby implements the order-by algebra: field + source +
// direction + optional collation + optional nulls-handling, composed
// in listed order into an ORDER BY clause.
package orderby

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldSource is where a field comes from in ORDER BY.
type FieldSource int

const (
	// JsonbPayload means the field lives inside the `data` column:
	// `data->'field'`.
	JsonbPayload FieldSource = iota
	// DirectColumn means the field is a plain database column.
	DirectColumn
)

func (s FieldSource) String() string {
	if s == DirectColumn {
		return "DIRECT_COLUMN"
	}
	return "JSONB"
}

// Direction is the sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Nulls is explicit NULL placement.
type Nulls int

const (
	NullsUnspecified Nulls = iota
	NullsFirst
	NullsLast
)

func (n Nulls) String() string {
	switch n {
	case NullsFirst:
		return "NULLS FIRST"
	case NullsLast:
		return "NULLS LAST"
	default:
		return ""
	}
}

// fieldNamePattern: first char alphabetic or underscore, remainder
// alphanumeric or underscore.
var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// collationPattern: alphanumeric plus -_.@.
var collationPattern = regexp.MustCompile(`^[A-Za-z0-9\-_.@]+$`)

// Clause is a single ORDER BY entry.
type Clause struct {
	Field     string
	Source    FieldSource
	Direction Direction
	Collation string // empty means unspecified
	Nulls     Nulls
}

// JSONBField builds a clause over a JSONB payload field.
func JSONBField(field string, dir Direction) Clause {
	return Clause{Field: field, Source: JsonbPayload, Direction: dir}
}

// DirectColumnField builds a clause over a direct database column.
func DirectColumnField(field string, dir Direction) Clause {
	return Clause{Field: field, Source: DirectColumn, Direction: dir}
}

// WithCollation returns a copy of c carrying the given collation.
func (c Clause) WithCollation(collation string) Clause {
	c.Collation = collation
	return c
}

// WithNulls returns a copy of c carrying the given nulls handling.
func (c Clause) WithNulls(n Nulls) Clause {
	c.Nulls = n
	return c
}

// Validate rejects field names and collation names outside their
// conservative character classes, before any SQL is emitted.
func (c Clause) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("orderby: field name cannot be empty")
	}
	if !fieldNamePattern.MatchString(c.Field) {
		return fmt.Errorf("orderby: invalid field name: %s", c.Field)
	}
	if c.Collation != "" && !collationPattern.MatchString(c.Collation) {
		return fmt.Errorf("orderby: invalid collation name: %s", c.Collation)
	}
	return nil
}

// ToSQL renders this clause, e.g. `(data->'name') ASC`,
// `created_at DESC`, `(data->'name') COLLATE "en-US" ASC`,
// `status ASC NULLS LAST`.
func (c Clause) ToSQL() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	var fieldExpr string
	if c.Source == JsonbPayload {
		fieldExpr = fmt.Sprintf("(data->'%s')", c.Field)
	} else {
		fieldExpr = c.Field
	}

	var sb strings.Builder
	sb.WriteString(fieldExpr)
	if c.Collation != "" {
		sb.WriteString(fmt.Sprintf(" COLLATE \"%s\"", c.Collation))
	}
	sb.WriteString(" ")
	sb.WriteString(c.Direction.String())
	if c.Nulls != NullsUnspecified {
		sb.WriteString(" ")
		sb.WriteString(c.Nulls.String())
	}
	return sb.String(), nil
}

// List is an ordered sequence of clauses composed with commas.
type List []Clause

// ToSQL renders the full ORDER BY body (without the ORDER BY keyword).
func (l List) ToSQL() (string, error) {
	parts := make([]string, 0, len(l))
	for _, c := range l {
		s, err := c.ToSQL()
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}
