// Copyright (c) 2026 gqlsql. All rights reserved.

// Package where implements the where-clause algebra: a recursive
// sum-type tree of field predicates and logical combinators, a closed
// operator set with per-dialect SQL templates, and a composer that
// walks a tree into a parameterized SQL fragment.
package where

import "regexp"

// Operator is a member of the closed operator set. Each operator's
// canonical name is independent of the SQL it eventually produces, so
// two operators never alias each other in a fingerprint.
type Operator int

const (
	Eq Operator = iota
	Neq
	Gt
	Gte
	Lt
	Lte

	In
	NotIn
	ArrayContains
	ArrayContainedBy
	ArrayOverlaps

	LenEq
	LenGt
	LenGte
	LenLt
	LenLte

	Contains
	IContains
	StartsWith
	IStartsWith
	EndsWith
	IEndsWith
	Like
	ILike

	IsNull

	L2Distance
	CosineDistance
	InnerProduct
	JaccardDistance

	FTSMatches
	FTSPlainQuery
	FTSPhraseQuery
	FTSWebsearchQuery

	IsIPv4
	IsIPv6
	IsPrivate
	IsLoopback
	InSubnet
	ContainsSubnet
	ContainsIP
	IPRangeOverlap
)

var operatorNames = map[Operator]string{
	Eq:  "eq",
	Neq: "neq",
	Gt:  "gt",
	Gte: "gte",
	Lt:  "lt",
	Lte: "lte",

	In:               "in",
	NotIn:            "nin",
	ArrayContains:    "array-contains",
	ArrayContainedBy: "array-contained-by",
	ArrayOverlaps:    "array-overlaps",

	LenEq:  "len-eq",
	LenGt:  "len-gt",
	LenGte: "len-gte",
	LenLt:  "len-lt",
	LenLte: "len-lte",

	Contains:    "contains",
	IContains:   "icontains",
	StartsWith:  "startswith",
	IStartsWith: "istartswith",
	EndsWith:    "endswith",
	IEndsWith:   "iendswith",
	Like:        "like",
	ILike:       "ilike",

	IsNull: "is-null",

	L2Distance:      "l2-distance",
	CosineDistance:  "cosine-distance",
	InnerProduct:    "inner-product",
	JaccardDistance: "jaccard-distance",

	FTSMatches:         "matches",
	FTSPlainQuery:      "plain-query",
	FTSPhraseQuery:     "phrase-query",
	FTSWebsearchQuery:  "websearch-query",

	IsIPv4:         "is-ipv4",
	IsIPv6:         "is-ipv6",
	IsPrivate:      "is-private",
	IsLoopback:     "is-loopback",
	InSubnet:       "in-subnet",
	ContainsSubnet: "contains-subnet",
	ContainsIP:     "contains-ip",
	IPRangeOverlap: "ip-range-overlap",
}

// Name returns the operator's canonical, SQL-independent identifier.
func (op Operator) Name() string {
	if n, ok := operatorNames[op]; ok {
		return n
	}
	return "unknown"
}

// IsCaseInsensitive reports whether this operator's case sensitivity
// is "insensitive" — part of the operator's identity, not a flag on
// the value (spec: "case sensitivity is carried in the operator
// identity").
func (op Operator) IsCaseInsensitive() bool {
	switch op {
	case IContains, IStartsWith, IEndsWith, ILike:
		return true
	default:
		return false
	}
}

// fieldPathPattern is the character class a field path must satisfy:
// [a-zA-Z_][a-zA-Z0-9_]*, optionally dotted for nested paths.
var fieldPathPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)

// ValidateFieldPath rejects any path that doesn't satisfy the field
// path character class. A violation is a compile-time-of-the-request
// error (Composition kind), not a runtime SQL error.
func ValidateFieldPath(path string) error {
	if !fieldPathPattern.MatchString(path) {
		return &Error{Kind: "invalid-field-path", Detail: path}
	}
	return nil
}

// Error is a where-algebra validation failure.
type Error struct {
	Kind   string
	Detail string
}

func (e *Error) Error() string {
	return "where: " + e.Kind + ": " + e.Detail
}
