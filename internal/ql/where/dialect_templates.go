// Copyright (c) 2026 gqlsql. All rights reserved.

package where

import "fmt"

// dialectTemplate is a per-dialect SQL fragment for one base operator,
// keyed the same way internal/compiler/lower.go keys rich-type
// operator templates: one entry required per member of AllDialects,
// not just whichever target the composer happens to run against.
type dialectTemplate map[Dialect]string

func (t dialectTemplate) render(dialect Dialect, op Operator, args ...any) (string, error) {
	tmpl, ok := t[dialect]
	if !ok {
		return "", fmt.Errorf("where: operator %s has no SQL template for dialect %q", op.Name(), dialect)
	}
	return fmt.Sprintf(tmpl, args...), nil
}

// likeSyntax is one dialect's rendering of case-sensitive and
// case-insensitive pattern matching. Postgres has a native ILIKE
// keyword; MySQL's default collation is already case-insensitive, so
// case-sensitive matching there forces a BINARY comparison instead.
// SQLite and SQL Server have neither a distinct keyword nor a
// collation we can assume, so case-insensitive matching there lowers
// both operands explicitly.
type likeSyntax struct {
	sensitive   string
	insensitive string
	lowerWrap   bool
}

var likeSyntaxByDialect = map[Dialect]likeSyntax{
	Postgres:  {sensitive: "LIKE", insensitive: "ILIKE"},
	MySQL:     {sensitive: "LIKE BINARY", insensitive: "LIKE"},
	SQLite:    {sensitive: "LIKE", insensitive: "LIKE", lowerWrap: true},
	SQLServer: {sensitive: "LIKE", insensitive: "LIKE", lowerWrap: true},
}

// ftsTemplates render a full-text-search predicate. Verbs: %[1]s is
// the search configuration/language, %[2]s is the indexed column
// expression, %[3]s is the bound query placeholder. Postgres uses its
// native text-search functions; MySQL's closest equivalent is a
// MATCH...AGAINST boolean- or natural-language-mode search (it has no
// per-call language configuration); SQLite is rendered as a virtual
// FTS5 table MATCH clause; SQL Server uses CONTAINS/FREETEXT
// predicates, which likewise carry no per-call language argument.
var ftsTemplates = map[Operator]dialectTemplate{
	FTSMatches: {
		Postgres:  "to_tsvector('%[1]s', %[2]s) @@ to_tsquery('%[1]s', %[3]s)",
		MySQL:     "MATCH(%[2]s) AGAINST(%[3]s IN BOOLEAN MODE)",
		SQLite:    "%[2]s MATCH %[3]s",
		SQLServer: "CONTAINS(%[2]s, %[3]s)",
	},
	FTSPlainQuery: {
		Postgres:  "to_tsvector('%[1]s', %[2]s) @@ plainto_tsquery('%[1]s', %[3]s)",
		MySQL:     "MATCH(%[2]s) AGAINST(%[3]s IN NATURAL LANGUAGE MODE)",
		SQLite:    "%[2]s MATCH %[3]s",
		SQLServer: "FREETEXT(%[2]s, %[3]s)",
	},
	FTSPhraseQuery: {
		Postgres:  "to_tsvector('%[1]s', %[2]s) @@ phraseto_tsquery('%[1]s', %[3]s)",
		MySQL:     "MATCH(%[2]s) AGAINST(%[3]s IN BOOLEAN MODE)",
		SQLite:    "%[2]s MATCH %[3]s",
		SQLServer: "CONTAINS(%[2]s, %[3]s)",
	},
	FTSWebsearchQuery: {
		Postgres:  "to_tsvector('%[1]s', %[2]s) @@ websearch_to_tsquery('%[1]s', %[3]s)",
		MySQL:     "MATCH(%[2]s) AGAINST(%[3]s IN BOOLEAN MODE)",
		SQLite:    "%[2]s MATCH %[3]s",
		SQLServer: "CONTAINS(%[2]s, %[3]s)",
	},
}

// vectorTemplates render a similarity/distance comparison between a
// JSONB-extracted vector column (%[1]s) and a bound parameter (%[2]s).
// Postgres uses pgvector's operators; MySQL 9's DISTANCE() and SQL
// Server's VECTOR_DISTANCE() take an explicit metric argument instead
// of a dedicated operator per metric; SQLite is rendered against the
// sqlite-vec extension's vec_distance_* functions. Inner product has
// no native "larger is closer" form outside pgvector, so it is negated
// to keep ordering consistent with the other three metrics.
var vectorTemplates = map[Operator]dialectTemplate{
	L2Distance: {
		Postgres:  "%[1]s::vector <-> %[2]s",
		MySQL:     "DISTANCE(%[1]s, %[2]s, 'EUCLIDEAN')",
		SQLite:    "vec_distance_l2(%[1]s, %[2]s)",
		SQLServer: "VECTOR_DISTANCE('euclidean', %[1]s, %[2]s)",
	},
	CosineDistance: {
		Postgres:  "%[1]s::vector <=> %[2]s",
		MySQL:     "DISTANCE(%[1]s, %[2]s, 'COSINE')",
		SQLite:    "vec_distance_cosine(%[1]s, %[2]s)",
		SQLServer: "VECTOR_DISTANCE('cosine', %[1]s, %[2]s)",
	},
	InnerProduct: {
		Postgres:  "%[1]s::vector <#> %[2]s",
		MySQL:     "(0 - DOT_PRODUCT(%[1]s, %[2]s))",
		SQLite:    "(0 - vec_distance_dot(%[1]s, %[2]s))",
		SQLServer: "(0 - VECTOR_DISTANCE('dot', %[1]s, %[2]s))",
	},
	JaccardDistance: {
		Postgres:  "%[1]s::vector <%%> %[2]s",
		MySQL:     "DISTANCE(%[1]s, %[2]s, 'JACCARD')",
		SQLite:    "vec_distance_jaccard(%[1]s, %[2]s)",
		SQLServer: "VECTOR_DISTANCE('jaccard', %[1]s, %[2]s)",
	},
}

// inetUnaryTemplates render a single-operand inet predicate (%[1]s is
// the column expression, used as many times as the dialect needs).
// Postgres has a native inet type; the other three have no CIDR type
// at all, so IsIPv4/IsIPv6 fall back to MySQL's INET_ATON/INET6_ATON
// parse functions (real, documented MySQL builtins) or, where even
// those are unavailable, a plain textual shape check, and the private-
// /loopback-range checks fall back to literal range/prefix comparisons
// over the same textual representation.
var inetUnaryTemplates = map[Operator]dialectTemplate{
	IsIPv4: {
		Postgres:  "family(%[1]s::inet) = 4",
		MySQL:     "INET_ATON(%[1]s) IS NOT NULL",
		SQLite:    "(%[1]s LIKE '%%.%%.%%.%%' AND %[1]s NOT LIKE '%%:%%')",
		SQLServer: "(CHARINDEX(':', %[1]s) = 0 AND CHARINDEX('.', %[1]s) > 0)",
	},
	IsIPv6: {
		Postgres:  "family(%[1]s::inet) = 6",
		MySQL:     "(INET6_ATON(%[1]s) IS NOT NULL AND INET_ATON(%[1]s) IS NULL)",
		SQLite:    "%[1]s LIKE '%%:%%'",
		SQLServer: "CHARINDEX(':', %[1]s) > 0",
	},
	IsPrivate: {
		Postgres: "(%[1]s::inet <<= '10.0.0.0/8' OR %[1]s::inet <<= '172.16.0.0/12' OR %[1]s::inet <<= '192.168.0.0/16')",
		MySQL: "(INET_ATON(%[1]s) BETWEEN INET_ATON('10.0.0.0') AND INET_ATON('10.255.255.255') " +
			"OR INET_ATON(%[1]s) BETWEEN INET_ATON('172.16.0.0') AND INET_ATON('172.31.255.255') " +
			"OR INET_ATON(%[1]s) BETWEEN INET_ATON('192.168.0.0') AND INET_ATON('192.168.255.255'))",
		SQLite:    "(%[1]s LIKE '10.%%' OR %[1]s LIKE '192.168.%%' OR %[1]s LIKE '172.1_.%%' OR %[1]s LIKE '172.2_.%%' OR %[1]s LIKE '172.3_.%%')",
		SQLServer: "(%[1]s LIKE '10.%%' OR %[1]s LIKE '192.168.%%' OR %[1]s LIKE '172.1_.%%' OR %[1]s LIKE '172.2_.%%' OR %[1]s LIKE '172.3_.%%')",
	},
	IsLoopback: {
		Postgres:  "(%[1]s::inet = '127.0.0.1'::inet OR %[1]s::inet = '::1'::inet)",
		MySQL:     "(%[1]s = '127.0.0.1' OR %[1]s = '::1')",
		SQLite:    "(%[1]s = '127.0.0.1' OR %[1]s = '::1')",
		SQLServer: "(%[1]s = '127.0.0.1' OR %[1]s = '::1')",
	},
}

// inetBinaryTemplates render a two-operand inet predicate: %[1]s is
// the column expression, %[2]s the bound placeholder. Postgres's
// native cidr containment operators have no equivalent in the other
// three engines, which carry no CIDR type; those dialects instead
// compile to scalar functions (gqlsql_in_subnet and friends) that a
// deployment targeting them is expected to install, the same way a
// Postgres deployment is expected to have pgvector installed for the
// vector operators above.
var inetBinaryTemplates = map[Operator]dialectTemplate{
	InSubnet: {
		Postgres:  "%[1]s::inet <<= %[2]s::inet",
		MySQL:     "gqlsql_in_subnet(%[1]s, %[2]s)",
		SQLite:    "gqlsql_in_subnet(%[1]s, %[2]s)",
		SQLServer: "gqlsql_in_subnet(%[1]s, %[2]s)",
	},
	ContainsSubnet: {
		Postgres:  "%[1]s::inet >>= %[2]s::inet",
		MySQL:     "gqlsql_contains_subnet(%[1]s, %[2]s)",
		SQLite:    "gqlsql_contains_subnet(%[1]s, %[2]s)",
		SQLServer: "gqlsql_contains_subnet(%[1]s, %[2]s)",
	},
	ContainsIP: {
		Postgres:  "%[1]s::inet >> %[2]s::inet",
		MySQL:     "gqlsql_contains_ip(%[1]s, %[2]s)",
		SQLite:    "gqlsql_contains_ip(%[1]s, %[2]s)",
		SQLServer: "gqlsql_contains_ip(%[1]s, %[2]s)",
	},
	IPRangeOverlap: {
		Postgres:  "%[1]s::inet && %[2]s::inet",
		MySQL:     "gqlsql_ip_range_overlap(%[1]s, %[2]s)",
		SQLite:    "gqlsql_ip_range_overlap(%[1]s, %[2]s)",
		SQLServer: "gqlsql_ip_range_overlap(%[1]s, %[2]s)",
	},
}
