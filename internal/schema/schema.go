// Copyright (c) 2026 gqlsql. All rights reserved.

// Package schema defines the compiled schema artifact: the immutable,
// deterministic data structure produced by internal/compiler and
// consumed read-only by every request (spec.md §3).
package schema

// Kind is the GraphQL type-system category a field's type reference
// belongs to.
type Kind string

const (
	KindScalar   Kind = "scalar"
	KindEnum     Kind = "enum"
	KindObject   Kind = "object"
	KindList     Kind = "list"
	KindNonNull  Kind = "non_null"
)

// TypeRef is a tagged variant over scalar/enum/object/list/non-null,
// matching the "dynamic shapes... tagged variants" design note.
type TypeRef struct {
	Kind Kind `json:"kind"`
	// Name is populated for Scalar, Enum, and Object.
	Name string `json:"name,omitempty"`
	// Of is populated for List and NonNull, wrapping the inner type.
	Of *TypeRef `json:"of,omitempty"`
}

// FieldDescriptor describes one field of a TypeDescriptor.
type FieldDescriptor struct {
	Name           string   `json:"name"`
	Type           TypeRef  `json:"type"`
	Nullable       bool     `json:"nullable"`
	Default        any      `json:"default,omitempty"`
	Deprecated     bool     `json:"deprecated,omitempty"`
	DeprecationMsg string   `json:"deprecation_reason,omitempty"`
	RequiresScope  string   `json:"requires_scope,omitempty"`
	Alias          string   `json:"alias,omitempty"`
	VectorDims     int      `json:"vector_dims,omitempty"`
}

// TypeDescriptor describes one GraphQL object type and its SQL
// binding.
type TypeDescriptor struct {
	Name        string            `json:"name"`
	Fields      []FieldDescriptor `json:"fields"`
	Implements  []string          `json:"implements,omitempty"`
	SQLSource   string            `json:"sql_source"`
	JSONBColumn string            `json:"jsonb_column,omitempty"`
	Projection  string            `json:"projection_hint,omitempty"`
}

// DefaultJSONBColumn returns JSONBColumn or the convention default.
func (t TypeDescriptor) DefaultJSONBColumn() string {
	if t.JSONBColumn == "" {
		return "data"
	}
	return t.JSONBColumn
}

// HasCount reports whether this type descriptor carries a `count`
// field, required of every aggregate type.
func (t TypeDescriptor) HasCount() bool {
	for _, f := range t.Fields {
		if f.Name == "count" {
			return true
		}
	}
	return false
}

// Argument is one named, typed query argument.
type Argument struct {
	Name     string  `json:"name"`
	Type     TypeRef `json:"type"`
	Nullable bool    `json:"nullable"`
}

// AutoParamPolicy names which arguments are bound automatically by
// the planner rather than supplied by the client.
type AutoParamPolicy struct {
	Tenant     bool `json:"tenant,omitempty"`
	User       bool `json:"user,omitempty"`
	Filter     bool `json:"filter,omitempty"`
	Pagination bool `json:"pagination,omitempty"`
}

// QueryDescriptor describes one top-level read field.
type QueryDescriptor struct {
	Name           string          `json:"name"`
	ReturnType     string          `json:"return_type"`
	ReturnsList    bool            `json:"returns_list"`
	Nullable       bool            `json:"nullable"`
	Arguments      []Argument      `json:"arguments"`
	SQLSource      string          `json:"sql_source"`
	AutoParams     AutoParamPolicy `json:"auto_params"`
	FactTable      string          `json:"fact_table,omitempty"`
}

// CascadeDeclaration names the tag kinds a mutation may invalidate.
type CascadeDeclaration struct {
	Types []string `json:"types"`
}

// MutationDescriptor describes one top-level write field, bound to a
// stored procedure call.
type MutationDescriptor struct {
	Name        string              `json:"name"`
	Operation   string              `json:"operation"` // function/procedure name
	InputType   string              `json:"input_type"`
	SuccessType string              `json:"success_type"`
	ErrorType   string              `json:"error_type"`
	Cascade     *CascadeDeclaration `json:"cascade,omitempty"`
}

// Dialect names a SQL target the compiler lowers templates for.
type Dialect string

const (
	DialectPostgres  Dialect = "postgresql"
	DialectMySQL     Dialect = "mysql"
	DialectSQLite    Dialect = "sqlite"
	DialectSQLServer Dialect = "sqlserver"
)

// AllDialects is the fixed set every operator template must cover.
var AllDialects = []Dialect{DialectPostgres, DialectMySQL, DialectSQLite, DialectSQLServer}

// OperatorTemplate is a per-dialect SQL fragment for one operator on
// one semantic type, parameterized by placeholder index only.
type OperatorTemplate struct {
	Operator  string             `json:"operator"`
	Templates map[Dialect]string `json:"templates"`
}

// HasAllDialects reports whether this template covers every required
// dialect.
func (t OperatorTemplate) HasAllDialects() bool {
	for _, d := range AllDialects {
		if _, ok := t.Templates[d]; !ok {
			return false
		}
	}
	return true
}

// SemanticTypeOperators maps a semantic type name (e.g. "EmailAddress")
// to its supported operator templates.
type SemanticTypeOperators struct {
	SemanticType string             `json:"semantic_type"`
	Operators    []OperatorTemplate `json:"operators"`
}

// FilterColumn is a denormalized column a fact table exposes for
// pre-aggregation filtering.
type FilterColumn struct {
	Name    string `json:"name"`
	Indexed bool   `json:"indexed"`
}

// Measure is one aggregatable numeric column of a fact table.
type Measure struct {
	Name   string `json:"name"`
	SQLType string `json:"sql_type"`
}

// Dimension is a group-by axis of a fact table, either a direct
// column or a JSONB path.
type Dimension struct {
	Name       string `json:"name"`
	JSONBPath  bool   `json:"jsonb_path,omitempty"`
}

// FactTableDescriptor describes one analytic table, queried via
// aggregate routing. Name must carry the `tf_` prefix.
type FactTableDescriptor struct {
	Name          string         `json:"name"`
	Measures      []Measure      `json:"measures"`
	Dimensions    []Dimension    `json:"dimensions"`
	FilterColumns []FilterColumn `json:"filter_columns,omitempty"`
}

// SecurityConfig is the optional auth configuration embedded in the
// artifact (adapter-layer knobs the core consumes read-only).
type SecurityConfig struct {
	DefaultRequiredScope string `json:"default_required_scope,omitempty"`
}

// FederationConfig is the optional cross-subgraph metadata.
type FederationConfig struct {
	Keys  map[string][]string `json:"keys,omitempty"`
	Owned []string            `json:"owned,omitempty"`
}

// SubscriptionDescriptor is a compiled subscription entry; the
// subscription core itself is out of scope (spec.md §1), but its
// compiled shape still lives in the artifact.
type SubscriptionDescriptor struct {
	Name       string `json:"name"`
	ReturnType string `json:"return_type"`
	Channel    string `json:"channel"`
}

// LookupTable is an embedded reference dataset (countries, currencies,
// timezones, languages) that must be non-empty in a valid artifact.
type LookupTable struct {
	Name    string           `json:"name"`
	Entries []map[string]any `json:"entries"`
}

// CompiledSchema is the full, immutable compiled artifact.
type CompiledSchema struct {
	Version string `json:"version"`

	Types     map[string]TypeDescriptor     `json:"types"`
	Queries   map[string]QueryDescriptor    `json:"queries"`
	Mutations map[string]MutationDescriptor `json:"mutations"`

	InputTypes map[string]TypeDescriptor `json:"input_types,omitempty"`
	Enums      map[string][]string       `json:"enums,omitempty"`
	Interfaces map[string][]string       `json:"interfaces,omitempty"`
	Unions     map[string][]string       `json:"unions,omitempty"`

	Subscriptions []SubscriptionDescriptor `json:"subscriptions,omitempty"`
	FactTables    map[string]FactTableDescriptor `json:"fact_tables,omitempty"`

	OperatorTemplates map[string]SemanticTypeOperators `json:"operator_templates"`

	Federation *FederationConfig `json:"federation,omitempty"`
	Security   *SecurityConfig   `json:"security,omitempty"`

	Directives []string               `json:"directives,omitempty"`
	Observers  []string               `json:"observers,omitempty"`
	SchemaSDL  string                 `json:"schema_sdl,omitempty"`
	Lookups    map[string]LookupTable `json:"lookups,omitempty"`
}
