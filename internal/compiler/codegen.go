// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"github.com/taibuivan/gqlsql/internal/schema"
)

// ArtifactVersion is stamped into every generated CompiledSchema.
const ArtifactVersion = "1"

// Codegen assembles the final, deterministic schema.CompiledSchema
// from a ValidatedIR and its LoweredArtifact. The resulting value's
// maps are serialized with sorted keys by schema.Marshal, and the
// slice-valued fields below (Fields, Arguments, Measures, Dimensions)
// are copied in the IR's declared order, so repeated codegen over the
// same IR is byte-equal.
func Codegen(vir *ValidatedIR, lowered *LoweredArtifact) (*schema.CompiledSchema, error) {
	ir := vir.IR
	known := knownTypeKinds(ir)

	out := &schema.CompiledSchema{
		Version:           ArtifactVersion,
		Types:              map[string]schema.TypeDescriptor{},
		Queries:            map[string]schema.QueryDescriptor{},
		Mutations:          map[string]schema.MutationDescriptor{},
		OperatorTemplates:  lowered.OperatorTemplates,
		FactTables:         lowered.FactTables,
		Enums:              ir.Enums,
		Interfaces:         ir.Interfaces,
		Unions:             ir.Unions,
		SchemaSDL:          ir.SchemaSDL,
	}

	for _, t := range ir.Types {
		fields := make([]schema.FieldDescriptor, 0, len(t.Fields))
		for _, f := range t.Fields {
			tref, err := parseTypeRef(f.Type, known)
			if err != nil {
				return nil, err
			}
			fields = append(fields, schema.FieldDescriptor{
				Name:           f.Name,
				Type:           tref,
				Nullable:       tref.Kind != schema.KindNonNull,
				Default:        f.DefaultValue,
				Deprecated:     f.Deprecated,
				DeprecationMsg: f.DeprecationMsg,
				RequiresScope:  f.RequiresScope,
				Alias:          f.Alias,
				VectorDims:     f.VectorDims,
			})
		}
		out.Types[t.Name] = schema.TypeDescriptor{
			Name:        t.Name,
			Fields:      fields,
			Implements:  t.Implements,
			SQLSource:   t.SQLSource,
			JSONBColumn: t.JSONBColumn,
		}
	}

	if len(ir.InputTypes) > 0 {
		out.InputTypes = map[string]schema.TypeDescriptor{}
		for _, t := range ir.InputTypes {
			fields := make([]schema.FieldDescriptor, 0, len(t.Fields))
			for _, f := range t.Fields {
				tref, err := parseTypeRef(f.Type, known)
				if err != nil {
					return nil, err
				}
				fields = append(fields, schema.FieldDescriptor{Name: f.Name, Type: tref, Nullable: tref.Kind != schema.KindNonNull})
			}
			out.InputTypes[t.Name] = schema.TypeDescriptor{Name: t.Name, Fields: fields, SQLSource: t.SQLSource}
		}
	}

	for _, q := range ir.Queries {
		args := make([]schema.Argument, 0, len(q.Arguments))
		for _, a := range q.Arguments {
			tref, err := parseTypeRef(a.Type, known)
			if err != nil {
				return nil, err
			}
			args = append(args, schema.Argument{Name: a.Name, Type: tref, Nullable: tref.Kind != schema.KindNonNull})
		}
		out.Queries[q.Name] = schema.QueryDescriptor{
			Name:        q.Name,
			ReturnType:  q.ReturnType,
			ReturnsList: isListType(q.ReturnType),
			Nullable:    !isNonNullType(q.ReturnType),
			Arguments:   args,
			SQLSource:   q.SQLSource,
			AutoParams: schema.AutoParamPolicy{
				Tenant:     q.AutoParams.Tenant,
				User:       q.AutoParams.User,
				Filter:     q.AutoParams.Filter,
				Pagination: q.AutoParams.Pagination,
			},
			FactTable: q.FactTable,
		}
	}

	for _, m := range ir.Mutations {
		var cascade *schema.CascadeDeclaration
		if m.Cascade != nil {
			cascade = &schema.CascadeDeclaration{Types: m.Cascade.Types}
		}
		out.Mutations[m.Name] = schema.MutationDescriptor{
			Name:        m.Name,
			Operation:   m.Operation,
			InputType:   m.InputType,
			SuccessType: m.SuccessType,
			ErrorType:   m.ErrorType,
			Cascade:     cascade,
		}
	}

	if len(ir.Lookups) > 0 {
		out.Lookups = map[string]schema.LookupTable{}
		for name, entries := range ir.Lookups {
			out.Lookups[name] = schema.LookupTable{Name: name, Entries: entries}
		}
	}

	return out, nil
}

func isListType(raw string) bool {
	trimmed := raw
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == '!' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isNonNullType(raw string) bool {
	return len(raw) > 0 && raw[len(raw)-1] == '!'
}
