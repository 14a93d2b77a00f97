// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"fmt"

	"github.com/taibuivan/gqlsql/internal/schema"
)

// LoweredArtifact carries the per-dialect SQL templates and expanded
// fact-table metadata produced from a ValidatedIR, ready for Codegen
// to assemble into a schema.CompiledSchema.
type LoweredArtifact struct {
	OperatorTemplates map[string]schema.SemanticTypeOperators
	FactTables        map[string]schema.FactTableDescriptor
}

// richTypeOperator is one operator a semantic (rich) scalar type
// contributes beyond the generic closed operator set, expressed per
// dialect as a fmt template whose %s verbs take the column expression
// (twice where the dialect's SQL names the column twice) and then the
// bound placeholder.
type richTypeOperator struct {
	name      string
	templates map[schema.Dialect]string
}

// richTypeCatalogue is the set of semantic types this build knows how
// to expand. It is intentionally small: the spec's open question notes
// that an exact count of rich WhereInput types is an authoring-time
// detail, not a runtime invariant, so the catalogue grows as semantic
// types are actually declared in a schema rather than pre-populating
// every conceivable one.
var richTypeCatalogue = map[string][]richTypeOperator{
	"EmailAddress": {
		{
			name: "domainEq",
			templates: map[schema.Dialect]string{
				schema.DialectPostgres:  "split_part(%s, '@', 2) = %s",
				schema.DialectMySQL:     "SUBSTRING_INDEX(%s, '@', -1) = %s",
				schema.DialectSQLite:    "substr(%s, instr(%s, '@') + 1) = %s",
				schema.DialectSQLServer: "RIGHT(%s, CHARINDEX('@', REVERSE(%s)) - 1) = %s",
			},
		},
		{
			name: "domainIn",
			templates: map[schema.Dialect]string{
				schema.DialectPostgres:  "split_part(%s, '@', 2) = ANY(%s)",
				schema.DialectMySQL:     "SUBSTRING_INDEX(%s, '@', -1) IN (%s)",
				schema.DialectSQLite:    "substr(%s, instr(%s, '@') + 1) IN (%s)",
				schema.DialectSQLServer: "RIGHT(%s, CHARINDEX('@', REVERSE(%s)) - 1) IN (%s)",
			},
		},
	},
	"Coordinates": {
		{
			name: "distanceWithin",
			templates: map[schema.Dialect]string{
				schema.DialectPostgres:  "ST_DWithin(%s::geography, %s::geography, %s)",
				schema.DialectMySQL:     "ST_Distance_Sphere(%s, %s) <= %s",
				schema.DialectSQLite:    "ST_Distance(%s, %s) <= %s",
				schema.DialectSQLServer: "%s.STDistance(%s) <= %s",
			},
		},
	},
}

// Lower builds SQL templates for every semantic type referenced in
// the validated IR and expands declared fact tables into their
// compiled descriptor shape.
func Lower(vir *ValidatedIR, target schema.Dialect) (*LoweredArtifact, error) {
	ir := vir.IR

	seen := map[string]bool{}
	out := &LoweredArtifact{
		OperatorTemplates: map[string]schema.SemanticTypeOperators{},
		FactTables:        map[string]schema.FactTableDescriptor{},
	}

	for _, t := range ir.Types {
		for _, f := range t.Fields {
			if f.SemanticType == "" || seen[f.SemanticType] {
				continue
			}
			seen[f.SemanticType] = true

			rich, ok := richTypeCatalogue[f.SemanticType]
			if !ok {
				continue
			}
			ops := make([]schema.OperatorTemplate, 0, len(rich))
			for _, r := range rich {
				templates := make(map[schema.Dialect]string, len(schema.AllDialects))
				for _, d := range schema.AllDialects {
					tmpl, ok := r.templates[d]
					if !ok {
						return nil, fmt.Errorf("lower: semantic type %s operator %s has no template for dialect %s", f.SemanticType, r.name, d)
					}
					templates[d] = tmpl
				}
				ops = append(ops, schema.OperatorTemplate{Operator: r.name, Templates: templates})
			}
			out.OperatorTemplates[f.SemanticType] = schema.SemanticTypeOperators{
				SemanticType: f.SemanticType,
				Operators:    ops,
			}
		}
	}

	for _, ft := range ir.FactTables {
		measures := make([]schema.Measure, 0, len(ft.Measures))
		for _, m := range ft.Measures {
			measures = append(measures, schema.Measure{Name: m.Name, SQLType: m.SQLType})
		}
		dims := make([]schema.Dimension, 0, len(ft.Dimensions))
		for _, d := range ft.Dimensions {
			dims = append(dims, schema.Dimension{Name: d.Name, JSONBPath: d.JSONBPath})
		}
		cols := make([]schema.FilterColumn, 0, len(ft.FilterColumns))
		for _, c := range ft.FilterColumns {
			cols = append(cols, schema.FilterColumn{Name: c.Name, Indexed: c.Indexed})
		}
		out.FactTables[ft.Name] = schema.FactTableDescriptor{
			Name:          ft.Name,
			Measures:      measures,
			Dimensions:    dims,
			FilterColumns: cols,
		}
	}

	return out, nil
}
