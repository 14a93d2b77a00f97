// Copyright (c) 2026 gqlsql. All rights reserved.

package where

import "strconv"

// Dialect selects which SQL family the composer targets. The
// compiled schema's target dialect (spec.md §6, compiler.database_target)
// drives this choice; operator templates in the compiled artifact are
// keyed by dialect, and this package's built-in templates for the
// closed, non-rich-type operator set follow the same keying.
type Dialect string

const (
	Postgres  Dialect = "postgresql"
	MySQL     Dialect = "mysql"
	SQLite    Dialect = "sqlite"
	SQLServer Dialect = "sqlserver"
)

// AllDialects is the fixed set every base operator template in this
// package must cover, mirroring schema.AllDialects.
var AllDialects = []Dialect{Postgres, MySQL, SQLite, SQLServer}

// Placeholder renders the nth (1-based) bound parameter placeholder
// for the dialect.
func (d Dialect) Placeholder(n int) string {
	switch d {
	case MySQL, SQLite:
		return "?"
	case SQLServer:
		return "@p" + strconv.Itoa(n)
	default:
		return "$" + strconv.Itoa(n)
	}
}
