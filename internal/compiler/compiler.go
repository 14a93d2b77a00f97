// Copyright (c) 2026 gqlsql. All rights reserved.

package compiler

import (
	"github.com/taibuivan/gqlsql/internal/schema"
)

// Config configures a Compiler.
type Config struct {
	// DatabaseTarget selects which dialect's SQL templates Lower
	// generates.
	DatabaseTarget schema.Dialect

	// StrictMode promotes warnings to hard validation errors.
	StrictMode bool

	// OptimizeSQL reserves room for a future template-optimization
	// pass; it does not change correctness today.
	OptimizeSQL bool
}

// DefaultConfig is PostgreSQL, non-strict, optimized.
func DefaultConfig() Config {
	return Config{DatabaseTarget: schema.DialectPostgres, OptimizeSQL: true}
}

// Compiler runs the four-stage pipeline over a JSON schema document.
type Compiler struct {
	config Config
}

// New returns a Compiler with the default configuration.
func New() *Compiler {
	return WithConfig(DefaultConfig())
}

// WithConfig returns a Compiler with explicit configuration.
func WithConfig(cfg Config) *Compiler {
	return &Compiler{config: cfg}
}

// Config returns the compiler's configuration.
func (c *Compiler) Config() Config {
	return c.config
}

// Compile runs parse → validate → lower → codegen and returns the
// assembled artifact, or the first stage's error. Codegen's output is
// additionally checked against schema.Validate's cross-cutting
// invariants before being returned.
func (c *Compiler) Compile(schemaJSON []byte) (*schema.CompiledSchema, error) {
	ir, err := Parse(schemaJSON)
	if err != nil {
		return nil, err
	}

	vir, errs := Validate(ir, c.config.StrictMode)
	if errs.HasErrors() {
		return nil, errs
	}

	lowered, err := Lower(vir, c.config.DatabaseTarget)
	if err != nil {
		return nil, err
	}

	compiled, err := Codegen(vir, lowered)
	if err != nil {
		return nil, err
	}

	if issues := schema.Validate(compiled); len(issues) > 0 {
		verrs := make(ValidationErrors, 0, len(issues))
		for _, iss := range issues {
			verrs = append(verrs, &ValidationError{Kind: "post-codegen-invariant", Path: iss.Path, Message: iss.Message})
		}
		return nil, verrs
	}

	return compiled, nil
}
