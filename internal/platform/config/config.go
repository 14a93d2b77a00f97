// Copyright (c) 2026 gqlsql. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/gqlsql/internal/pool"
)

// # Configuration Schema

// Config holds all runtime configuration for the gqlsql server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL), per spec.md §6 "Pool" row.
	Pool pool.Config

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// CompiledSchemaPath is the filesystem path to the compiled schema
	// artifact the engine loads at startup (spec.md §6 "Compiled
	// schema on disk").
	CompiledSchemaPath string `env:"COMPILED_SCHEMA_PATH,required"`

	// Cryptographic keys for session and identity signing
	SessionSecret  string `env:"SESSION_SECRET,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	Validator ValidatorConfig
	Cache     CacheConfig
	Compiler  CompilerConfig
	Security  SecurityConfig
}

// ValidatorConfig is the request-limit surface (spec.md §6 "Validator"
// row).
type ValidatorConfig struct {
	MaxDepth         int  `env:"VALIDATOR_MAX_DEPTH" envDefault:"12"`
	MaxComplexity    int  `env:"VALIDATOR_MAX_COMPLEXITY" envDefault:"1000"`
	EnableDepth      bool `env:"VALIDATOR_ENABLE_DEPTH" envDefault:"true"`
	EnableComplexity bool `env:"VALIDATOR_ENABLE_COMPLEXITY" envDefault:"true"`
}

// CacheConfig shapes the plan/result two-level cache (spec.md §6
// "Cache" row).
type CacheConfig struct {
	MaxEntries      int  `env:"CACHE_MAX_ENTRIES" envDefault:"10000"`
	TTLSeconds      int  `env:"CACHE_TTL_SECONDS" envDefault:"60"`
	CacheListQueries bool `env:"CACHE_LIST_QUERIES" envDefault:"false"`
}

// DatabaseTarget names the SQL dialect the compiler lowers operator
// templates for (spec.md §6 "Compiler" row).
type DatabaseTarget string

const (
	TargetPostgres  DatabaseTarget = "postgresql"
	TargetMySQL     DatabaseTarget = "mysql"
	TargetSQLite    DatabaseTarget = "sqlite"
	TargetSQLServer DatabaseTarget = "sqlserver"
)

// CompilerConfig controls build-time schema lowering.
type CompilerConfig struct {
	DatabaseTarget DatabaseTarget `env:"COMPILER_DATABASE_TARGET" envDefault:"postgresql"`
	OptimizeSQL    bool           `env:"COMPILER_OPTIMIZE_SQL" envDefault:"true"`
	StrictMode     bool           `env:"COMPILER_STRICT_MODE" envDefault:"true"`
}

// SecurityConfig is the adapter-layer auth surface the core consumes
// read-only (spec.md §6 "Security" row).
type SecurityConfig struct {
	CallbackBaseURL       string `env:"SECURITY_CALLBACK_BASE_URL"`
	RateLimitPerMinute    int    `env:"SECURITY_RATE_LIMIT_PER_MINUTE" envDefault:"600"`
	SanitizeErrorMessages bool   `env:"SECURITY_SANITIZE_ERRORS" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
