// Copyright (c) 2026 gqlsql. All rights reserved.

/*
Compiler is the build-time CLI that lowers a GraphQL schema document into
the compiled artifact the request-time server loads (spec.md §4.1-§4.4,
§6).

Usage:

	go run cmd/compiler/main.go -in schema.json -out compiled.json [flags]

The flags are:

	-in      path to the source schema document (required)
	-out     path to write the compiled artifact (default: stdout)
	-target  database_target: postgresql, mysql, sqlite, sqlserver (default postgresql)
	-strict  promote warnings to hard validation errors (default true)
	-optimize set compiler.Config.OptimizeSQL; no compiler stage reads it (default true)

Exit codes: 0 success, 1 error (I/O, malformed input), 2 validation failed.

No business logic lives here. This file is strictly for orchestration and
wiring.
*/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/taibuivan/gqlsql/internal/compiler"
	"github.com/taibuivan/gqlsql/internal/schema"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	var (
		inPath   string
		outPath  string
		target   string
		strict   bool
		optimize bool
	)
	flag.StringVar(&inPath, "in", "", "path to the source schema document")
	flag.StringVar(&outPath, "out", "", "path to write the compiled artifact (default: stdout)")
	flag.StringVar(&target, "target", string(schema.DialectPostgres), "database_target: postgresql, mysql, sqlite, sqlserver")
	flag.BoolVar(&strict, "strict", true, "promote warnings to hard validation errors")
	flag.BoolVar(&optimize, "optimize", true, "set compiler.Config.OptimizeSQL (read by no compiler stage)")
	flag.Parse()

	if inPath == "" {
		log.Error("missing_required_flag", slog.String("flag", "-in"))
		return 1
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		log.Error("read_schema_failed", slog.String("path", inPath), slog.Any("error", err))
		return 1
	}

	cfg := compiler.Config{
		DatabaseTarget: schema.Dialect(target),
		StrictMode:     strict,
		OptimizeSQL:    optimize,
	}
	compiled, err := compiler.WithConfig(cfg).Compile(raw)
	if err != nil {
		switch verrs := err.(type) {
		case compiler.ValidationErrors:
			for _, v := range verrs {
				log.Error("schema_validation_failed", slog.String("kind", v.Kind), slog.String("path", v.Path), slog.String("message", v.Message))
			}
			return 2
		case *compiler.ValidationError:
			log.Error("schema_validation_failed", slog.String("kind", verrs.Kind), slog.String("path", verrs.Path), slog.String("message", verrs.Message))
			if verrs.Kind == "parse" {
				return 1
			}
			return 2
		default:
			log.Error("compile_failed", slog.Any("error", err))
			return 1
		}
	}

	out, err := schema.MarshalIndent(compiled)
	if err != nil {
		log.Error("encode_artifact_failed", slog.Any("error", err))
		return 1
	}

	if outPath == "" {
		fmt.Println(string(out))
		return 0
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Error("write_artifact_failed", slog.String("path", outPath), slog.Any("error", err))
		return 1
	}

	log.Info("schema_compiled", slog.String("out", outPath), slog.String("target", target))
	return 0
}
