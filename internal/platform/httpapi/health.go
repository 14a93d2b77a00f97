// Copyright (c) 2026 gqlsql. All rights reserved.

/*
Package httpapi wires the GraphQL-over-HTTP endpoint and Kubernetes-style
health probes around a [pipeline.Engine] (spec.md §6 "GraphQL wire").

Architecture:

  - Liveness: Returns 200 OK as long as the process is running.
  - Readiness: Performs shallow pings of Postgres and Redis to verify connectivity.
  - GraphQL: Decodes the request envelope, builds a security context from the
    bearer token, and delegates to the engine.
*/
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/gqlsql/internal/platform/constants"
	"github.com/taibuivan/gqlsql/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the
// readiness probe.
type HealthDependencies struct {
	// CheckDatabase performs a shallow ping of the pooled connection.
	CheckDatabase func() error

	// CheckCache performs a shallow ping of the Redis client.
	CheckCache func() error
}

// Liveness handles GET /healthz. It confirms that the HTTP server is alive
// and accepting connections.
func Liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// Readiness builds the GET /readyz handler from deps, verifying that every
// configured dependency check succeeds.
func Readiness(deps HealthDependencies, log *slog.Logger) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		type checkResult struct {
			Name  string `json:"name"`
			IsOK  bool   `json:"ok"`
			Error string `json:"error,omitempty"`
		}

		results := make([]checkResult, 0, 2)
		ready := true

		if deps.CheckDatabase != nil {
			result := checkResult{Name: "postgres", IsOK: true}
			if err := deps.CheckDatabase(); err != nil {
				result.IsOK = false
				result.Error = err.Error()
				ready = false
				log.Error("readiness_check_failed", slog.String("dependency", "postgres"), slog.Any("error", err))
			}
			results = append(results, result)
		}

		if deps.CheckCache != nil {
			result := checkResult{Name: "redis", IsOK: true}
			if err := deps.CheckCache(); err != nil {
				result.IsOK = false
				result.Error = err.Error()
				ready = false
				log.Error("readiness_check_failed", slog.String("dependency", "redis"), slog.Any("error", err))
			}
			results = append(results, result)
		}

		status := "ready"
		if !ready {
			status = "degraded"
			writer.Header().Set("Content-Type", "application/json; charset=utf-8")
			writer.WriteHeader(http.StatusServiceUnavailable)
		}

		respond.OK(writer, map[string]any{
			constants.FieldStatus: status,
			constants.FieldChecks: results,
		})
	}
}
