// Copyright (c) 2026 gqlsql. All rights reserved.

package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/gqlsql/internal/pipeline"
	"github.com/taibuivan/gqlsql/internal/platform/ctxutil"
	"github.com/taibuivan/gqlsql/internal/platform/middleware"
	requestutil "github.com/taibuivan/gqlsql/internal/platform/request"
	"github.com/taibuivan/gqlsql/internal/platform/respond"
	"github.com/taibuivan/gqlsql/internal/platform/sec"
)

// tokenVerifier is the subset of [sec.TokenService] the GraphQL handler
// needs, kept narrow so tests can supply a fake.
type tokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// NewGraphQLHandler builds the POST /graphql handler: decode the
// GraphQL-over-HTTP envelope (spec.md §6 "GraphQL wire"), derive the
// caller's security context from an optional bearer token, and delegate to
// engine.Execute.
func NewGraphQLHandler(engine *pipeline.Engine, verifier tokenVerifier, log *slog.Logger) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var req pipeline.Request
		if err := requestutil.DecodeJSON(request, &req); err != nil {
			respond.JSON(writer, http.StatusBadRequest, pipeline.Response{
				Errors: []pipeline.ResponseError{{Message: "request body is not valid JSON"}},
			})
			return
		}

		secCtx := securityContextFor(request, verifier)

		resp := engine.Execute(request.Context(), req, secCtx)
		respond.JSON(writer, http.StatusOK, resp)
	}
}

// securityContextFor derives a [sec.SecurityContext] from the request's
// bearer token, if any. An absent or invalid token yields an anonymous
// context rather than rejecting the request outright — authorization is
// enforced downstream, per field, via scope checks (spec.md §4.9).
func securityContextFor(request *http.Request, verifier tokenVerifier) sec.SecurityContext {
	requestID := ctxutil.GetRequestID(request.Context())
	ip := middleware.RealIP(request)

	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return sec.SecurityContext{RequestID: requestID, IP: ip}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return sec.SecurityContext{RequestID: requestID, IP: ip}
	}

	claims, err := verifier.VerifyToken(parts[1])
	if err != nil {
		return sec.SecurityContext{RequestID: requestID, IP: ip}
	}

	return claims.ToSecurityContext(ip, requestID)
}
