// Copyright (c) 2026 gqlsql. All rights reserved.

package pipeline

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/taibuivan/gqlsql/internal/cache"
)

// Classification is the normalized outcome of a mutation's status
// string (spec.md §4.10).
type Classification int

const (
	ClassSuccess Classification = iota
	ClassNoop
	ClassError
)

// errorStatusPrefixes are the status-string prefixes that classify a
// mutation outcome as an error variant (spec.md §4.10). A prefix match
// only decides the classification; the HTTP status it carries is then
// derived separately by errorHTTPStatus; see its comment for why the
// two aren't the same lookup.
var errorStatusPrefixes = []string{
	"unauthorized:", "forbidden:", "not_found:", "conflict:", "failed:", "timeout:",
}

func hasErrorPrefix(lower string) bool {
	for _, p := range errorStatusPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// errorHTTPStatus maps an error-classified status's full text to an
// HTTP status by substring rather than by its matched prefix alone.
// "failed:" is a catch-all prefix covering many distinct failure
// reasons, so it does not map to one fixed code the way
// "not_found:"/"unauthorized:"/etc. do: a "failed:" status whose
// reason text doesn't otherwise look like a validation error falls
// back to 500, not 422.
func errorHTTPStatus(lower string) int {
	switch {
	case strings.Contains(lower, "not_found"):
		return http.StatusNotFound
	case strings.Contains(lower, "unauthorized"):
		return http.StatusUnauthorized
	case strings.Contains(lower, "forbidden"):
		return http.StatusForbidden
	case strings.Contains(lower, "conflict"):
		return http.StatusConflict
	case strings.Contains(lower, "validation"), strings.Contains(lower, "invalid"):
		return http.StatusUnprocessableEntity
	case strings.Contains(lower, "timeout"):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

var successKeywords = map[string]bool{
	"success": true, "created": true, "updated": true, "deleted": true,
	"completed": true, "ok": true, "new": true,
}

// RawEnvelope is the mutation response shape as it arrives from the
// stored procedure, prior to normalization. Either only Entity is set
// (a simple response) or Status is non-empty (a full response).
type RawEnvelope struct {
	Status        string          `json:"status,omitempty"`
	Message       string          `json:"message,omitempty"`
	Entity        json.RawMessage `json:"entity,omitempty"`
	UpdatedFields []string        `json:"updated_fields,omitempty"`
	Cascade       *CascadeInfo    `json:"cascade,omitempty"`
}

// CascadeInfo lists the rows a mutation's effects invalidate.
type CascadeInfo struct {
	Invalidations []CascadeEntry `json:"invalidations"`
}

// CascadeEntry is one invalidated (TypeName, id) pair.
type CascadeEntry struct {
	TypeName string `json:"type_name"`
	ID       string `json:"id"`
}

// Tags converts cascade entries into cache.Tag values.
func (c *CascadeInfo) Tags() []cache.Tag {
	if c == nil {
		return nil
	}
	tags := make([]cache.Tag, 0, len(c.Invalidations))
	for _, e := range c.Invalidations {
		tags = append(tags, cache.Tag{TypeName: e.TypeName, ID: e.ID})
	}
	return tags
}

// NormalizedResult is the tagged-union shape a GraphQL client
// receives: a `__typename` naming the success or error type, plus the
// entity/message fields appropriate to the classification.
type NormalizedResult struct {
	Typename      string          `json:"__typename"`
	Classification Classification `json:"-"`
	HTTPStatus    int             `json:"-"`
	Message       string          `json:"message,omitempty"`
	Entity        json.RawMessage `json:"entity,omitempty"`
	UpdatedFields []string        `json:"updatedFields,omitempty"`
}

// Normalizer classifies a mutation's status string and reshapes its
// envelope into the compiled schema's configured success/error type
// names (spec.md §4.10).
type Normalizer struct {
	SuccessType  string
	ErrorType    string
	CamelCase    bool
}

// NewNormalizer builds a Normalizer for one mutation descriptor's
// configured type names.
func NewNormalizer(successType, errorType string, camelCase bool) *Normalizer {
	return &Normalizer{SuccessType: successType, ErrorType: errorType, CamelCase: camelCase}
}

// Classify applies the fixed lexicon and prefix rules to a status
// string. An error-prefixed status always classifies as ClassError,
// even when its reason text doesn't resolve to one of the specific
// HTTP statuses below — it then falls back to 500, not to success.
func Classify(status string) (Classification, int) {
	lower := strings.ToLower(strings.TrimSpace(status))

	if hasErrorPrefix(lower) {
		return ClassError, errorHTTPStatus(lower)
	}
	if strings.HasPrefix(lower, "noop:") {
		return ClassNoop, http.StatusOK
	}
	if successKeywords[lower] {
		return ClassSuccess, http.StatusOK
	}
	// An unrecognized status with no error or noop prefix is treated
	// as success: stored procedures that only ever report affirmative
	// outcomes never have to spell out "success" explicitly.
	return ClassSuccess, http.StatusOK
}

// Normalize turns a RawEnvelope (or a bare entity, for a simple
// response) into the GraphQL tagged union shape.
func (n *Normalizer) Normalize(envelope *RawEnvelope) *NormalizedResult {
	if envelope.Status == "" {
		return &NormalizedResult{
			Typename:       n.SuccessType,
			Classification: ClassSuccess,
			HTTPStatus:     http.StatusOK,
			Entity:         envelope.Entity,
		}
	}

	class, httpStatus := Classify(envelope.Status)

	typename := n.SuccessType
	if class == ClassError {
		typename = n.ErrorType
	}

	message := envelope.Message

	fields := envelope.UpdatedFields
	if n.CamelCase {
		fields = camelCaseAll(fields)
	}

	return &NormalizedResult{
		Typename:       typename,
		Classification: class,
		HTTPStatus:     httpStatus,
		Message:        message,
		Entity:         envelope.Entity,
		UpdatedFields:  fields,
	}
}

func camelCaseAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = camelCase(n)
	}
	return out
}

// camelCase converts a snake_case identifier to camelCase.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		r := []rune(parts[i])
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, "")
}
