// Copyright (c) 2026 gqlsql. All rights reserved.

package sec

import (
	"strings"
	"time"
)

// SecurityContext is the per-request identity and authorization
// envelope threaded through the pipeline (spec.md §3 "Security
// context"). It is built once per request from the validated JWT and
// is immutable afterward; background actions spawned from the
// request receive a copy (Clone), never the original.
type SecurityContext struct {
	UserID      string
	Roles       []UserRole
	Scopes      []string
	TenantID    string
	Attributes  map[string]string
	RequestID   string
	IP          string
	TokenExpiry time.Time
	Issuer      string
}

// Clone returns an independent copy safe to hand to a spawned
// background action.
func (c SecurityContext) Clone() SecurityContext {
	clone := c
	clone.Roles = append([]UserRole(nil), c.Roles...)
	clone.Scopes = append([]string(nil), c.Scopes...)
	if c.Attributes != nil {
		clone.Attributes = make(map[string]string, len(c.Attributes))
		for k, v := range c.Attributes {
			clone.Attributes[k] = v
		}
	}
	return clone
}

// HasRole reports whether any of the context's roles meets or exceeds
// target in the role hierarchy.
func (c SecurityContext) HasRole(target UserRole) bool {
	for _, r := range c.Roles {
		if r.AtLeast(target) {
			return true
		}
	}
	return false
}

// SatisfiesScope reports whether required is covered by any scope the
// context holds, via literal equality or the glob rules: `*` matches
// any remaining segment, `prefix:*` matches any suffix after
// `prefix:` (spec.md §4.9).
func (c SecurityContext) SatisfiesScope(required string) bool {
	if required == "" {
		return true
	}
	for _, held := range c.Scopes {
		if ScopeMatches(held, required) {
			return true
		}
	}
	return false
}

// ScopeMatches reports whether held grants required. held may be a
// literal scope, the wildcard `*` (grants anything), or a
// `prefix:*` pattern (grants any scope with that literal prefix,
// including the bare prefix itself).
func ScopeMatches(held, required string) bool {
	if held == required {
		return true
	}
	if held == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(held, ":*"); ok {
		return required == prefix || strings.HasPrefix(required, prefix+":")
	}
	return false
}
