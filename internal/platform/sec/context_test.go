// Copyright (c) 2026 gqlsql. All rights reserved.

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeMatchesLiteral(t *testing.T) {
	assert.True(t, ScopeMatches("posts:read", "posts:read"))
	assert.False(t, ScopeMatches("posts:read", "posts:write"))
}

func TestScopeMatchesWildcard(t *testing.T) {
	assert.True(t, ScopeMatches("*", "posts:write"))
}

func TestScopeMatchesPrefixWildcard(t *testing.T) {
	assert.True(t, ScopeMatches("posts:*", "posts:write"))
	assert.True(t, ScopeMatches("posts:*", "posts"))
	assert.False(t, ScopeMatches("posts:*", "comments:write"))
}

func TestSecurityContextSatisfiesScope(t *testing.T) {
	ctx := SecurityContext{Scopes: []string{"posts:*", "account:read"}}
	assert.True(t, ctx.SatisfiesScope("posts:write"))
	assert.True(t, ctx.SatisfiesScope("account:read"))
	assert.False(t, ctx.SatisfiesScope("billing:read"))
	assert.True(t, ctx.SatisfiesScope(""), "empty requirement is always satisfied")
}

func TestSecurityContextHasRole(t *testing.T) {
	ctx := SecurityContext{Roles: []UserRole{RoleEditor}}
	assert.True(t, ctx.HasRole(RoleViewer))
	assert.True(t, ctx.HasRole(RoleEditor))
	assert.False(t, ctx.HasRole(RoleAdmin))
}

func TestSecurityContextCloneIsIndependent(t *testing.T) {
	original := SecurityContext{
		Scopes:     []string{"posts:read"},
		Attributes: map[string]string{"team": "editorial"},
	}
	clone := original.Clone()
	clone.Scopes[0] = "mutated"
	clone.Attributes["team"] = "mutated"

	assert.Equal(t, "posts:read", original.Scopes[0])
	assert.Equal(t, "editorial", original.Attributes["team"])
}
