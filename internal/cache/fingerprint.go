// Copyright (c) 2026 gqlsql. All rights reserved.

// Package cache implements the two-level plan/result cache and its
// tag-based mutation invalidation (spec.md §4.8). The plan cache and
// result cache are bounded LRUs; the result cache additionally
// carries a TTL and tag index, and concurrent identical reads on a
// miss are coalesced through golang.org/x/sync/singleflight.
package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a stable hash of a parsed operation's shape,
// excluding variable values, used as the cache key base.
type Fingerprint string

// FingerprintOperation hashes the operation name, the full recursive
// selection shape (every nested field and alias, not just the root
// field's immediate children), and the canonicalized non-variable
// literal argument structure (inline filter/orderBy/limit/page
// literals, with any $variable reference canonicalized away since its
// value belongs in VariableHash, not here). Two requests are
// structurally identical — and so may safely share a plan-cache SQL
// template and a result-cache entry — only when all three match;
// differing only in variable values still produces the same
// Fingerprint, which is the point of mixing in VariableHash
// separately.
func FingerprintOperation(operationName, selectionShape string, literalArgsJSON []byte) Fingerprint {
	h := xxhash.New()
	_, _ = h.WriteString(operationName)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(selectionShape)
	_, _ = h.WriteString("|")
	_, _ = h.Write(literalArgsJSON)
	return Fingerprint(strconv.FormatUint(h.Sum64(), 16))
}

// VariableHash hashes a normalized representation of variable values
// (the caller is responsible for canonicalizing key order before
// calling, e.g. by marshaling through encoding/json which already
// sorts map keys).
func VariableHash(canonicalVariablesJSON []byte) string {
	return strconv.FormatUint(xxhash.Sum64(canonicalVariablesJSON), 16)
}

// ResultKey combines a Fingerprint and a VariableHash into the result
// cache's composite key.
func ResultKey(fp Fingerprint, varHash string) string {
	return string(fp) + ":" + varHash
}
