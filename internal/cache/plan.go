// Copyright (c) 2026 gqlsql. All rights reserved.

package cache

// Plan is the cached artifact of the planning + SQL composition
// stages for one operation shape: the SQL template (placeholders
// only, never interpolated values) and the ordered parameter plan
// the executor fills in per request.
type Plan struct {
	SQL           string
	ParamOrder    []string
	IsAggregate   bool
	ProjectedType string
}

// PlanCache bounds how many distinct operation shapes the engine
// keeps compiled SQL for. It never expires entries on a timer: plan
// shape is a function of the operation's structure and the compiled
// schema, not of mutable data, so an entry is valid for the lifetime
// of the compiled schema that produced it. Callers must call
// Clear when a new schema is hot-swapped in.
type PlanCache struct {
	store *lru
}

// NewPlanCache builds a PlanCache holding at most capacity entries.
func NewPlanCache(capacity int) *PlanCache {
	return &PlanCache{store: newLRU(capacity, nil)}
}

// Get returns the cached Plan for fp, if present.
func (c *PlanCache) Get(fp Fingerprint) (Plan, bool) {
	v, ok := c.store.get(string(fp))
	if !ok {
		return Plan{}, false
	}
	return v.(Plan), true
}

// Put records the Plan compiled for fp, evicting the
// least-recently-used entry if the cache is full.
func (c *PlanCache) Put(fp Fingerprint, p Plan) {
	c.store.set(string(fp), p)
}

// Len reports the number of cached plans.
func (c *PlanCache) Len() int {
	return c.store.len()
}

// Clear drops every cached plan, for use after a schema reload.
func (c *PlanCache) Clear() {
	c.store = newLRU(c.store.capacity, nil)
}
