// Copyright (c) 2026 gqlsql. All rights reserved.

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/taibuivan/gqlsql/internal/cache"
	"github.com/taibuivan/gqlsql/internal/platform/apperr"
	requestutil "github.com/taibuivan/gqlsql/internal/platform/request"
	"github.com/taibuivan/gqlsql/internal/platform/respond"
	"github.com/taibuivan/gqlsql/internal/platform/validate"
)

// invalidateCacheTag names one result-cache tag to drop, mirroring
// [cache.Tag]'s (TypeName, ID) shape over the wire.
type invalidateCacheTag struct {
	TypeName string `json:"typeName"`
	ID       string `json:"id"`
}

// invalidateCacheRequest names the result-cache tags to drop.
type invalidateCacheRequest struct {
	Tags []invalidateCacheTag `json:"tags"`
}

// validateInvalidateCacheRequest rejects an empty tag list and any tag
// missing a typeName/id, using the field-level [validate.Validator].
func validateInvalidateCacheRequest(body invalidateCacheRequest) error {
	v := &validate.Validator{}
	if len(body.Tags) == 0 {
		v.Custom("tags", true, "tags must be non-empty")
	}
	for i, t := range body.Tags {
		v.Required(fmt.Sprintf("tags[%d].typeName", i), t.TypeName)
		v.Required(fmt.Sprintf("tags[%d].id", i), t.ID)
	}
	return v.Err()
}

// invalidateCacheResponse reports how many entries were evicted.
type invalidateCacheResponse struct {
	EvictedCount int `json:"evictedCount"`
}

// NewCacheInvalidationHandler builds the POST /admin/cache/invalidate
// handler. Operators use it to force-evict stale result-cache entries
// by tag (spec.md §4.8 "tag invalidation") ahead of the tags' natural
// TTL expiry, e.g. after an out-of-band data migration.
func NewCacheInvalidationHandler(resultCache *cache.ResultCache) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		var body invalidateCacheRequest
		if err := requestutil.DecodeJSON(req, &body); err != nil {
			respond.Error(writer, req, apperr.ValidationError("request body is not valid JSON"))
			return
		}
		if err := validateInvalidateCacheRequest(body); err != nil {
			respond.Error(writer, req, err)
			return
		}

		tags := make([]cache.Tag, len(body.Tags))
		for i, t := range body.Tags {
			tags[i] = cache.Tag{TypeName: t.TypeName, ID: t.ID}
		}

		evicted := resultCache.Invalidate(req.Context(), tags)
		respond.OK(writer, invalidateCacheResponse{EvictedCount: evicted})
	}
}
