package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
)

// ResponseMeta gives handlers a metadata map that ends up in the envelope meta block.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{"started_at": time.Now().UTC()})
		c.Next()
	}
}

// SetCacheHit notes whether reference data was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta(c)[cacheHitKey] = hit
}

// Meta returns the response metadata without the internal start marker.
func Meta(c *gin.Context) map[string]interface{} {
	stored := meta(c)
	out := make(map[string]interface{}, len(stored)+1)
	for k, v := range stored {
		if k == "started_at" {
			if started, ok := v.(time.Time); ok {
				out["processing_time_ms"] = time.Since(started).Milliseconds()
			}
			continue
		}
		out[k] = v
	}
	return out
}

func meta(c *gin.Context) map[string]interface{} {
	if value, exists := c.Get(responseMetaKey); exists {
		if typed, ok := value.(map[string]interface{}); ok {
			return typed
		}
	}
	created := map[string]interface{}{}
	c.Set(responseMetaKey, created)
	return created
}
