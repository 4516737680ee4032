package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campus-library/internal/infra/redis"

	"github.com/gin-gonic/gin"
)

// CacheStore is the slice of the redis client the response cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DelByPrefix(ctx context.Context, prefix string) error
	CacheKey(parts ...string) string
}

// ResponseCache serves successful GET responses from Redis for the
// configured TTL. Keys include the full request URI, so each filter and
// page combination caches separately.
type ResponseCache struct {
	store CacheStore
	ttl   time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	rc := &ResponseCache{ttl: ttl}
	if client != nil {
		rc.store = client
	}
	return rc
}

type cachingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (rc *ResponseCache) Cached(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc.store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := rc.store.CacheKey(scope, c.Request.URL.RequestURI())

		if body, err := rc.store.Get(c.Request.Context(), key); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
			c.Abort()
			return
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			slog.Warn("response cache read failed", "key", key, "error", err.Error())
		}

		writer := &cachingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() != http.StatusOK || writer.body.Len() == 0 {
			return
		}

		if err := rc.store.Set(c.Request.Context(), key, writer.body.String(), rc.ttl); err != nil {
			slog.Warn("response cache write failed", "key", key, "error", err.Error())
		}
	}
}

// Invalidate drops every cached response in the scope. Called after
// catalog writes.
func (rc *ResponseCache) Invalidate(c *gin.Context, scope string) {
	if rc.store == nil {
		return
	}
	if err := rc.store.DelByPrefix(c.Request.Context(), rc.store.CacheKey(scope)); err != nil {
		slog.Warn("response cache invalidation failed", "scope", scope, "error", err.Error())
	}
}
