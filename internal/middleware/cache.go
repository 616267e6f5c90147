package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emstack/ems-api/internal/service"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// CacheSummary serves GET responses from the cache keyed by request URI and
// stores fresh 200 responses on the way out.
func CacheSummary(cacheSvc *service.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cacheSvc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "summary:" + c.Request.URL.RequestURI()
		var cached json.RawMessage
		if hit, _ := cacheSvc.Get(c.Request.Context(), key, &cached); hit {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if writer.Status() == http.StatusOK && writer.buf.Len() > 0 {
			_ = cacheSvc.Set(c.Request.Context(), key, json.RawMessage(writer.buf.Bytes()), 0)
		}
	}
}

// InvalidateSummaries drops cached summary responses after a successful
// mutating request, so summary endpoints never serve stale aggregates.
func InvalidateSummaries(cacheSvc *service.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		_ = cacheSvc.Invalidate(c.Request.Context(), "summary:*")
	}
}
