package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "sizing-eval/internal/transport/http/response"
)

// MaxBodyBytes rejects bodies over n: up front when Content-Length says so,
// otherwise when the handler's read hits the limit.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > n {
			resp.AbortWith(c, http.StatusRequestEntityTooLarge, resp.CodeBodyTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
