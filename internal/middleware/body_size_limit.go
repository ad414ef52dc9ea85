package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxUploadBytes bounds material uploads and post media forwarded to the API
const MaxUploadBytes int64 = 64 << 20

// BodySizeLimitMiddleware limits the size of request bodies
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body is too large"})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}
