package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// SameOriginMiddleware rejects state-changing requests sent by pages the
// local front end does not serve. The session token lives in this process,
// so any site open in the browser could otherwise act as the user.
func SameOriginMiddleware(allowedOrigins ...string) gin.HandlerFunc {
	allowed := OriginAllowed(allowedOrigins...)

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			if ref, err := url.Parse(c.GetHeader("Referer")); err == nil && ref.Host != "" {
				origin = ref.Scheme + "://" + ref.Host
			}
		}

		if origin == "" {
			// Non-browser clients (curl, the CLI) send neither header
			c.Next()
			return
		}

		if !allowed(origin, c.Request.Host) {
			logger.Warn("Cross-origin request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("origin", origin),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "Cross-origin request rejected"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OriginAllowed returns a check accepting the listed origins and any
// origin naming the host the request was sent to
func OriginAllowed(allowedOrigins ...string) func(origin, host string) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = true
	}
	return func(origin, host string) bool {
		return allowed[strings.TrimRight(strings.ToLower(origin), "/")] || sameHost(origin, host)
	}
}

func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
