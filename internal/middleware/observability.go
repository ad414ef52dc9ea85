package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
	"go.uber.org/zap"
)

// sensitiveQueryParams never reach the logs
var sensitiveQueryParams = map[string]bool{
	"token": true, "password": true, "newpassword": true, "secret": true,
	"key": true, "auth": true,
}

// ObservabilityMiddleware records metrics and a log line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if requestID := c.Writer.Header().Get("X-Request-ID"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if status >= 400 {
			if query := c.Request.URL.Query(); len(query) > 0 {
				sanitized := make(map[string]string, len(query))
				for k, v := range query {
					if !sensitiveQueryParams[strings.ToLower(k)] && len(v) > 0 {
						sanitized[k] = v[0]
					}
				}
				if len(sanitized) > 0 {
					fields = append(fields, zap.Any("query_params", sanitized))
				}
			}

			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.String()))
			}
		}

		logger.LogHTTPRequest(method, c.Request.URL.Path, status, duration, fields...)
	}
}
