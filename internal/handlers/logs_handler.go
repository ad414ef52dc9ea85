package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// LogsHandler forwards log lines from the browser into the client log
type LogsHandler struct{}

type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

type LogBatchRequest struct {
	Logs []LogEntry `json:"logs" binding:"required,max=100,dive"`
}

func NewLogsHandler() *LogsHandler {
	return &LogsHandler{}
}

func (h *LogsHandler) ReceiveFrontendLogs(c *gin.Context) {
	var req LogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if len(req.Logs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No logs provided"})
		return
	}

	for _, entry := range req.Logs {
		fields := []zap.Field{
			zap.String("service", "browser"),
			zap.String("browser_ts", entry.Timestamp),
		}
		if entry.Context != nil {
			fields = append(fields, zap.Any("context", entry.Context))
		}

		switch strings.ToLower(entry.Level) {
		case "error":
			logger.Error(entry.Message, fields...)
		case "warn", "warning":
			logger.Warn(entry.Message, fields...)
		case "debug":
			logger.Debug(entry.Message, fields...)
		default:
			logger.Info(entry.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}
