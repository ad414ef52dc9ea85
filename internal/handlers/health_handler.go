package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	sessionReady <-chan struct{}
}

// NewHealthHandler reports unavailable until session restoration is done
func NewHealthHandler(sessionReady <-chan struct{}) *HealthHandler {
	return &HealthHandler{sessionReady: sessionReady}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	select {
	case <-h.sessionReady:
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "session restoration in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
