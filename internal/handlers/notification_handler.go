package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/notify"
)

// NotificationHandler exposes the single notification slot to pollers
// that do not hold a websocket open
type NotificationHandler struct {
	notifier notify.Surface
}

func NewNotificationHandler(notifier notify.Surface) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Current handles GET /notification
func (h *NotificationHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifier.Current())
}

// Dismiss handles DELETE /notification
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.notifier.Clear()
	c.Status(http.StatusNoContent)
}
