package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondViewError maps a failed view action onto an HTTP response. The
// view has already put the user-facing text on the notification surface.
func respondViewError(c *gin.Context, err error, fallback string) {
	var formErr *views.FormError
	if errors.As(err, &formErr) {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", formErr.Fields, err)
		return
	}

	message := errors.UserMessage(err, fallback)
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		attachError(c, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": message, "redirect": router.LoginPath})
	case errors.Is(err, errors.ErrBusy):
		respondError(c, http.StatusConflict, "Request already in progress", err)
	case errors.Is(err, errors.ErrNotFound):
		respondError(c, http.StatusNotFound, message, err)
	case errors.Is(err, errors.ErrInvalidInput), errors.Is(err, errors.ErrConflict):
		respondError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, errors.ErrNetwork), errors.Is(err, errors.ErrInternal):
		respondError(c, http.StatusBadGateway, message, err)
	default:
		respondError(c, http.StatusInternalServerError, message, err)
	}
}

// viewResponse is the body of every successful view request
type viewResponse struct {
	View         string              `json:"view"`
	Data         any                 `json:"data,omitempty"`
	Notification notify.Notification `json:"notification"`
}

func render(c *gin.Context, notifier notify.Surface, view string, data any) {
	c.JSON(http.StatusOK, viewResponse{
		View:         view,
		Data:         data,
		Notification: notifier.Current(),
	})
}
