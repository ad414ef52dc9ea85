package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

type ProfileHandler struct {
	profile  *views.Profile
	notifier notify.Surface
}

func NewProfileHandler(profile *views.Profile, notifier notify.Surface) *ProfileHandler {
	return &ProfileHandler{profile: profile, notifier: notifier}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.profile.Show()
	if !ok {
		respondViewError(c, errors.ErrUnauthorized, "Please log in to continue")
		return
	}
	render(c, h.notifier, router.ViewProfile, gin.H{"user": withoutToken(user)})
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var form validation.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	user, err := h.profile.Save(c.Request.Context(), form)
	if err != nil {
		respondViewError(c, err, "Failed to update profile")
		return
	}
	render(c, h.notifier, router.ViewProfile, gin.H{"user": withoutToken(*user)})
}
