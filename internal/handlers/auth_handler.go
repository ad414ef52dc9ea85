package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// SessionControl is the part of the session store the auth endpoints need
type SessionControl interface {
	Current() (models.User, bool)
	Logout(ctx context.Context) error
}

// AuthHandler serves the login, signup and password reset views
type AuthHandler struct {
	login    *views.Login
	signup   *views.Signup
	reset    *views.ForgotPassword
	session  SessionControl
	notifier notify.Surface
}

func NewAuthHandler(
	login *views.Login,
	signup *views.Signup,
	reset *views.ForgotPassword,
	session SessionControl,
	notifier notify.Surface,
) *AuthHandler {
	return &AuthHandler{
		login:    login,
		signup:   signup,
		reset:    reset,
		session:  session,
		notifier: notifier,
	}
}

// Form handles GET /login, /signup and /forgot-password
func (h *AuthHandler) Form(view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, h.notifier, view, nil)
	}
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form validation.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	user, err := h.login.Submit(c.Request.Context(), form)
	if err != nil {
		respondViewError(c, err, "Login failed")
		return
	}

	render(c, h.notifier, router.ViewLogin, gin.H{"user": withoutToken(*user), "redirect": views.PathHome})
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var form validation.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.signup.Submit(c.Request.Context(), form); err != nil {
		respondViewError(c, err, "Failed to create account. Please try again.")
		return
	}

	render(c, h.notifier, router.ViewSignup, gin.H{"redirect": views.PathLogin})
}

// ResetPassword handles POST /forgot-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form validation.ResetPasswordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.reset.Submit(c.Request.Context(), form); err != nil {
		respondViewError(c, err, "Failed to reset password. Please try again.")
		return
	}

	render(c, h.notifier, router.ViewForgotPassword, gin.H{"redirect": views.PathLogin})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		logger.Error("Logout could not clear storage", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"redirect": views.PathLogin})
}

// Session handles GET /session
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok := h.session.Current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": withoutToken(user)})
}

// withoutToken keeps the bearer token inside this process
func withoutToken(u models.User) models.User {
	u.Token = ""
	return u
}
