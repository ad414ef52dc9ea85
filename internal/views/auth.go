package views

import (
	"context"
	"strings"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

type Login struct {
	session  Session
	notifier notify.Surface
	navigate Navigator
	life     lifecycle
}

func NewLogin(session Session, notifier notify.Surface, navigate Navigator) *Login {
	return &Login{session: session, notifier: notifier, navigate: navigate}
}

func (v *Login) Submit(ctx context.Context, form validation.LoginForm) (*models.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	release, err := v.life.begin("login")
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := v.session.Login(ctx, form.Email, form.Password)
	if err != nil {
		v.notifier.ShowError("Failed to login: " + errors.UserMessage(err, "Invalid email or password"))
		return nil, err
	}
	v.navigate.to(PathHome)
	return user, nil
}

type Signup struct {
	session  Session
	notifier notify.Surface
	navigate Navigator
	life     lifecycle
}

func NewSignup(session Session, notifier notify.Surface, navigate Navigator) *Signup {
	return &Signup{session: session, notifier: notifier, navigate: navigate}
}

// Submit registers the account. It never signs the user in.
func (v *Signup) Submit(ctx context.Context, form validation.SignupForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)
	if err := validateForm(form); err != nil {
		return err
	}

	release, err := v.life.begin("signup")
	if err != nil {
		return err
	}
	defer release()

	_, err = v.session.Signup(ctx, models.SignupRequest{
		Name:        form.Name,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Password:    form.Password,
	})
	if err != nil {
		return report(v.notifier, err, "Failed to create account. Please try again.")
	}
	v.notifier.ShowSuccess("Successfully signed up! Please login.")
	v.navigate.to(PathLogin)
	return nil
}

type ForgotPassword struct {
	session  Session
	notifier notify.Surface
	navigate Navigator
	life     lifecycle
}

func NewForgotPassword(session Session, notifier notify.Surface, navigate Navigator) *ForgotPassword {
	return &ForgotPassword{session: session, notifier: notifier, navigate: navigate}
}

func (v *ForgotPassword) Submit(ctx context.Context, form validation.ResetPasswordForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return err
	}

	release, err := v.life.begin("reset-password")
	if err != nil {
		return err
	}
	defer release()

	if _, err := v.session.ResetPassword(ctx, form.Email, form.NewPassword); err != nil {
		v.notifier.ShowError("Failed to reset password. Please try again.")
		return err
	}
	v.notifier.ShowSuccess("Password reset successful! Please login with your new password.")
	v.navigate.to(PathLogin)
	return nil
}

// Shortcut is a dashboard link
type Shortcut struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Dashboard is the signed-in landing page
type Dashboard struct {
	Greeting  string     `json:"greeting"`
	Shortcuts []Shortcut `json:"shortcuts"`
}

// NewDashboard renders the landing page for user
func NewDashboard(user models.User) Dashboard {
	greeting := "Welcome to InkSpire"
	if user.Name != "" {
		greeting += ", " + user.Name
	}
	return Dashboard{
		Greeting: greeting,
		Shortcuts: []Shortcut{
			{Title: "Start Your Journey", Path: "/learning-plans"},
			{Title: "My plans", Path: PathPlans},
			{Title: "Create a plan", Path: "/create-plan"},
			{Title: "Reminders", Path: "/reminders"},
			{Title: "Share a post", Path: "/newpost"},
			{Title: "Public feed", Path: "/feed"},
		},
	}
}
