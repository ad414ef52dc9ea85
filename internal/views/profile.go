package views

import (
	"context"
	"strings"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

type Profile struct {
	session  Session
	notifier notify.Surface
	life     lifecycle
}

func NewProfile(session Session, notifier notify.Surface) *Profile {
	return &Profile{session: session, notifier: notifier}
}

// Show returns the signed-in identity
func (v *Profile) Show() (models.User, bool) {
	return v.session.Current()
}

// Save validates the form and patches the identity
func (v *Profile) Save(ctx context.Context, form validation.ProfileForm) (*models.User, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	release, err := v.life.begin("profile")
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := v.session.UpdateUser(ctx, models.ProfileUpdate{
		Name:        form.Name,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return nil, report(v.notifier, err, "Please log in to update your profile")
		}
		return nil, report(v.notifier, err, "Failed to update profile")
	}
	v.notifier.ShowSuccess("Profile updated successfully!")
	return user, nil
}
