package validation

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one user-facing form error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SignupForm struct {
	Name            string `json:"name" validate:"inkname"`
	Email           string `json:"email" validate:"inkemail"`
	PhoneNumber     string `json:"phoneNumber" validate:"inkphone"`
	Password        string `json:"password" validate:"inkpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"inkemail"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordForm struct {
	Email           string `json:"email" validate:"inkemail"`
	NewPassword     string `json:"newPassword" validate:"inkpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

type ProfileForm struct {
	Name        string `json:"name" validate:"inkname"`
	PhoneNumber string `json:"phoneNumber" validate:"inkphone"`
}

type PlanForm struct {
	Title       string   `json:"title" validate:"nonblank,max=100"`
	Description string   `json:"description" validate:"nonblank,max=500"`
	Public      bool     `json:"isPublic"`
	Milestones  []string `json:"milestones" validate:"min=1,max=10,dive,nonblank,max=200"`
}

// MediaInfo describes an attachment without its content
type MediaInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

type PostForm struct {
	Description string      `json:"description" validate:"max=300"`
	Private     bool        `json:"isPrivate"`
	Media       []MediaInfo `json:"media" validate:"min=1,max=3"`
}

// IsVideo reports whether an attachment counts as the post's single video
func (m MediaInfo) IsVideo() bool {
	if strings.HasPrefix(m.ContentType, "video/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(m.Name)) {
	case ".mp4", ".mov":
		return true
	}
	return false
}

var messages = map[string]string{
	"confirmPassword.eqfield": "Passwords don't match",
	"password.required":       "Password is required",
	"title.nonblank":          "Title is required",
	"title.max":               "Title must be less than 100 characters",
	"description.nonblank":    "Description is required",
	"milestones.min":          "At least one milestone is required",
	"milestones.max":          "Maximum 10 milestones allowed",
	"milestones[].nonblank":   "Milestone cannot be empty",
	"milestones[].max":        "Milestone must be less than 200 characters",
	"media.min":               "No media files provided.",
	"media.max":               "You can only upload up to 3 images or 1 video.",
	"media.singlevideo":       "Only one video can be uploaded at a time.",
}

// The description limit differs between plans and posts
var structMessages = map[string]string{
	"PlanForm.description.max": "Description must be less than 500 characters",
	"PostForm.description.max": "Caption must be less than 300 characters",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "inkpassword", func(fl validator.FieldLevel) bool {
			return ValidatePassword(fl.Field().String()).IsValid
		})
		mustRegister(v, "inkemail", func(fl validator.FieldLevel) bool {
			return ValidateEmail(fl.Field().String()).IsValid
		})
		mustRegister(v, "inkphone", func(fl validator.FieldLevel) bool {
			return ValidatePhoneNumber(fl.Field().String()).IsValid
		})
		mustRegister(v, "inkname", func(fl validator.FieldLevel) bool {
			return ValidateName(fl.Field().String()).IsValid
		})
		mustRegister(v, "nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		v.RegisterStructValidation(func(sl validator.StructLevel) {
			form := sl.Current().Interface().(PostForm)
			if len(form.Media) < 2 {
				return
			}
			for _, m := range form.Media {
				if m.IsVideo() {
					sl.ReportError(form.Media, "media", "Media", "singlevideo", "")
					return
				}
			}
		}, PostForm{})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateStruct checks one of the forms above and returns its errors in
// field order, or nil when the form is valid
func ValidateStruct(form interface{}) []FieldError {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	var out []FieldError
	for _, fe := range validationErrors {
		out = append(out, fieldErrors(fe)...)
	}
	return out
}

func fieldErrors(fe validator.FieldError) []FieldError {
	field := fe.Field()

	switch fe.Tag() {
	case "inkpassword":
		value, _ := fe.Value().(string)
		var out []FieldError
		for _, msg := range ValidatePassword(value).Errors {
			out = append(out, FieldError{Field: field, Message: msg})
		}
		return out
	case "inkemail":
		return []FieldError{{Field: field, Message: MsgEmail}}
	case "inkphone":
		return []FieldError{{Field: field, Message: MsgPhone}}
	case "inkname":
		return []FieldError{{Field: field, Message: MsgName}}
	}

	return []FieldError{{Field: field, Message: messageFor(fe)}}
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i] + "[]"
	}

	structName := strings.SplitN(fe.Namespace(), ".", 2)[0]
	if msg, ok := structMessages[structName+"."+field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "nonblank":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

// Messages flattens field errors for notifications
func Messages(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}
