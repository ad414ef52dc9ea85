package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	PasswordMinLength = 8
	passwordSpecials  = `!@#$%^&*(),.?":{}|<>`
)

const (
	MsgPasswordLength    = "Password must be at least 8 characters long"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordNumber    = "Password must contain at least one number"
	MsgPasswordSpecial   = "Password must contain at least one special character"
	MsgEmail             = "Please enter a valid email address"
	MsgPhone             = "Phone number must be exactly 10 digits"
	MsgName              = "Name must be 2-50 characters long and contain only letters"
)

// whitespace is the Unicode whitespace set browsers match with \s.
// RE2's \s covers ASCII only.
const whitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	emailRegex = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z` + whitespace + `]{2,50}$`)
)

// Result is the outcome of a single-field check
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// Message returns the first failure, or "" when valid
func (r Result) Message() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

func single(ok bool, msg string) Result {
	if ok {
		return Result{IsValid: true}
	}
	return Result{IsValid: false, Errors: []string{msg}}
}

// ValidatePassword reports every rule the password breaks, in the order
// length, uppercase, lowercase, number, special character.
func ValidatePassword(password string) Result {
	var errs []string
	if utf8.RuneCountInString(password) < PasswordMinLength {
		errs = append(errs, MsgPasswordLength)
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		errs = append(errs, MsgPasswordUppercase)
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		errs = append(errs, MsgPasswordLowercase)
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, MsgPasswordNumber)
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		errs = append(errs, MsgPasswordSpecial)
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func ValidateEmail(email string) Result {
	return single(emailRegex.MatchString(email), MsgEmail)
}

func ValidatePhoneNumber(phone string) Result {
	return single(phoneRegex.MatchString(phone), MsgPhone)
}

func ValidateName(name string) Result {
	return single(nameRegex.MatchString(name), MsgName)
}
