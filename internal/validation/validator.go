package validation

import (
	"net/mail"
	"strings"
	"study-buddy/internal/domain"
	"unicode"
)

// passwordSpecials are the only non-alphanumeric characters a password may contain.
const passwordSpecials = "@$!%*?&"

const minPasswordLength = 8

// PasswordRules is the inline help shown when a password is too weak.
var PasswordRules = []string{
	"At least 8 characters",
	"At least one uppercase letter (A-Z)",
	"At least one number (0-9)",
	"At least one special character (@$!%*?&)",
}

// Validator provides form validation that runs before any network call.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegistration checks a sign-up form. Rules are applied in order and the first
// failing rule is reported, so the user fixes one thing at a time.
func (v *Validator) ValidateRegistration(name, email, password, confirmPassword string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(name) == "" {
		return append(errors, domain.NewMissingFieldError("name"))
	}
	if emailErrs := v.ValidateEmail(email); len(emailErrs) > 0 {
		return emailErrs
	}
	if password != confirmPassword {
		return append(errors, domain.NewFieldError("confirm_password", "Passwords do not match."))
	}
	if !IsStrongPassword(password) {
		return append(errors, domain.NewFieldError("password",
			"Password must contain: "+strings.Join(PasswordRules, ", ")+"."))
	}
	return nil
}

// ValidateLogin checks that both credentials are present.
func (v *Validator) ValidateLogin(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

// ValidateEmail checks an e-mail address is present and well formed.
func (v *Validator) ValidateEmail(email string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	email = strings.TrimSpace(email)
	if email == "" {
		return append(errors, domain.NewMissingFieldError("email"))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errors = append(errors, domain.NewFieldError("email", "Please enter a valid email address."))
	}
	return errors
}

// ValidatePasswordReset checks the reset form: passwords must match and a reset token
// must be present.
func (v *Validator) ValidatePasswordReset(resetToken, password, confirmPassword string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if password != confirmPassword {
		return append(errors, domain.NewFieldError("confirm_password", "Passwords do not match."))
	}
	if strings.TrimSpace(resetToken) == "" {
		return append(errors, domain.NewFieldError("token", "Invalid or missing reset token."))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

// ValidateQuestion checks a chat question before it is sent to the tutor.
func (v *Validator) ValidateQuestion(question string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(question) == "" {
		errors = append(errors, domain.NewMissingFieldError("question"))
	}
	return errors
}

// IsStrongPassword reports whether p has at least 8 characters drawn only from letters,
// digits and @$!%*?&, including at least one uppercase letter, one digit and one special.
func IsStrongPassword(p string) bool {
	if len(p) < minPasswordLength {
		return false
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		case unicode.IsLower(r):
		default:
			return false
		}
	}
	return hasUpper && hasDigit && hasSpecial
}
