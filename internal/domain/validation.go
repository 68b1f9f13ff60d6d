package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MinPasswordLength is the shortest password accepted at registration or update, in characters.
	MinPasswordLength = 8

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// Name contexts used in validation messages.
const (
	NameContextUser         = "user"
	NameContextShoppingList = "shopping list"
	NameContextItem         = "item"
)

var (
	namePattern = regexp.MustCompile(`^[-a-zA-Z0-9_\s]*$`)
	validate    = validator.New()
)

// ValidateName trims name and checks that it is non-empty and made only of
// letters, digits, whitespace, hyphens and underscores. context names the
// kind of entity for the error message, e.g. "shopping list".
func ValidateName(name, context string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !namePattern.MatchString(trimmed) {
		return "", NewValidationError(
			"name",
			"Name shouldn't be empty. No special characters for "+context+" names",
			ErrInvalidName,
		)
	}
	return trimmed, nil
}

// ValidateEmail trims email and checks its format.
func ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if err := validate.Var(trimmed, "required,email"); err != nil {
		return "", NewValidationError("email", "Incorrect email format.", ErrInvalidEmail)
	}
	return trimmed, nil
}

// ValidatePassword enforces the password length bounds. The minimum counts
// characters; the maximum counts bytes.
func ValidatePassword(password string) error {
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return NewValidationError("password", "Password too short.", ErrInvalidPassword)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "Password too long.", ErrInvalidPassword)
	}
	return nil
}
