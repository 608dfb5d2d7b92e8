package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateEmail checks the local@domain.tld shape used by license
// activation forms. Surrounding whitespace is ignored. It is looser than
// RFC 5322:
//   - No empty strings
//   - Exactly one '@', neither the first nor the last character
//   - No whitespace inside the address
//   - A domain part containing at least one '.'
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return New(ErrCodeInvalidEmail, "email cannot be empty").On("email")
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return New(ErrCodeInvalidEmail, "email cannot contain spaces").On("email")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return New(ErrCodeInvalidEmail, "email must contain '@'").On("email")
	}
	if strings.Contains(domain, "@") {
		return New(ErrCodeInvalidEmail, "email must contain a single '@'").On("email")
	}
	if local == "" {
		return New(ErrCodeInvalidEmail, "email is missing the local part").On("email")
	}
	if domain == "" {
		return New(ErrCodeInvalidEmail, "email is missing the domain").On("email")
	}

	if !strings.Contains(domain, ".") {
		return New(ErrCodeInvalidEmail, "email domain must contain '.'").On("email")
	}

	return nil
}

// ValidateUserID validates a layout owner identifier.
// It rejects names that could be used for key or path injection in the
// keyed-store and file backends.
//
// Validation rules:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "userID is required").On("userId")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "userID too long (max 128 characters)").On("userId")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "userID contains invalid control characters").On("userId")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "userID contains invalid characters: %q", pattern).On("userId")
		}
	}

	return nil
}

// componentIDRegex matches component instance IDs such as "metrics-0".
var componentIDRegex = regexp.MustCompile(`^[a-z][a-z_]*-[0-9]+$`)

// ValidateComponentID validates a dashboard component instance ID.
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "component id cannot be empty").On("i")
	}
	if !componentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidItem, "invalid component id: %q", id).On("i")
	}
	return nil
}
