// Package validation checks request fields and reports every violation at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"hustlehub/internal/models"
)

// Field limits.
const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 50
	PasswordMinLen    = 6
	TitleMinLen       = 5
	TitleMaxLen       = 200
	DescriptionMinLen = 20
	MessageMinLen     = 10
	EmailMaxLen       = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)

// Errors collects field violations.
type Errors struct {
	fields []models.FieldError
}

// Add records a violation for field.
func (e *Errors) Add(field, format string, args ...interface{}) {
	e.fields = append(e.fields, models.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Check records a violation when err is non-nil.
func (e *Errors) Check(field string, err error) {
	if err != nil {
		e.fields = append(e.fields, models.FieldError{Field: field, Message: err.Error()})
	}
}

// Required records a violation when the field was absent from the request.
func (e *Errors) Required(field string, present bool) bool {
	if !present {
		e.Add(field, "field required")
	}
	return present
}

// Err returns a validation AppError listing all violations, or nil.
func (e *Errors) Err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return models.NewValidationError("Invalid request", e.fields...)
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if length(email) > EmailMaxLen {
		return fmt.Errorf("email must not exceed %d characters", EmailMaxLen)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks username length.
func ValidateUsername(username string) error {
	n := length(username)
	if n < UsernameMinLen {
		return fmt.Errorf("username must be at least %d characters long", UsernameMinLen)
	}
	if n > UsernameMaxLen {
		return fmt.Errorf("username must not exceed %d characters", UsernameMaxLen)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("username cannot start or end with whitespace")
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if length(password) < PasswordMinLen {
		return fmt.Errorf("password must be at least %d characters long", PasswordMinLen)
	}
	return nil
}

// ValidateTitle checks an opportunity title.
func ValidateTitle(title string) error {
	n := length(title)
	if n < TitleMinLen || n > TitleMaxLen {
		return fmt.Errorf("title must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	return nil
}

// ValidateDescription checks an opportunity description.
func ValidateDescription(description string) error {
	if length(description) < DescriptionMinLen {
		return fmt.Errorf("description must be at least %d characters long", DescriptionMinLen)
	}
	return nil
}

// ValidateMessage checks an application message.
func ValidateMessage(message string) error {
	if length(message) < MessageMinLen {
		return fmt.Errorf("message must be at least %d characters long", MessageMinLen)
	}
	return nil
}

// ValidateMode checks a profile mode value.
func ValidateMode(mode string) error {
	if !models.Mode(mode).Valid() {
		return fmt.Errorf("mode must be one of hustler, builder")
	}
	return nil
}

// ValidateContent checks post content.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content must not be empty")
	}
	return nil
}
