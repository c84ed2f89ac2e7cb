// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"notably/internal/models"
)

const (
	// MaxNoteContentLen caps note bodies; anything larger is rejected before storage.
	MaxNoteContentLen = 50000

	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return models.NewValidationError(fmt.Sprintf("password must be at least %d characters long", minPasswordLen))
	}
	if len(password) > maxPasswordLen {
		return models.NewValidationError(fmt.Sprintf("password must not exceed %d characters", maxPasswordLen))
	}

	hasUpper := false
	hasLower := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	if !hasUpper {
		return models.NewValidationError("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return models.NewValidationError("password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		return models.NewValidationError("password must contain at least one digit")
	}
	if !specialRe.MatchString(password) {
		return models.NewValidationError("password must contain at least one special character (!@#$%^&*)")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return models.NewValidationError(fmt.Sprintf("username must be at least %d characters long", minUsernameLen))
	}
	if len(username) > maxUsernameLen {
		return models.NewValidationError(fmt.Sprintf("username must not exceed %d characters", maxUsernameLen))
	}
	if !usernameRe.MatchString(username) {
		return models.NewValidationError("username can only contain letters, numbers, underscores, and hyphens")
	}
	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return models.NewValidationError("username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidateEmail checks if an email address is structurally valid.
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("email is required")
	}
	if len(email) > 254 {
		return models.NewValidationError("email must not exceed 254 characters")
	}
	if !emailRe.MatchString(email) {
		return models.NewValidationError("email address is not valid")
	}
	return nil
}

// ValidateNoteContent checks that note content is non-empty and within bounds.
// Whitespace-only content counts as empty.
func ValidateNoteContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("note content is required")
	}
	if len(content) > MaxNoteContentLen {
		return models.NewValidationError(fmt.Sprintf("note content must not exceed %d characters", MaxNoteContentLen))
	}
	return nil
}
