package validation

import (
	"strings"
	"testing"

	"notably/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid password", "Str0ng&Secure!", false},
		{"Too short", "Ab1!", true},
		{"Too long", strings.Repeat("Aa1!", 40), true},
		{"No uppercase", "weak&password1", true},
		{"No lowercase", "WEAK&PASSWORD1", true},
		{"No digit", "Weak&Password!", true},
		{"No special character", "WeakPassword12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid username", "alice_92", false},
		{"Valid with hyphen", "note-taker", false},
		{"Too short", "ab", true},
		{"Too long", strings.Repeat("a", 31), true},
		{"Invalid characters", "alice!", true},
		{"Leading underscore", "_alice", true},
		{"Trailing hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.NoError(t, ValidateEmail("bob+notes@sub.example.org"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateNoteContent(t *testing.T) {
	assert.NoError(t, ValidateNoteContent("hello world"))
	assert.Error(t, ValidateNoteContent(""))
	assert.Error(t, ValidateNoteContent("   \n\t"))
	assert.Error(t, ValidateNoteContent(strings.Repeat("x", MaxNoteContentLen+1)))
}

// Every validator failure must carry the validation error code so handlers
// answer with 400, never 500.
func TestValidationErrorsCarryValidationCode(t *testing.T) {
	failures := map[string]error{
		"password": ValidatePassword("short"),
		"username": ValidateUsername("ab"),
		"email":    ValidateEmail("not-an-email"),
		"content":  ValidateNoteContent(""),
	}

	for field, err := range failures {
		require.Error(t, err, field)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr, field)
		assert.Equal(t, models.CodeValidation, appErr.Code, field)
		assert.Equal(t, 400, appErr.HTTPStatus(), field)
	}
}
