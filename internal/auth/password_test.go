package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword_Valid(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"8 characters", "password"},
		{"long password", "this-is-a-very-long-password-123!@#"},
		{"with special chars", "p@ssw0rd!"},
		{"with unicode", "パスワード123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidatePassword(tt.password, tt.password))
		})
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"7 characters", "1234567"},
		{"empty", ""},
		{"short unicode", "パスワード"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidatePassword(tt.password, tt.password), ErrPasswordTooShort)
		})
	}
}

func TestValidatePassword_Mismatch(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("password1", "password2"), ErrPasswordMismatch)
}
