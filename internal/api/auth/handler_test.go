package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"mika@example.com", true},
		{"first.last@example.co.uk", true},
		{"user%tag@example.com", true},
		{"user+tag@example.com", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, isEmailValid(tt.email))
		})
	}
}

func TestIsPasswordStrong(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"letters and digits", "correct1horse", true},
		{"too short", "abc1234", false},
		{"digits only", "123456789", false},
		{"letters only", "correcthorse", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPasswordStrong(tt.password))
		})
	}
}
