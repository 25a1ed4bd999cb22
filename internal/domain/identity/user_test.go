package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		expectError bool
		errorMsg    string
	}{
		{
			name:     "valid user",
			email:    "Ops@Example.com",
			password: "correct horse battery",
		},
		{
			name:        "invalid email",
			email:       "not-an-email",
			password:    "correct horse battery",
			expectError: true,
			errorMsg:    "Invalid email",
		},
		{
			name:        "short password",
			email:       "ops@example.com",
			password:    "short",
			expectError: true,
			errorMsg:    "at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.email, tt.password, "Ops")

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ops@example.com", user.Email)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, user.VerifyPassword(tt.password))
				assert.False(t, user.VerifyPassword("wrong password"))
			}
		})
	}
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("ops@example.com", "correct horse battery", "Ops")
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	user.RecordLogin()
	assert.NotNil(t, user.LastLoginAt)
}
