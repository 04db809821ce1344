package users_test

import (
	"testing"

	"github.com/chronoluxe/rental-frontend/users"
	"github.com/stretchr/testify/require"
)

func TestUser_IsAdmin(t *testing.T) {
	t.Run("admin role", func(t *testing.T) {
		u := &users.User{ID: "u-1", Role: users.RoleAdmin}
		require.True(t, u.IsAdmin())
	})

	t.Run("user role", func(t *testing.T) {
		u := &users.User{ID: "u-1", Role: users.RoleUser}
		require.False(t, u.IsAdmin())
	})

	t.Run("missing role", func(t *testing.T) {
		u := &users.User{ID: "u-1"}
		require.False(t, u.IsAdmin())
	})
}

func TestUser_FullName(t *testing.T) {
	t.Run("first and last", func(t *testing.T) {
		u := &users.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		require.Equal(t, "Ada Lovelace", u.FullName())
	})

	t.Run("falls back to email", func(t *testing.T) {
		u := &users.User{Email: "ada@example.com"}
		require.Equal(t, "ada@example.com", u.FullName())
	})
}

func TestValidateEmail(t *testing.T) {
	t.Run("valid email", func(t *testing.T) {
		require.NoError(t, users.ValidateEmail("user@example.com"))
	})

	t.Run("empty email", func(t *testing.T) {
		err := users.ValidateEmail("")
		require.Error(t, err)
		require.Contains(t, err.Error(), "email is required")
	})

	t.Run("invalid format", func(t *testing.T) {
		err := users.ValidateEmail("userexample.com")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid email format")
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Run("valid password", func(t *testing.T) {
		require.NoError(t, users.ValidatePasswordStrength("Password1"))
	})

	t.Run("too short", func(t *testing.T) {
		err := users.ValidatePasswordStrength("Pw1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("no uppercase", func(t *testing.T) {
		err := users.ValidatePasswordStrength("password1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "uppercase")
	})

	t.Run("no number", func(t *testing.T) {
		err := users.ValidatePasswordStrength("Passwords")
		require.Error(t, err)
		require.Contains(t, err.Error(), "number")
	})
}
