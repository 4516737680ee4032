//go:build unit

package user_test

import (
	"testing"

	"campus-library/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		email, err := user.NewEmail("prof@example.edu")
		require.NoError(t, err)
		role, err := user.NewRole("professor")
		require.NoError(t, err)

		u, err := user.NewUser(email, "hashed", role, "Dana Reyes")
		require.NoError(t, err)
		require.NotNil(t, u)

		assert.NotEqual(t, uuid.Nil, u.ID())
		assert.Equal(t, "prof@example.edu", u.Email().Value())
		assert.Equal(t, user.RoleProfessor, u.Role())
		assert.True(t, u.IsActive())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		email, _ := user.NewEmail("prof@example.edu")
		role, _ := user.NewRole("professor")

		_, err := user.NewUser(email, "hashed", role, "   ")
		assert.ErrorIs(t, err, user.ErrEmptyName)
	})
}

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name  string
		email string
		errIs error
	}{
		{name: "valid address", email: "student@example.edu"},
		{name: "valid with plus tag", email: "student+lib@example.edu"},
		{name: "empty", email: "", errIs: user.ErrInvalidEmail},
		{name: "missing at sign", email: "student.example.edu", errIs: user.ErrInvalidEmail},
		{name: "missing domain", email: "student@", errIs: user.ErrInvalidEmail},
		{name: "missing tld", email: "student@example", errIs: user.ErrInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.NewEmail(tc.email)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPassword(t *testing.T) {
	_, err := user.NewPassword("short7!")
	assert.ErrorIs(t, err, user.ErrPasswordTooWeak)

	_, err = user.NewPassword("longenough8")
	assert.NoError(t, err)
}

func TestNewRole(t *testing.T) {
	for _, valid := range []string{"student", "parent", "professor", "admin"} {
		role, err := user.NewRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(role))
	}

	_, err := user.NewRole("librarian")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
