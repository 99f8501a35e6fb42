package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		user, err := NewUser("Alice@Example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.VerifyPassword("password1"))
		assert.False(t, user.VerifyPassword("password2"))
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "password1")
		assert.Error(t, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "short1")
		assert.Error(t, err)

		_, err = NewUser("alice@example.com", "onlyletters")
		assert.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	user, err := NewUser("bob@example.com", "password1")
	require.NoError(t, err)

	assert.Error(t, user.ChangePassword("wrong1pass", "newpassword2"))
	require.NoError(t, user.ChangePassword("password1", "newpassword2"))
	assert.True(t, user.VerifyPassword("newpassword2"))
}

func TestLoginLockout(t *testing.T) {
	user, err := NewUser("carol@example.com", "password1")
	require.NoError(t, err)

	locked := user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.True(t, locked)

	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	user.Unlock()
	assert.True(t, user.CanLogin())
	assert.Equal(t, 0, user.FailedAttempts)

	user.RecordLoginSuccess()
	require.NotNil(t, user.LastLoginAt)
}

func TestExpiredLock(t *testing.T) {
	user, err := NewUser("dave@example.com", "password1")
	require.NoError(t, err)

	user.RecordLoginFailure(1, -time.Minute)
	assert.False(t, user.IsLocked(), "an expired lock no longer blocks login")
	assert.True(t, user.CanLogin())
}

func TestDeactivate(t *testing.T) {
	user, err := NewUser("erin@example.com", "password1")
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.CanLogin())
}
