package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/task-manager-api/internal/model"
)

var testUser = model.User{
	ID:    "user-1",
	Name:  "Alice",
	Email: "alice@example.com",
	Role:  model.RoleAdmin,
}

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.Generate(testUser)
	require.NoError(t, err)

	identity, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, model.RoleAdmin, identity.Role)
}

func TestManager_Rejections(t *testing.T) {
	m := NewManager("secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, err := other.Generate(testUser)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := NewManager("secret", -time.Minute)
		token, err := shortLived.Generate(testUser)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
