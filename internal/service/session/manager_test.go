package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

func TestLogin_DefaultNames(t *testing.T) {
	m := NewManager(time.Hour)

	owner, err := m.Login(models.RoleOwner, "")
	require.NoError(t, err)
	assert.Equal(t, "Administrador", owner.Name)
	assert.True(t, owner.IsOwner())

	user, err := m.Login(models.RoleUser, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Usuario", user.Name)
	assert.False(t, user.IsOwner())

	assert.NotEqual(t, owner.Token, user.Token)
}

func TestLogin_InvalidRole(t *testing.T) {
	_, err := NewManager(time.Hour).Login(models.Role("admin"), "x")

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestGetAndLogout(t *testing.T) {
	m := NewManager(time.Hour)
	sess, err := m.Login(models.RoleOwner, "Ana")
	require.NoError(t, err)

	got, ok := m.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)

	m.Logout(sess.Token)
	_, ok = m.Get(sess.Token)
	assert.False(t, ok)

	m.Logout("unknown")
}

func TestGet_ExpiredSession(t *testing.T) {
	clock := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	m := NewManager(time.Hour)
	m.now = func() time.Time { return clock }

	sess, err := m.Login(models.RoleOwner, "Ana")
	require.NoError(t, err)
	assert.Equal(t, clock.Add(time.Hour), sess.ExpiresAt)

	clock = clock.Add(59 * time.Minute)
	_, ok := m.Get(sess.Token)
	assert.True(t, ok)

	clock = clock.Add(time.Minute)
	_, ok = m.Get(sess.Token)
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestLogin_SweepsExpiredSessions(t *testing.T) {
	clock := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	m := NewManager(time.Hour)
	m.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		_, err := m.Login(models.RoleUser, "")
		require.NoError(t, err)
	}
	require.Equal(t, 5, m.Len())

	clock = clock.Add(2 * time.Hour)
	fresh, err := m.Login(models.RoleOwner, "")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	_, ok := m.Get(fresh.Token)
	assert.True(t, ok)
}
