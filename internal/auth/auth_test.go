package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-eval-platform/backend/internal/datastore"
)

func TestPasswordHashing(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 64)

	other, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)

	hash := HashPassword("hunter2", salt)
	assert.True(t, VerifyPassword("hunter2", hash, salt))
	assert.False(t, VerifyPassword("hunter3", hash, salt))
	assert.False(t, VerifyPassword("hunter2", hash, other))
}

func TestSessionStore(t *testing.T) {
	user := &datastore.User{ID: 5, Username: "rater", IsAdmin: false}

	t.Run("create and look up", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		sess := store.Create(user)
		require.NotEmpty(t, sess.Token)
		require.NotNil(t, sess.Batches)

		got := store.Get(sess.Token)
		require.NotNil(t, got)
		assert.Equal(t, 5, got.UserID)
		assert.Equal(t, "rater", got.Username)
	})

	t.Run("unknown token", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		assert.Nil(t, store.Get("no-such-token"))
	})

	t.Run("expired session pruned on lookup", func(t *testing.T) {
		store := NewSessionStore(-time.Minute)
		sess := store.Create(user)
		assert.Nil(t, store.Get(sess.Token))
	})

	t.Run("delete", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		sess := store.Create(user)
		store.Delete(sess.Token)
		assert.Nil(t, store.Get(sess.Token))
	})

	t.Run("tokens are unique per session", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		a := store.Create(user)
		b := store.Create(user)
		assert.NotEqual(t, a.Token, b.Token)
	})
}
