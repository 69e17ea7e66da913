package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_StartsAsGuest(t *testing.T) {
	s := NewSession()

	assert.False(t, s.IsAuthenticated())
	_, ok := s.UserID()
	assert.False(t, ok)
	assert.Equal(t, GuestKey, StorageKey(s))
}

func TestSession_LoginAndLogout(t *testing.T) {
	s := NewSession()

	s.Login(42)
	assert.True(t, s.IsAuthenticated())
	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "cart_42", StorageKey(s))

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, GuestKey, StorageKey(s))
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "cart_7", UserKey(7))
}

func TestStorageKey_NilProvider(t *testing.T) {
	assert.Equal(t, GuestKey, StorageKey(nil))
}
