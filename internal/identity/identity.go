// Package identity tracks who owns a browsing session. The cart only reads it,
// to pick the storage namespace its items are persisted under.
package identity

import (
	"fmt"
	"sync"
)

// GuestKey is the storage key used before authentication.
const GuestKey = "cart_guest"

// Provider is what the cart needs to know about the current session.
type Provider interface {
	IsAuthenticated() bool
	// UserID returns the stable user identifier; ok is false for guests.
	UserID() (id int64, ok bool)
}

// UserKey returns the storage key scoped to an authenticated user.
func UserKey(userID int64) string {
	return fmt.Sprintf("cart_%d", userID)
}

// StorageKey picks the namespace for the session: the user key when
// authenticated, the shared guest key otherwise.
func StorageKey(p Provider) string {
	if p != nil && p.IsAuthenticated() {
		if id, ok := p.UserID(); ok {
			return UserKey(id)
		}
	}
	return GuestKey
}

// Session is a mutable Provider owned by one browsing session. It starts as a
// guest and transitions on login/logout.
type Session struct {
	mu     sync.RWMutex
	userID int64
	authed bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Login(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.authed = true
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.authed = false
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

func (s *Session) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.authed
}
