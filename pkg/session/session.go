// Package session carries the logged-in identity as an explicit value.
// There is no ambient current-user state anywhere in the client: every
// cache, fetch and reconcile call receives the session from its caller.
package session

import (
	"errors"

	"companion/pkg/cache"
	"companion/pkg/models"
)

// ErrNotLoggedIn is returned when an operation needs a session and none is
// persisted.
var ErrNotLoggedIn = errors.New("not logged in")

// UserSession is the logged-in identity. It is created on login, persisted
// in the local cache, and cleared on logout.
type UserSession struct {
	UserID int64
	Name   string
	Email  string
}

// FromUser builds a session from an authenticated account.
func FromUser(u models.User) UserSession {
	return UserSession{UserID: u.UserID, Name: u.Name, Email: u.Email}
}

// Load reads the persisted session. It returns ErrNotLoggedIn when no
// session is stored.
func Load(st *cache.Store) (UserSession, error) {
	u, err := st.Session()
	if err != nil {
		return UserSession{}, err
	}
	if u == nil {
		return UserSession{}, ErrNotLoggedIn
	}
	return FromUser(*u), nil
}

// Save persists the session for later invocations.
func Save(st *cache.Store, s UserSession) error {
	return st.PutSession(models.User{UserID: s.UserID, Name: s.Name, Email: s.Email})
}

// Clear removes the persisted session.
func Clear(st *cache.Store) error {
	return st.ClearSession()
}
