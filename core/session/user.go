package session

import (
	"context"
	"errors"
	"slices"
)

// userKey is the reserved session key holding the authenticated user.
const userKey = "_user"

// RoleAdmin grants access to admin-only actions.
const RoleAdmin = "admin"

// User is the identity attached to a session after login or remember-me recovery.
type User struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}

// SetUser attaches u to the session.
func (s *Session) SetUser(ctx context.Context, u User) error {
	return s.Put(ctx, userKey, u)
}

// User returns the session user, if any.
func (s *Session) User() (User, bool) {
	var u User
	if err := s.Get(userKey, &u); err != nil {
		return User{}, false
	}
	return u, true
}

// HasUser reports whether a user is attached to the session.
func (s *Session) HasUser() bool {
	return s.Has(userKey)
}

// RemoveUser detaches the user. Removing from an anonymous session is a no-op.
func (s *Session) RemoveUser(ctx context.Context) error {
	if err := s.Remove(ctx, userKey, nil); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	return nil
}

// RequireUser returns the session user or ErrNoUser.
func (s *Session) RequireUser() (User, error) {
	u, ok := s.User()
	if !ok {
		return User{}, ErrNoUser
	}
	return u, nil
}
