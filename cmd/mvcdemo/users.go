package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/session"
)

var (
	errInvalidCredentials = errors.New("invalid email or password")
	errInvalidToken       = errors.New("remember-me token rejected")
)

type account struct {
	user     session.User
	password []byte
	remember []byte
}

// directory is an in-memory user database. Passwords and remember-me
// secrets are stored as bcrypt hashes.
type directory struct {
	mu      sync.RWMutex
	cost    int
	byID    map[int64]*account
	byEmail map[string]*account
}

func newDirectory(cost int) *directory {
	return &directory{
		cost:    cost,
		byID:    make(map[int64]*account),
		byEmail: make(map[string]*account),
	}
}

func (d *directory) add(u session.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return err
	}
	a := &account{user: u, password: hash}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[u.ID] = a
	d.byEmail[strings.ToLower(u.Email)] = a
	return nil
}

func (d *directory) authenticate(email, password string) (session.User, error) {
	d.mu.RLock()
	a, ok := d.byEmail[strings.ToLower(email)]
	d.mu.RUnlock()
	if !ok {
		return session.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.password, []byte(password)); err != nil {
		return session.User{}, errInvalidCredentials
	}
	return a.user, nil
}

// issueRemember creates a fresh remember-me secret for id and keeps its hash.
func (d *directory) issueRemember(id int64) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), d.cost)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.byID[id]
	if !ok {
		return "", errInvalidToken
	}
	a.remember = hash
	return secret, nil
}

func (d *directory) forget(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.byID[id]; ok {
		a.remember = nil
	}
}

func (d *directory) verifyRemember(id int64, secret string) (session.User, error) {
	d.mu.RLock()
	a, ok := d.byID[id]
	var hash []byte
	if ok {
		hash = a.remember
	}
	d.mu.RUnlock()

	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(secret)) != nil {
		return session.User{}, errInvalidToken
	}
	return a.user, nil
}

// RecoverSession implements controller.SessionRecoveryHandler.
func (d *directory) RecoverSession(c *controller.Context, userID int64, secret string) error {
	u, err := d.verifyRemember(userID, secret)
	if err != nil {
		_ = c.UnsetRememberMe()
		return err
	}
	return c.Login(u)
}

func seedDirectory(cost int) (*directory, error) {
	d := newDirectory(cost)
	seed := []struct {
		user     session.User
		password string
	}{
		{session.User{ID: 1, Name: "Admin", Email: "admin@example.com", Roles: []string{session.RoleAdmin}}, "admin"},
		{session.User{ID: 2, Name: "Ann", Email: "ann@example.com"}, "password"},
	}
	for _, s := range seed {
		if err := d.add(s.user, s.password); err != nil {
			return nil, err
		}
	}
	return d, nil
}
