package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrKeyNotFound is returned when a key is not stored in the session.
	ErrKeyNotFound = errors.New("session key not found")
	// ErrExpired is returned when writing to a session that has been expired.
	ErrExpired = errors.New("session has expired")
	// ErrNoUser is returned when the session carries no authenticated user.
	ErrNoUser = errors.New("no user in session")
	// ErrInvalidID is returned when a session id is not a valid UUID.
	ErrInvalidID = errors.New("invalid session id")
	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when deleting a session from the store fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrEncodeValue is returned when a value cannot be serialized to JSON.
	ErrEncodeValue = errors.New("failed to encode session value")
)
