package rememberme

import "errors"

var (
	// ErrCorruptedToken is returned when the remember-me cookie cannot be decoded.
	ErrCorruptedToken = errors.New("corrupted remember-me token")
	// ErrInvalidSecret is returned by Set when the secret cannot be encoded
	// into a token that decodes back to it.
	ErrInvalidSecret = errors.New("remember-me secret contains the field separator")
	// ErrNoToken is returned when the client has no remember-me cookie.
	ErrNoToken = errors.New("no remember-me token")
)
