package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no secret was provided for cookie signing.
	ErrNoSecret = errors.New("no secret provided for cookie manager")

	// ErrSecretTooShort indicates the secret doesn't meet minimum length requirements.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrInvalidSignature indicates cookie signature verification failed.
	ErrInvalidSignature = errors.New("cookie signature verification failed")

	// ErrCookieNotFound indicates the requested cookie doesn't exist in the request.
	ErrCookieNotFound = errors.New("cookie not found in request")

	// ErrInvalidFormat indicates the cookie value has unexpected format.
	ErrInvalidFormat = errors.New("invalid cookie format")

	// ErrInvalidJarValue indicates a jar key or value contains a reserved delimiter.
	ErrInvalidJarValue = errors.New("jar key or value contains a reserved delimiter")

	// ErrJarKeyNotFound indicates the key is not stored in the application cookie.
	ErrJarKeyNotFound = errors.New("key not found in application cookie")
)

// ErrCookieTooLarge indicates the cookie exceeds the maximum allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

// Error implements the error interface.
func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
