package rememberme

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/logger"
)

const (
	// DefaultCookieName is the remember-me cookie name.
	DefaultCookieName = "rm"
	// DefaultMaxAge keeps the remember-me cookie for one year.
	DefaultMaxAge = 31536000
)

// Status is the outcome of a recovery attempt.
type Status int

const (
	// NoOp means nothing was recovered: a user is already present or no token exists.
	NoOp Status = iota
	// Recovered means a valid token yielded a user id and secret.
	Recovered
	// Corrupted means a token was present but malformed; it has been removed.
	Corrupted
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Recovered:
		return "recovered"
	case Corrupted:
		return "corrupted"
	default:
		return "noop"
	}
}

// Result describes a recovery attempt.
type Result struct {
	Status Status
	UserID int64
	Secret string
}

// UserPresence reports whether the current session already has a user.
type UserPresence interface {
	HasUser() bool
}

// Manager stores and recovers remember-me tokens.
type Manager struct {
	cookies *cookie.Manager
	name    string
	maxAge  int
	signed  bool
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the remember-me cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithMaxAge sets the cookie lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(m *Manager) {
		if seconds > 0 {
			m.maxAge = seconds
		}
	}
}

// WithSigned stores the token as an HMAC-signed cookie. A token with an
// invalid signature is treated as corrupted.
func WithSigned(signed bool) Option {
	return func(m *Manager) {
		m.signed = signed
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a remember-me manager. It panics if cookies is nil.
func New(cookies *cookie.Manager, opts ...Option) *Manager {
	if cookies == nil {
		panic("rememberme: cookie manager is required")
	}
	m := &Manager{
		cookies: cookies,
		name:    DefaultCookieName,
		maxAge:  DefaultMaxAge,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CookieName returns the remember-me cookie name.
func (m *Manager) CookieName() string {
	return m.name
}

// Set stores a token for userID. An empty secret is allowed; a secret
// containing "::" is rejected with ErrInvalidSecret.
func (m *Manager) Set(ctx handler.Context, userID int64, secret string) error {
	if strings.Contains(secret, fieldSeparator) {
		return ErrInvalidSecret
	}
	token := EncodeToken(userID, secret)
	opts := []cookie.Option{cookie.WithMaxAge(m.maxAge), cookie.WithPath("/")}
	if m.signed {
		return m.cookies.SetSigned(ctx.ResponseWriter(), m.name, token, opts...)
	}
	return m.cookies.Set(ctx.ResponseWriter(), m.name, token, opts...)
}

// Unset removes the remember-me cookie.
func (m *Manager) Unset(ctx handler.Context) {
	m.cookies.Delete(ctx.ResponseWriter(), m.name, cookie.WithPath("/"))
}

// Has reports whether the request carries a remember-me cookie.
func (m *Manager) Has(ctx handler.Context) bool {
	_, err := m.cookies.Get(ctx.Request(), m.name)
	return err == nil
}

// Recover restores the identity stored in the remember-me cookie.
// It never touches the cookie when presence already has a user, and only
// consults presence when a token exists. A corrupted token is removed and
// reported as a Corrupted result with ErrCorruptedToken.
func (m *Manager) Recover(ctx handler.Context, presence UserPresence) (Result, error) {
	token, err := m.read(ctx)
	if errors.Is(err, ErrNoToken) {
		return Result{Status: NoOp}, nil
	}
	if presence != nil && presence.HasUser() {
		return Result{Status: NoOp}, nil
	}

	var userID int64
	var secret string
	if err == nil {
		userID, secret, err = DecodeToken(token)
	}
	if err != nil {
		m.Unset(ctx)
		m.logger.WarnContext(ctx, "removed corrupted remember-me cookie",
			logger.Component("rememberme"),
			logger.Error(err),
		)
		return Result{Status: Corrupted}, ErrCorruptedToken
	}

	return Result{Status: Recovered, UserID: userID, Secret: secret}, nil
}

func (m *Manager) read(ctx handler.Context) (string, error) {
	var (
		token string
		err   error
	)
	if m.signed {
		token, err = m.cookies.GetSigned(ctx.Request(), m.name)
	} else {
		token, err = m.cookies.Get(ctx.Request(), m.name)
	}

	switch {
	case errors.Is(err, cookie.ErrCookieNotFound):
		return "", ErrNoToken
	case err != nil:
		return "", errors.Join(ErrCorruptedToken, err)
	}
	return token, nil
}
