package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/cookie"
)

const (
	testSecret  = "test-secret-key-32-characters!!!"
	testSecret2 = "another-secret-key-32-chars!!!!!"
)

// requestWith builds a request carrying the cookies set on rec.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_BasicOperations(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.Set(rec, "test", "value"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "/", cookies[0].Path)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

		v, err := m.Get(requestWith(rec), "test")
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		_, err := m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "missing")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.Delete(rec, "test")
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("second set replaces first", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.Set(rec, "a", "1"))
		require.NoError(t, m.Set(rec, "b", "2"))
		require.NoError(t, m.Set(rec, "a", "3"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)
		assert.Equal(t, "b", cookies[0].Name)
		assert.Equal(t, "a", cookies[1].Name)
		assert.Equal(t, "3", cookies[1].Value)
	})
}

func TestManager_SignedCookies(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "signed", "secret value"))

		v, err := m.GetSigned(requestWith(rec), "signed")
		require.NoError(t, err)
		assert.Equal(t, "secret value", v)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "signed", "value"))

		c := rec.Result().Cookies()[0]
		parts := strings.SplitN(c.Value, "|", 2)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "signed", Value: parts[0] + "|AAAA"})

		_, err := m.GetSigned(req, "signed")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("missing separator", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "signed", Value: "plain"})

		_, err := m.GetSigned(req, "signed")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_KeyRotation(t *testing.T) {
	t.Parallel()

	oldManager, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{testSecret2, testSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, oldManager.SetSigned(rec, "rot", "payload"))

	v, err := rotated.GetSigned(requestWith(rec), "rot")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	rec = httptest.NewRecorder()
	require.NoError(t, rotated.SetSigned(rec, "rot", "payload"))
	_, err = oldManager.GetSigned(requestWith(rec), "rot")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestManager_SizeLimit(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = m.Set(rec, "big", strings.Repeat("x", cookie.MaxCookieSize))

	var tooLarge cookie.ErrCookieTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big", tooLarge.Name)
	assert.Equal(t, cookie.MaxCookieSize, tooLarge.Max)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestManager_Options(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret}, cookie.WithSecure(true), cookie.WithDomain("example.com"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "opt", "v",
		cookie.WithPath("/admin"),
		cookie.WithMaxAge(60),
		cookie.WithHTTPOnly(false),
		cookie.WithSameSite(http.SameSiteStrictMode),
	))

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/admin", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, 60, c.MaxAge)
	assert.True(t, c.Secure)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  testSecret + ", " + testSecret2,
		Path:     "/app",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxSize:  100,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "c", "v"))
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/app", c.Path)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	var tooLarge cookie.ErrCookieTooLarge
	assert.ErrorAs(t, m.Set(httptest.NewRecorder(), "c", strings.Repeat("v", 100)), &tooLarge)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)
}
