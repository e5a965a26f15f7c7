package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/session"
)

func testConfig() Config {
	return Config{
		AppName:  "mvcdemo",
		Env:      envDevelopment,
		CacheTTL: time.Minute,
		Cookie: cookie.Config{
			Secrets:   "test-secret-key-32-characters!!!",
			Path:      "/",
			HttpOnly:  true,
			SameSite:  http.SameSiteLaxMode,
			MaxSize:   cookie.MaxCookieSize,
			AppCookie: cookie.DefaultAppCookie,
		},
		Session: session.Config{
			CookieName:      session.DefaultCookieName,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
		RememberMe: rememberme.Config{
			CookieName: rememberme.DefaultCookieName,
			MaxAge:     3600,
		},
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, target, form string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func cookieFrom(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func newApp(t *testing.T) client {
	t.Helper()
	app, err := build(context.Background(), testConfig(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(app.backends.close)
	return client{t: t, handler: app.handler}
}

func TestApp_Login(t *testing.T) {
	t.Parallel()
	c := newApp(t)

	rec := c.do(http.MethodPost, "/login", "email=ann@example.com&password=wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/login", "email=ann@example.com&password=password&remember=on")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":2,"name":"Ann","admin":false}}`, rec.Body.String())

	sid := cookieFrom(rec, session.DefaultCookieName)
	rm := cookieFrom(rec, rememberme.DefaultCookieName)
	require.NotNil(t, sid)
	require.NotNil(t, rm)

	rec = c.do(http.MethodGet, "/profile", "", sid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Ann</h1>")
	assert.Contains(t, rec.Body.String(), "dev_debug")

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/admin", "", sid).Code)

	t.Run("remember-me restores a lost session", func(t *testing.T) {
		rec := c.do(http.MethodGet, "/profile", "", rm)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<h1>Ann</h1>")
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		rec := c.do(http.MethodPost, "/logout", "x=1", sid)
		assert.JSONEq(t, `{"success":true,"data":{}}`, rec.Body.String())

		assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/profile", "", rm).Code)
	})
}

func TestApp_Admin(t *testing.T) {
	t.Parallel()
	c := newApp(t)

	rec := c.do(http.MethodPost, "/login", "email=admin@example.com&password=admin")
	sid := cookieFrom(rec, session.DefaultCookieName)
	require.NotNil(t, sid)

	rec = c.do(http.MethodGet, "/admin", "", sid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Administration")
}

func TestApp_Pages(t *testing.T) {
	t.Parallel()
	c := newApp(t)

	rec := c.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Welcome</h1>")
	assert.Contains(t, rec.Body.String(), `theme-light`)
	assert.Contains(t, rec.Body.String(), "Cached statistics")

	rec = c.do(http.MethodGet, "/theme?value=dark", "")
	assert.JSONEq(t, `{"success":true,"data":"dark"}`, rec.Body.String())
	jar := cookieFrom(rec, cookie.DefaultAppCookie)
	require.NotNil(t, jar)

	assert.Contains(t, c.do(http.MethodGet, "/", "", jar).Body.String(), "theme-dark")
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/missing/page", "").Code)
}

func TestApp_CachedStats(t *testing.T) {
	t.Parallel()
	c := newApp(t)

	first := c.do(http.MethodGet, "/stats?window=week", "").Body.String()
	second := c.do(http.MethodGet, "/stats?window=week", "").Body.String()
	assert.Contains(t, first, `"window":"week"`)
	assert.JSONEq(t, first, second)
}

func TestApp_Operations(t *testing.T) {
	t.Parallel()
	c := newApp(t)

	rec := c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	rec = c.do(http.MethodGet, "/debug?probe=1", "")
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"probe":"1"`)

	rec = c.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mvc_actions_total")
}

func TestTokenCommand(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "42", "--secret", "secret"})
	require.NoError(t, cmd.Execute())

	token := strings.TrimSpace(out.String())
	assert.Equal(t, rememberme.EncodeToken(42, "secret"), token)

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--decode", token})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "user=42 secret=secret\n", out.String())
}
