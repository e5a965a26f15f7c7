package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/core/view"
)

const testSecret = "test-secret-key-32-characters!!!"

// env bundles a router with its collaborators.
type env struct {
	router   *controller.Router
	cookies  *cookie.Manager
	sessions *session.Manager
	store    *session.MemoryStore
	rm       *rememberme.Manager
}

func templates() fstest.MapFS {
	return fstest.MapFS{
		"home/index.html": {Data: []byte(`<p>{{ .Controller }}.{{ .Action }} {{ .Name }}</p>`)},
		"sub/head.html":   {Data: []byte(`<title>{{ .Controller }}.{{ .Action }}</title>`)},
		"sub/header.html": {Data: []byte(`<header/>`)},
		"sub/footer.html": {Data: []byte(`<footer/>`)},
	}
}

func newEnv(t *testing.T, opts ...controller.RouterOption) *env {
	t.Helper()

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	store := session.NewMemoryStore()
	sessions := session.NewManager(store, cookies)
	rm := rememberme.New(cookies)

	base := []controller.RouterOption{
		controller.WithSessions(sessions),
		controller.WithRememberMe(rm),
		controller.WithRenderer(view.New(templates())),
		controller.WithAppCookie(cookie.NewJar(cookies, "")),
	}
	return &env{
		router:   controller.NewRouter(append(base, opts...)...),
		cookies:  cookies,
		sessions: sessions,
		store:    store,
		rm:       rm,
	}
}

// do serves a request and returns the recorder.
func (e *env) do(method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, cookies...)
}

func (e *env) post(target, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
