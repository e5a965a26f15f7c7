package view_test

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/view"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"home/index.html": {Data: []byte(`<h1>{{ .Title }}</h1>{{ include "sub/nav" . }}`)},
		"sub/nav.html":    {Data: []byte(`<nav>{{ .Title }} {{ .Config.App }}</nav>`)},
		"sub/head.html":   {Data: []byte(`<title>{{ .Controller }}</title>`)},
		"sub/header.html": {Data: []byte(`<header>{{ .Action }}</header>`)},
		"sub/footer.html": {Data: []byte(`<footer/>`)},
		"loop.html":       {Data: []byte(`{{ include "loop" }}`)},
		"raw.txt":         {Data: []byte(`{{ upper "x" }}`)},
		"escape.html":     {Data: []byte(`<p>{{ .Value }}</p>`)},
		"broken.html":     {Data: []byte(`{{ .Title `)},
		"value.html":      {Data: []byte(`{{ include "sub/data" 7 }}`)},
		"sub/data.html":   {Data: []byte(`{{ .Data }}`)},
	}
}

type appConfig struct{ App string }

func TestEngine_Render(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	engine := view.New(testFS(),
		view.WithConfig(appConfig{App: "demo"}),
		view.WithFuncs(template.FuncMap{"upper": strings.ToUpper}),
	)

	t.Run("include and config", func(t *testing.T) {
		t.Parallel()
		out, err := engine.Render(ctx, "home/index", map[string]any{"Title": "Hi"})
		require.NoError(t, err)
		assert.Equal(t, "<h1>Hi</h1><nav>Hi demo</nav>", out)
	})

	t.Run("explicit extension and custom funcs", func(t *testing.T) {
		t.Parallel()
		out, err := engine.Render(ctx, "raw.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "X", out)
	})

	t.Run("escapes values", func(t *testing.T) {
		t.Parallel()
		out, err := engine.Render(ctx, "escape", map[string]any{"Value": "<b>"})
		require.NoError(t, err)
		assert.Equal(t, "<p>&lt;b&gt;</p>", out)
	})

	t.Run("include with scalar data", func(t *testing.T) {
		t.Parallel()
		out, err := engine.Render(ctx, "value", nil)
		require.NoError(t, err)
		assert.Equal(t, "7", out)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render(ctx, "missing/page", nil)
		assert.ErrorIs(t, err, view.ErrTemplateNotFound)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render(ctx, "broken", nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, view.ErrTemplateNotFound)
	})

	t.Run("include recursion bounded", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render(ctx, "loop", nil)
		assert.ErrorIs(t, err, view.ErrIncludeDepth)
	})
}

func TestEngine_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := view.New(nil).Render(context.Background(), "home/index", nil)
	assert.ErrorIs(t, err, view.ErrNotConfigured)

	_, err = view.NewFromConfig(view.Config{}).Render(context.Background(), "x", nil)
	assert.ErrorIs(t, err, view.ErrNotConfigured)
}

func TestEngine_FileChecks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0o600))

	cached := view.NewFromConfig(view.Config{Dir: dir, Extension: "tmpl"})
	live := view.NewFromConfig(view.Config{Dir: dir, Extension: ".tmpl", FileChecks: true})

	for _, e := range []*view.Engine{cached, live} {
		out, err := e.Render(context.Background(), "page", nil)
		require.NoError(t, err)
		assert.Equal(t, "v1", out)
	}

	require.NoError(t, os.WriteFile(file, []byte("v2"), 0o600))

	out, err := cached.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	out, err = live.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", out)
}

func TestPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := view.New(testFS())
	data := map[string]any{"Controller": "home", "Action": "index"}

	t.Run("full", func(t *testing.T) {
		t.Parallel()
		out, err := view.Page(ctx, engine, view.FullLayout(), data, "<main/>")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
		assert.Contains(t, out, "<title>home</title>")
		assert.Contains(t, out, "<header>index</header>\n<main/>\n<footer/>")
		assert.NotContains(t, out, view.DevMarker)
	})

	t.Run("blank", func(t *testing.T) {
		t.Parallel()
		out, err := view.Page(ctx, engine, view.BlankLayout(), data, "<main/>")
		require.NoError(t, err)
		assert.Contains(t, out, "<title>home</title>")
		assert.NotContains(t, out, "<header>")
		assert.NotContains(t, out, "<footer/>")
	})

	t.Run("dev banner", func(t *testing.T) {
		t.Parallel()
		layout := view.BlankLayout()
		layout.Dev = true
		layout.Started = time.Now()

		out, err := view.Page(ctx, engine, layout, data, "body")
		require.NoError(t, err)
		assert.Contains(t, out, "<div class='dev_debug'>")
		assert.NotContains(t, out, view.DevMarker)
	})

	t.Run("chrome error", func(t *testing.T) {
		t.Parallel()
		_, err := view.Page(ctx, view.New(fstest.MapFS{}), view.FullLayout(), data, "body")
		assert.ErrorIs(t, err, view.ErrTemplateNotFound)
	})
}
