// Package view renders html/template files for controllers.
//
// Engine loads templates from any fs.FS (os.DirFS, embed.FS, fstest.MapFS),
// appends the default extension to bare paths and caches parsed templates
// unless file checks are enabled:
//
//	engine := view.New(os.DirFS("templates"), view.WithConfig(appConfig))
//	html, err := engine.Render(ctx, "home/index", map[string]any{"Session": sess})
//
// Inside templates, .Config holds the configured value and
// {{ include "sub/nav" . }} renders another template inline.
//
// Page wraps a rendered body with the sub/head, sub/header and sub/footer
// templates into a full HTML document.
package view
