package view

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"path"
	"strings"
	"sync"
)

// DefaultExtension is appended to template paths without an extension.
const DefaultExtension = "html"

// maxIncludeDepth bounds recursive include calls.
const maxIncludeDepth = 32

// Renderer renders a template path with parameters into a string.
type Renderer interface {
	Render(ctx context.Context, path string, params map[string]any) (string, error)
}

// Engine renders html/template files from an fs.FS.
//
// Every template receives its params plus .Config and can call
// {{ include "path" . }} to render another template inline.
type Engine struct {
	fsys       fs.FS
	ext        string
	config     any
	funcs      template.FuncMap
	fileChecks bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

var _ Renderer = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithExtension sets the extension appended to paths without one.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		if ext = strings.TrimPrefix(ext, "."); ext != "" {
			e.ext = ext
		}
	}
}

// WithConfig exposes cfg to every template as .Config.
func WithConfig(cfg any) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		maps.Copy(e.funcs, funcs)
	}
}

// WithFileChecks re-reads templates on every render instead of caching
// parsed templates. Useful in development.
func WithFileChecks(enabled bool) Option {
	return func(e *Engine) {
		e.fileChecks = enabled
	}
}

// New creates an engine reading templates from fsys. A nil fsys yields an
// engine whose renders fail with ErrNotConfigured.
func New(fsys fs.FS, opts ...Option) *Engine {
	e := &Engine{
		fsys:  fsys,
		ext:   DefaultExtension,
		funcs: template.FuncMap{},
		cache: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render implements Renderer.
func (e *Engine) Render(ctx context.Context, name string, params map[string]any) (string, error) {
	return e.render(ctx, name, params, 0)
}

func (e *Engine) render(ctx context.Context, name string, params map[string]any, depth int) (string, error) {
	if e == nil || e.fsys == nil {
		return "", ErrNotConfigured
	}
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("%w: %s", ErrIncludeDepth, name)
	}

	base, err := e.lookup(e.filename(name))
	if err != nil {
		return "", err
	}

	tmpl, err := base.Clone()
	if err != nil {
		return "", fmt.Errorf("clone template %s: %w", name, err)
	}
	tmpl.Funcs(template.FuncMap{
		"include": func(path string, data ...any) (template.HTML, error) {
			out, err := e.render(ctx, path, includeParams(data), depth+1)
			return template.HTML(out), err
		},
	})

	data := make(map[string]any, len(params)+1)
	maps.Copy(data, params)
	if _, ok := data["Config"]; !ok {
		data["Config"] = e.config
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// filename resolves a template path to a file name inside fsys.
func (e *Engine) filename(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if path.Ext(name) == "" {
		name += "." + e.ext
	}
	return name
}

func (e *Engine) lookup(file string) (*template.Template, error) {
	if !e.fileChecks {
		e.mu.RLock()
		t, ok := e.cache[file]
		e.mu.RUnlock()
		if ok {
			return t, nil
		}
	}

	src, err := fs.ReadFile(e.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, file)
		}
		return nil, fmt.Errorf("read template %s: %w", file, err)
	}

	funcs := template.FuncMap{
		"include": func(string, ...any) (template.HTML, error) { return "", nil },
	}
	maps.Copy(funcs, e.funcs)

	t, err := template.New(file).Funcs(funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", file, err)
	}

	if !e.fileChecks {
		e.mu.Lock()
		e.cache[file] = t
		e.mu.Unlock()
	}
	return t, nil
}

// includeParams builds the params of an included template.
func includeParams(data []any) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}
	if m, ok := data[0].(map[string]any); ok {
		return m
	}
	return map[string]any{"Data": data[0]}
}
