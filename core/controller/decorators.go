package controller

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/mvc/core/view"
)

// Authenticated aborts with 403 unless the session carries a user.
func Authenticated() Decorator {
	return func(next ActionFunc) ActionFunc {
		return func(c *Context) (any, error) {
			if !c.HasUser() {
				return nil, ErrAuthenticationRequired
			}
			return next(c)
		}
	}
}

// AdminOnly aborts with 401 unless the session user is an admin.
func AdminOnly() Decorator {
	return func(next ActionFunc) ActionFunc {
		return func(c *Context) (any, error) {
			u, ok := c.User()
			if !ok || !u.IsAdmin() {
				return nil, ErrAuthorization
			}
			return next(c)
		}
	}
}

// DevOnly fails with ErrNotAccessible outside development mode.
func DevOnly() Decorator {
	return func(next ActionFunc) ActionFunc {
		return func(c *Context) (any, error) {
			if !c.IsDev() {
				return nil, ErrNotAccessible
			}
			return next(c)
		}
	}
}

// WebPage wraps the body output in a full HTML page with head, header and
// footer.
func WebPage() Decorator {
	return webPage(view.FullLayout())
}

// WebPageBlank wraps the body output in an HTML page with only the head.
func WebPageBlank() Decorator {
	return webPage(view.BlankLayout())
}

func webPage(layout view.Layout) Decorator {
	return func(next ActionFunc) ActionFunc {
		return func(c *Context) (any, error) {
			started := c.Started()

			out, err := next(c)
			if err != nil {
				return nil, err
			}

			body, err := renderToString(c, out)
			if err != nil {
				return nil, err
			}
			if c.router.renderer == nil {
				return nil, view.ErrNotConfigured
			}

			l := layout
			l.Dev = c.IsDev()
			l.Started = started

			page, err := view.Page(c, c.router.renderer, l, c.viewData(nil), body)
			if err != nil {
				return nil, err
			}
			return template.HTML(page), nil
		}
	}
}

// renderToString converts markup-like action output to a string.
func renderToString(c *Context, out any) (string, error) {
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case template.HTML:
		return string(v), nil
	case []byte:
		return string(v), nil
	case templ.Component:
		var buf bytes.Buffer
		if err := v.Render(c, &buf); err != nil {
			return "", fmt.Errorf("render component: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("cannot render %T as page content", out)
	}
}
