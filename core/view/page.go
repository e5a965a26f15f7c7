package view

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DevMarker is replaced by the development timing banner.
const DevMarker = "${dev_debug_info}"

// Layout selects the chrome wrapped around a page body.
type Layout struct {
	Head   bool
	Header bool
	Footer bool
	// Dev inserts a timing banner measured from Started.
	Dev     bool
	Started time.Time
}

// FullLayout renders head, header and footer.
func FullLayout() Layout {
	return Layout{Head: true, Header: true, Footer: true}
}

// BlankLayout renders only the head.
func BlankLayout() Layout {
	return Layout{Head: true}
}

// Page wraps body in an HTML document built from the sub/head, sub/header
// and sub/footer templates. Each chrome template receives data.
func Page(ctx context.Context, r Renderer, layout Layout, data map[string]any, body string) (string, error) {
	var buf strings.Builder
	buf.WriteString("<!DOCTYPE html>\n<html>\n\n<head>\n")

	if layout.Head {
		if err := renderInto(ctx, &buf, r, "sub/head", data); err != nil {
			return "", err
		}
	}
	buf.WriteString("\n</head>\n\n<body>\n")

	if layout.Dev {
		buf.WriteString(DevMarker + "\n")
	}
	if layout.Header {
		if err := renderInto(ctx, &buf, r, "sub/header", data); err != nil {
			return "", err
		}
	}

	buf.WriteString("\n")
	buf.WriteString(body)
	buf.WriteString("\n")

	if layout.Footer {
		if err := renderInto(ctx, &buf, r, "sub/footer", data); err != nil {
			return "", err
		}
	}
	buf.WriteString("\n</body>\n\n</html>\n")

	out := buf.String()
	if layout.Dev {
		out = strings.Replace(out, DevMarker, DevBanner(time.Since(layout.Started)), 1)
	}
	return out, nil
}

// DevBanner renders the development timing banner.
func DevBanner(elapsed time.Duration) string {
	return fmt.Sprintf("<div class='dev_debug'><span>Time: %d ms</span></div>", elapsed.Milliseconds())
}

func renderInto(ctx context.Context, buf *strings.Builder, r Renderer, name string, data map[string]any) error {
	out, err := r.Render(ctx, name, data)
	if err != nil {
		return err
	}
	buf.WriteString(out)
	return nil
}
