package response

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/mvc/core/handler"
)

// Templ creates an HTML response from a templ component with 200 OK status.
// The component is rendered with the request's context.
func Templ(component templ.Component) handler.Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if err := component.Render(r.Context(), w); err != nil {
			return fmt.Errorf("templ component render error: %w", err)
		}
		return nil
	}
}
