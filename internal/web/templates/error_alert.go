package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders a user-facing error box with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html := "<div class=\"alert\" role=\"alert\"><strong>" + templ.EscapeString(message) + "</strong>"
		if action != "" {
			html += "<p>" + templ.EscapeString(action) + "</p>"
		}
		if code != "" {
			html += "<p class=\"muted\">Code: " + templ.EscapeString(code) + "</p>"
		}
		html += "</div>"
		_, err := io.WriteString(w, html)
		return err
	})
}
