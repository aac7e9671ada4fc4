// Package templates holds the HTML components served by the web package.
// Components are plain templ.Component values and escape all dynamic text.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2933}` +
	`table{border-collapse:collapse;margin-bottom:1.5rem}` +
	`th,td{border:1px solid #cbd2d9;padding:.25rem .6rem;text-align:left}` +
	`.muted{color:#7b8794}.alert{border:1px solid #e12d39;background:#ffe3e3;padding:1rem}`

// Layout wraps body in a complete HTML document.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>"+
			templ.EscapeString(title)+"</title><style>"+pageStyle+"</style></head><body>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
