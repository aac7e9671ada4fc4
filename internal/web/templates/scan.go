package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/licscan/internal/core"
)

// ScanPage renders a scan report as a standalone page.
func ScanPage(report *core.ScanReport) templ.Component {
	title := fmt.Sprintf("Scan %d", report.Scan.ID)
	return Layout(title, ScanSummary(report))
}

// ScanSummary renders the scan header followed by one table per category.
func ScanSummary(report *core.ScanReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		fmt.Fprintf(&b, "<h1>Scan %d</h1>", report.Scan.ID)
		if report.Scan.Description != "" {
			b.WriteString("<p>" + templ.EscapeString(report.Scan.Description) + "</p>")
		}
		fmt.Fprintf(&b, "<p class=\"muted\">%s &middot; %d files</p>",
			templ.EscapeString(report.Scan.ScanDate.Format("2006-01-02")), report.TotalFiles)

		if report.TotalFiles == 0 {
			b.WriteString("<p>No files have been imported into this scan.</p>")
		}

		for _, cat := range report.Categories {
			name := cat.Name
			if name == "" {
				name = "Uncategorized"
			}
			fmt.Fprintf(&b, "<h2>%s <span class=\"muted\">(%d)</span></h2>", templ.EscapeString(name), cat.Files)
			b.WriteString("<table><thead><tr><th>License</th><th>Path</th><th>SHA1</th></tr></thead><tbody>")
			for _, lic := range cat.Licenses {
				for _, f := range lic.Files {
					b.WriteString("<tr><td>" + templ.EscapeString(lic.Name) +
						"</td><td>" + templ.EscapeString(f.Path) +
						"</td><td class=\"muted\">" + templ.EscapeString(f.SHA1) + "</td></tr>")
				}
			}
			b.WriteString("</tbody></table>")
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}
