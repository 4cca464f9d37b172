package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Markdown renders d as a standalone markdown document with the same
// sections as the console report.
func Markdown(d Document) string {
	var b strings.Builder
	if name := d.Report.Name; name != "" {
		fmt.Fprintf(&b, "# EDA Report: %s\n\n", name)
	}
	b.WriteString(d.Report.MarkdownProfile())

	b.WriteString("\n## Visualizations\n\n")
	switch {
	case d.ChartPath != "":
		fmt.Fprintf(&b, "![chart panel](%s)\n\n", filepath.ToSlash(d.ChartPath))
		for _, title := range d.ChartTitles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	case d.ChartNote != "":
		fmt.Fprintf(&b, "_%s_\n", d.ChartNote)
	default:
		b.WriteString("_Charts disabled_\n")
	}

	b.WriteString(d.Report.MarkdownFindings())

	if d.SummaryRequested {
		b.WriteString("\n## Summary\n\n")
		if d.Summary != "" {
			b.WriteString(strings.TrimSpace(d.Summary) + "\n")
		} else {
			fmt.Fprintf(&b, "_No summary: %s_\n", d.SummaryNote)
		}
	}
	return b.String()
}
