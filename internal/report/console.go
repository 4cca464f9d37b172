// Package report prints a profiled table to the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/analysis"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Document is everything one analysis prints.
type Document struct {
	Report *analysis.Report

	// ChartPath is empty when no panel was written; ChartNote says why.
	ChartPath   string
	ChartTitles []string
	ChartNote   string

	SummaryRequested bool
	Summary          string
	// SummaryNote explains a missing summary.
	SummaryNote string
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	warn    = color.New(color.FgYellow)
	ok      = color.New(color.FgGreen)
)

// Write renders d as the console report.
func Write(w io.Writer, d Document) {
	r := d.Report
	st := r.Structure

	section(w, "Dataset Overview")
	fmt.Fprintf(w, "Shape: %d rows, %d columns\n", st.Rows, st.Cols)
	if len(st.Columns) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Column", "Type", "Missing", "Missing %"})
		for _, c := range st.Columns {
			t.AppendRow(table.Row{c.Name, c.Kind.String(), c.Missing, fmt.Sprintf("%.1f", c.MissingPct)})
		}
		t.Render()
	}
	if n, _ := st.MissingColumns(); n == 0 {
		fmt.Fprintln(w, "No missing values")
	}
	fmt.Fprintf(w, "Duplicates: %d\n", st.Duplicates)
	fmt.Fprintf(w, "Columns with one value: %s\n", list(st.Constant))
	fmt.Fprintf(w, "Columns with >50%% missing: %s\n", list(st.HighMissing))

	section(w, "Descriptive Statistics")
	if ft := r.Categorical; ft != nil {
		t := newTable(w)
		t.SetTitle("Categorical - " + ft.Column)
		t.AppendHeader(table.Row{ft.Column, "Count", "Percentage"})
		for _, v := range ft.Values {
			t.AppendRow(table.Row{v.Value, v.Count, fmt.Sprintf("%.2f", v.Pct)})
		}
		t.Render()
	}
	if len(r.Numeric) > 0 {
		t := newTable(w)
		t.SetTitle("Numeric columns (first two)")
		t.AppendHeader(table.Row{"Column", "Min", "Max", "Mean", "Median", "Mode", "Std", "IQR", "Outliers (1.5x IQR)"})
		for _, p := range r.Numeric {
			t.AppendRow(table.Row{
				p.Column,
				analysis.Fmt2(p.Min), analysis.Fmt2(p.Max),
				analysis.Fmt2(p.Mean), analysis.Fmt2(p.Median), analysis.Fmt2(p.Mode),
				analysis.Fmt2(p.Std), analysis.Fmt2(p.IQR),
				p.Outliers,
			})
		}
		t.Render()
	}
	if r.Categorical == nil && len(r.Numeric) == 0 {
		fmt.Fprintln(w, "No columns to describe")
	}

	section(w, "Visualizations")
	switch {
	case d.ChartPath != "":
		ok.Fprintf(w, "✓ Chart panel saved to %s\n", d.ChartPath)
		for _, title := range d.ChartTitles {
			fmt.Fprintf(w, "  - %s\n", title)
		}
	case d.ChartNote != "":
		warn.Fprintf(w, "⚠ %s\n", d.ChartNote)
	default:
		fmt.Fprintln(w, "Charts disabled")
	}

	section(w, "Insights")
	for _, in := range r.Insights {
		fmt.Fprintf(w, "- %s\n", in)
	}

	section(w, "Limitations")
	for _, l := range analysis.Limitations {
		fmt.Fprintf(w, "- %s\n", l)
	}

	if d.SummaryRequested {
		section(w, "Summary")
		if d.Summary != "" {
			fmt.Fprintln(w, strings.TrimSpace(d.Summary))
		} else {
			warn.Fprintf(w, "⚠ No summary: %s\n", d.SummaryNote)
		}
	}
}

func section(w io.Writer, name string) {
	fmt.Fprintln(w)
	heading.Fprintf(w, "## %s\n", name)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func list(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	return "[" + strings.Join(names, ", ") + "]"
}
