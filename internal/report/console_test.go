package report

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/KaramelBytes/autoeda-cli/internal/analysis"
	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sample() *analysis.Report {
	tb := table.New("s.csv", []string{"id", "category", "value"}, [][]string{
		{"1", "a", "10"},
		{"2", "b", "20"},
		{"2", "a", "30"},
		{"3", "a", "1000"},
	}, table.ParseOptions{})
	return analysis.Profile(tb)
}

func TestWriteSectionsInOrder(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, Document{
		Report:           sample(),
		ChartPath:        "/tmp/x.png",
		ChartTitles:      []string{"Histogram: id"},
		SummaryRequested: true,
		Summary:          "A small table.\n",
	})
	out := buf.String()

	last := -1
	for _, s := range []string{
		"## Dataset Overview", "## Descriptive Statistics", "## Visualizations",
		"## Insights", "## Limitations", "## Summary",
	} {
		idx := strings.Index(out, s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
	assert.Contains(t, out, "Shape: 4 rows, 3 columns")
	assert.Contains(t, out, "265.00")
	assert.Contains(t, out, "75.00")
	assert.Contains(t, out, "✓ Chart panel saved to /tmp/x.png")
	assert.Contains(t, out, "- Check outliers before training")
	assert.Contains(t, out, "A small table.")
}

func TestWriteWithoutSummaryOrCharts(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, Document{Report: sample(), ChartNote: "no numeric or categorical columns to plot"})
	out := buf.String()
	assert.NotContains(t, out, "## Summary")
	assert.Contains(t, out, "⚠ no numeric or categorical columns to plot")
}

func TestWriteSummaryFailureNote(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, Document{Report: sample(), SummaryRequested: true, SummaryNote: "credential missing"})
	assert.Contains(t, buf.String(), "⚠ No summary: credential missing")
}

func TestWriteEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, Document{Report: analysis.Profile(table.New("e.csv", []string{"a", "b"}, nil, table.ParseOptions{}))})
	out := buf.String()
	assert.Contains(t, out, "Shape: 0 rows, 2 columns")
	assert.Contains(t, out, "No columns to describe")
	assert.Contains(t, out, "- Ready for modeling after cleaning")
}
