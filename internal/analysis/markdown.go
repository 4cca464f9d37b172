package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Limitations are printed after the insights of every report.
var Limitations = []string{
	"Missingness patterns unknown",
	"Sampling bias not assessed",
	"Domain context needed for outliers",
}

// Fmt2 formats v with two decimals, or "nan" when undefined.
func Fmt2(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	return r.MarkdownProfile() + r.MarkdownFindings()
}

// MarkdownProfile renders the overview and statistics sections.
func (r *Report) MarkdownProfile() string {
	var b strings.Builder
	st := r.Structure
	b.WriteString("## Dataset Overview\n\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Shape: %d rows, %d columns\n\n", st.Rows, st.Cols))
	if len(st.Columns) > 0 {
		b.WriteString("| column | type | missing | missing % |\n| --- | --- | --- | --- |\n")
		for _, c := range st.Columns {
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %.1f |\n", safeName(c.Name), c.Kind, c.Missing, c.MissingPct))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("- Duplicates: %d\n", st.Duplicates))
	b.WriteString(fmt.Sprintf("- Columns with one value: %s\n", nameList(st.Constant)))
	b.WriteString(fmt.Sprintf("- Columns with >50%% missing: %s\n", nameList(st.HighMissing)))

	b.WriteString("\n## Descriptive Statistics\n")
	if ft := r.Categorical; ft != nil {
		b.WriteString(fmt.Sprintf("\nCategorical - %s:\n\n| value | count | percentage |\n| --- | --- | --- |\n", safeName(ft.Column)))
		for _, v := range ft.Values {
			b.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", safeVal(v.Value), v.Count, v.Pct))
		}
	}
	for _, p := range r.Numeric {
		b.WriteString(fmt.Sprintf("\n%s:\n", safeName(p.Column)))
		b.WriteString(fmt.Sprintf("- Min/Max: %s/%s\n", Fmt2(p.Min), Fmt2(p.Max)))
		b.WriteString(fmt.Sprintf("- Mean/Median/Mode: %s/%s/%s\n", Fmt2(p.Mean), Fmt2(p.Median), Fmt2(p.Mode)))
		b.WriteString(fmt.Sprintf("- Std/IQR: %s/%s\n", Fmt2(p.Std), Fmt2(p.IQR)))
		b.WriteString(fmt.Sprintf("- Outliers (1.5x IQR): %d\n", p.Outliers))
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n### Correlations\n\n")
		for _, p := range r.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s\n", p.A, p.B, fmt3(p.R)))
		}
	}
	if len(r.Skew) > 0 {
		b.WriteString("\n### Skewness\n\n")
		for _, s := range r.Skew {
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(s.Column), Fmt2(s.Skew)))
		}
	}

	return b.String()
}

// MarkdownFindings renders the insights and limitations sections.
func (r *Report) MarkdownFindings() string {
	var b strings.Builder
	b.WriteString("\n## Insights\n\n")
	for _, in := range r.Insights {
		b.WriteString("- " + in + "\n")
	}
	b.WriteString("\n## Limitations\n\n")
	for _, l := range Limitations {
		b.WriteString("- " + l + "\n")
	}
	return b.String()
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// TopPairs lists up to n column pairs ordered by |r|, undefined pairs last.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if math.IsNaN(ai) || math.IsNaN(aj) {
			return !math.IsNaN(ai) && math.IsNaN(aj)
		}
		return ai > aj
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func fmt3(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.3f", v)
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
