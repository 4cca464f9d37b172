package analysis

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxInsights caps the derived insight list.
	MaxInsights = 10

	skewThreshold = 1.0
	corrThreshold = 0.7
	maxConstant   = 3
)

// Closing insights are appended to every report.
var closingInsights = []string{
	"Ready for modeling after cleaning",
	"Check outliers before training",
}

// DeriveInsights turns the computed profile into short findings in a fixed
// order. Conditional findings are capped so the closing insights always end
// the list.
func DeriveInsights(st Structure, cat *FrequencyTable, nums []*ColumnProfile, corr *CorrMatrix, skews []ColumnSkew) []string {
	var out []string
	if n, maxPct := st.MissingColumns(); n > 0 {
		out = append(out, fmt.Sprintf("Missing values in %d columns (max %.1f%%)", n, maxPct))
	}
	if st.Duplicates > 0 {
		out = append(out, fmt.Sprintf("%d duplicate rows found", st.Duplicates))
	}
	if len(st.Constant) > 0 {
		names := st.Constant
		if len(names) > maxConstant {
			names = names[:maxConstant]
		}
		out = append(out, "Constant columns: "+strings.Join(names, ", "))
	}
	if len(st.HighMissing) > 0 {
		out = append(out, "High missing: "+strings.Join(st.HighMissing, ", "))
	}
	if skewed := SkewedColumns(skews); len(skewed) > 0 {
		out = append(out, "Skewed columns: "+strings.Join(skewed, ", "))
	}
	if corr != nil && len(corr.Columns) >= 2 {
		if r := corr.MaxAbsOffDiagonal(); !math.IsNaN(r) && r > corrThreshold {
			out = append(out, "High correlations detected")
		}
	}
	if limit := MaxInsights - len(closingInsights); len(out) > limit {
		out = out[:limit]
	}
	return append(out, closingInsights...)
}

// SkewedColumns names the columns whose absolute skewness exceeds 1.
func SkewedColumns(skews []ColumnSkew) []string {
	var out []string
	for _, s := range skews {
		if !math.IsNaN(s.Skew) && math.Abs(s.Skew) > skewThreshold {
			out = append(out, s.Column)
		}
	}
	return out
}
