package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// HighMissingPct is the missing percentage a column must exceed to be
// reported as high-missing.
const HighMissingPct = 50.0

// NumericProfileLimit bounds how many numeric columns get a full profile.
const NumericProfileLimit = 2

// Report is the full profile of one table.
type Report struct {
	Name        string
	Structure   Structure
	Categorical *FrequencyTable
	Numeric     []*ColumnProfile
	Corr        *CorrMatrix
	Skew        []ColumnSkew
	Insights    []string
}

// Structure captures shape, kinds and data-quality counts.
type Structure struct {
	Rows        int
	Cols        int
	Columns     []ColumnInfo
	Numeric     []string
	Categorical []string
	Duplicates  int
	Constant    []string
	HighMissing []string
}

// ColumnInfo is the per-column part of Structure.
type ColumnInfo struct {
	Name       string
	Kind       table.Kind
	Missing    int
	MissingPct float64
}

// MissingColumns returns how many columns have at least one missing cell
// and the largest missing percentage across all columns.
func (s Structure) MissingColumns() (int, float64) {
	n, maxPct := 0, 0.0
	for _, c := range s.Columns {
		if c.Missing > 0 {
			n++
		}
		if c.MissingPct > maxPct {
			maxPct = c.MissingPct
		}
	}
	return n, maxPct
}

// FrequencyTable lists the distinct values of a categorical column.
type FrequencyTable struct {
	Column string
	Values []CategoryCount
}

// CategoryCount is one distinct value with its count and share of all rows.
type CategoryCount struct {
	Value string
	Count int
	Pct   float64
}

// ColumnProfile holds descriptive statistics for a numeric column.
// Undefined statistics are NaN.
type ColumnProfile struct {
	Column   string
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	Mode     float64
	Std      float64
	Q1       float64
	Q3       float64
	IQR      float64
	Outliers int
}

// Profile runs every stage over t.
func Profile(t *table.Table) *Report {
	st := ComputeStructure(t)
	rep := &Report{Name: t.Name, Structure: st}

	if text := t.TextColumns(); len(text) > 0 {
		rep.Categorical = ComputeCategoricalProfile(text[0], t.Rows())
	}
	for i, col := range t.NumericColumns() {
		if i >= NumericProfileLimit {
			break
		}
		if p := ComputeNumericProfile(col); p != nil {
			rep.Numeric = append(rep.Numeric, p)
		}
	}
	rep.Corr = ComputeCorrelation(t)
	rep.Skew = ComputeSkewness(t)
	rep.Insights = DeriveInsights(st, rep.Categorical, rep.Numeric, rep.Corr, rep.Skew)
	return rep
}

// ComputeStructure computes shape, kinds, missingness, duplicate rows,
// constant columns and high-missing columns.
func ComputeStructure(t *table.Table) Structure {
	rows := t.Rows()
	st := Structure{Rows: rows, Cols: len(t.Columns)}
	for _, c := range t.Columns {
		miss := c.MissingCount()
		pct := 0.0
		if rows > 0 {
			pct = float64(miss) * 100.0 / float64(rows)
		}
		st.Columns = append(st.Columns, ColumnInfo{Name: c.Name, Kind: c.Kind, Missing: miss, MissingPct: pct})
		switch {
		case c.Kind.IsNumeric():
			st.Numeric = append(st.Numeric, c.Name)
		case c.Kind == table.KindText:
			st.Categorical = append(st.Categorical, c.Name)
		}
		if pct > HighMissingPct {
			st.HighMissing = append(st.HighMissing, c.Name)
		}
		if distinct(c) == 1 {
			st.Constant = append(st.Constant, c.Name)
		}
	}
	st.Duplicates = duplicateRows(t)
	return st
}

func distinct(c *table.Column) int {
	seen := make(map[string]struct{})
	for i, cell := range c.Cells {
		if cell.Missing {
			continue
		}
		seen[c.Key(i)] = struct{}{}
		if len(seen) > 1 {
			break
		}
	}
	return len(seen)
}

// duplicateRows counts rows identical to an earlier row. Missing cells
// compare equal to each other.
func duplicateRows(t *table.Table) int {
	if len(t.Columns) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	for i := 0; i < t.Rows(); i++ {
		k := t.RowKey(i)
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// ComputeCategoricalProfile counts distinct non-missing values of col.
// Percentages use rows, missing rows included, as the denominator.
// Returns nil when the table has no rows.
func ComputeCategoricalProfile(col *table.Column, rows int) *FrequencyTable {
	if rows == 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		if _, ok := counts[cell.Raw]; !ok {
			order = append(order, cell.Raw)
		}
		counts[cell.Raw]++
	}
	ft := &FrequencyTable{Column: col.Name, Values: make([]CategoryCount, 0, len(order))}
	for _, v := range order {
		ft.Values = append(ft.Values, CategoryCount{
			Value: v,
			Count: counts[v],
			Pct:   float64(counts[v]) * 100.0 / float64(rows),
		})
	}
	// stable: ties keep first-appearance order
	sort.SliceStable(ft.Values, func(i, j int) bool { return ft.Values[i].Count > ft.Values[j].Count })
	return ft
}

// ComputeNumericProfile computes descriptive statistics over the
// non-missing values of col. Returns nil when there are none.
func ComputeNumericProfile(col *table.Column) *ColumnProfile {
	data := col.Floats()
	if len(data) == 0 {
		return nil
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	p := &ColumnProfile{Column: col.Name, Count: len(data)}
	p.Min, _ = stats.Min(data)
	p.Max, _ = stats.Max(data)
	p.Mean, _ = stats.Mean(data)
	p.Median, _ = stats.Median(data)
	p.Mode = mode(sorted)
	p.Std = math.NaN()
	if len(data) >= 2 {
		p.Std, _ = stats.StandardDeviationSample(data)
	}
	p.Q1 = quantile(sorted, 0.25)
	p.Q3 = quantile(sorted, 0.75)
	p.IQR = p.Q3 - p.Q1
	p.Outliers = countOutliers(data, p.Q1, p.Q3)
	return p
}

func countOutliers(data []float64, q1, q3 float64) int {
	lo, hi := q1-1.5*(q3-q1), q3+1.5*(q3-q1)
	n := 0
	for _, v := range data {
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

// mode returns the most frequent value of sorted data, the smallest one
// when several tie, or NaN for empty data.
func mode(sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}

// quantile computes the q-th quantile (0..1) using linear interpolation on a
// sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
