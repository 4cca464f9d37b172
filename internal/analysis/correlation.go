package analysis

import (
	"math"

	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// MaxAbsOffDiagonal returns the largest |r| off the diagonal, ignoring
// undefined entries. It is NaN when no pair is defined.
func (m *CorrMatrix) MaxAbsOffDiagonal() float64 {
	best := math.NaN()
	for i := range m.Values {
		for j := range m.Values[i] {
			if i == j {
				continue
			}
			r := math.Abs(m.Values[i][j])
			if math.IsNaN(r) {
				continue
			}
			if math.IsNaN(best) || r > best {
				best = r
			}
		}
	}
	return best
}

// ColumnSkew is the sample skewness of one numeric column.
type ColumnSkew struct {
	Column string
	Skew   float64
}

// ComputeCorrelation computes Pearson r between every pair of numeric
// columns over rows where both values are present. Returns nil with fewer
// than two numeric columns. Pairs with fewer than two rows or a constant
// side are NaN.
func ComputeCorrelation(t *table.Table) *CorrMatrix {
	cols := t.NumericColumns()
	if len(cols) < 2 {
		return nil
	}
	m := &CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pairwiseR(cols[i], cols[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwiseR(a, b *table.Column) float64 {
	var x, y []float64
	for i := range a.Cells {
		if a.Cells[i].Missing || b.Cells[i].Missing {
			continue
		}
		x = append(x, a.Cells[i].Num)
		y = append(y, b.Cells[i].Num)
	}
	if len(x) < 2 || constant(x) || constant(y) {
		return math.NaN()
	}
	if a == b {
		return 1
	}
	r := stat.Correlation(x, y, nil)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// ComputeSkewness returns the adjusted Fisher-Pearson skewness of every
// numeric column. It is NaN with fewer than three values and 0 for a
// constant column.
func ComputeSkewness(t *table.Table) []ColumnSkew {
	var out []ColumnSkew
	for _, c := range t.NumericColumns() {
		data := c.Floats()
		s := math.NaN()
		switch {
		case len(data) < 3:
		case constant(data):
			s = 0
		default:
			s = stat.Skew(data, nil)
		}
		out = append(out, ColumnSkew{Column: c.Name, Skew: s})
	}
	return out
}
